package main

import (
	"flag"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/app"
	"github.com/shrimpsizemoose/fusionx/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	mux := http.NewServeMux()
	handlers.NewHandler(service).Routes(mux)

	logger.Info.Printf("Starting fusionx server on %s", service.Config.Server.Port)
	logger.Debug.Printf("Acting user header: %s", service.Config.API.ActorHeader)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if service.Config.Competitions.RequireActiveForSubmissions {
		logger.Info.Println("Submissions are only accepted by active competitions")
	}

	if err := http.ListenAndServe(service.Config.Server.Port, mux); err != nil {
		logger.Error.Fatalf("Fusionx server failed: %v", err)
	}
}
