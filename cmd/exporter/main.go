package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/app"
	"github.com/shrimpsizemoose/fusionx/internal/export"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var once = flag.Bool("once", false, "Write one newsletter and exit")
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	if config.Export.SourceURL == "" {
		logger.Error.Fatalf("export.source_url is not specified in config")
	}

	headers := make(map[string]string, len(config.API.RequiredHeaders))
	for _, h := range config.API.RequiredHeaders {
		headers[h.Name] = h.Value
	}
	render := export.RemoteNewsletter(&http.Client{Timeout: time.Minute}, config.Export.SourceURL, headers)

	scheduler, err := export.NewScheduler(config.Export, render, time.Now)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize newsletter exporter: %v", err)
	}
	defer scheduler.Shutdown()

	if *once {
		path, err := scheduler.WriteNow()
		if err != nil {
			logger.Error.Fatalf("Newsletter export failed: %v", err)
		}
		logger.Info.Printf("Newsletter written to %s", path)
		return
	}

	scheduler.Start()
	logger.Info.Printf("Exporting newsletters on %q into %s", config.Export.Schedule, config.Export.OutputDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info.Println("Exporter stopped")
}
