// internal/export/remote.go
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteNewsletter renders by fetching the plain-text newsletter from a running server.
// The record store lives inside the server process, so a separate exporter has to ask it.
func RemoteNewsletter(client *http.Client, baseURL string, headers map[string]string) RenderFunc {
	url := strings.TrimRight(baseURL, "/") + "/api/v1/newsletter.txt"
	return func(w io.Writer, issued time.Time) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to build newsletter request: %w", err)
		}
		for name, value := range headers {
			req.Header.Set(name, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch newsletter: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("newsletter request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		if _, err := io.Copy(w, resp.Body); err != nil {
			return fmt.Errorf("failed to read newsletter: %w", err)
		}
		return nil
	}
}
