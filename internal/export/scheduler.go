// internal/export/scheduler.go
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Schedule  string `toml:"schedule"`
	OutputDir string `toml:"output_dir"`
	// SourceURL is the server the standalone exporter pulls newsletters from.
	SourceURL string `toml:"source_url"`
}

// RenderFunc writes one newsletter issue dated at the given time.
type RenderFunc func(w io.Writer, issued time.Time) error

// Scheduler writes the newsletter to OutputDir on a cron schedule.
type Scheduler struct {
	cfg       Config
	render    RenderFunc
	now       func() time.Time
	scheduler gocron.Scheduler
}

func NewScheduler(cfg Config, render RenderFunc, now func() time.Time) (*Scheduler, error) {
	if now == nil {
		now = time.Now
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("export output_dir is not specified in config")
	}

	gs, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s := &Scheduler{cfg: cfg, render: render, now: now, scheduler: gs}

	if cfg.Schedule != "" {
		_, err = gs.NewJob(
			gocron.CronJob(cfg.Schedule, false),
			gocron.NewTask(func() {
				path, err := s.WriteNow()
				if err != nil {
					logger.Error.Printf("Newsletter export failed: %v", err)
					return
				}
				logger.Info.Printf("Newsletter written to %s", path)
			}),
		)
		if err != nil {
			_ = gs.Shutdown()
			return nil, fmt.Errorf("failed to schedule newsletter %q: %w", cfg.Schedule, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// FileName is <slug of the newsletter title>-<date>.txt.
func FileName(issued time.Time) string {
	return fmt.Sprintf("%s-%s.txt", slug.Make(NewsletterTitle), issued.UTC().Format("2006-01-02"))
}

// WriteNow renders one issue immediately and returns the file it wrote.
func (s *Scheduler) WriteNow() (string, error) {
	issued := s.now()

	var buf bytes.Buffer
	if err := s.render(&buf, issued); err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(s.cfg.OutputDir, FileName(issued))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write newsletter: %w", err)
	}
	return path, nil
}
