package export

import (
	"context"
	"log/slog"
)

// Downloader is the direct-export half of the generation client.
type Downloader interface {
	ExportDownload(ctx context.Context, generationID, remoteURL, format, outPath string) error
}

// apiStrategy asks the remote service to materialize the artifact and
// downloads the bytes. Cheapest path, no environmental prerequisites.
type apiStrategy struct {
	client Downloader
	logger *slog.Logger
}

func NewAPIStrategy(client Downloader, logger *slog.Logger) Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	return &apiStrategy{client: client, logger: logger}
}

func (s *apiStrategy) Name() string { return "api" }

func (s *apiStrategy) Available() bool { return true }

func (s *apiStrategy) Attempt(ctx context.Context, job Job) error {
	return s.client.ExportDownload(ctx, job.GenerationID, job.RemoteURL, job.Format, job.OutputPath)
}
