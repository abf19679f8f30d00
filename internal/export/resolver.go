package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/deckpilot/deckpilot/internal/common"
)

// Resolver tries export strategies in priority order and reports the first
// success or an aggregate failure. The ordering is configuration: the API
// path goes first by default because it is cheaper and needs nothing from
// the environment, but a caller may put the browser first or drop the API
// path entirely.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewResolver(strategies []Strategy, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// BuildStrategies assembles the ordered strategy list from configuration.
func BuildStrategies(client Downloader, preferBrowser, disableAPI, headless bool, downloadWait time.Duration, logger *slog.Logger) []Strategy {
	api := NewAPIStrategy(client, logger)
	browser := NewBrowserStrategy(headless, downloadWait, logger)

	switch {
	case disableAPI:
		return []Strategy{browser}
	case preferBrowser:
		return []Strategy{browser, api}
	default:
		return []Strategy{api, browser}
	}
}

// Resolve runs the strategy list for the job. It returns the name of the
// winning strategy. When every available strategy fails (or none is
// available) the joined causes are wrapped in ErrExportExhausted.
func (r *Resolver) Resolve(ctx context.Context, job Job) (string, error) {
	var attempts []error
	for _, s := range r.strategies {
		if !s.Available() {
			r.logger.Info("export.strategy.unavailable", "strategy", s.Name())
			continue
		}
		r.logger.Info("export.strategy.attempt", "strategy", s.Name(), "out", job.OutputPath)
		if err := s.Attempt(ctx, job); err != nil {
			r.logger.Warn("export.strategy.failed", "strategy", s.Name(), "err", err)
			attempts = append(attempts, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if err := verifyArtifact(job.OutputPath); err != nil {
			r.logger.Warn("export.strategy.bad_artifact", "strategy", s.Name(), "err", err)
			attempts = append(attempts, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		r.logger.Info("export.strategy.ok", "strategy", s.Name(), "out", job.OutputPath)
		return s.Name(), nil
	}

	cause := errors.Join(attempts...)
	if cause == nil {
		cause = errors.New("no export strategy available")
	}
	return "", common.NewAppError("EXPORT_EXHAUSTED", job.OutputPath,
		fmt.Errorf("%w: %w", common.ErrExportExhausted, cause))
}

// verifyArtifact enforces the success contract: the output file exists and
// is non-empty.
func verifyArtifact(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("artifact missing: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("artifact is empty")
	}
	return nil
}
