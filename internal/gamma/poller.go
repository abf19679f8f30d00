package gamma

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deckpilot/deckpilot/internal/common"
)

// StatusProber is the probe half of the client, split out so the poller can
// be driven by a fake in tests.
type StatusProber interface {
	CheckStatus(ctx context.Context, generationID string) (StatusResult, error)
}

// Poller converts the remote service's asynchronous job model into a bounded
// synchronous wait: probe, sleep, repeat until a terminal status or the
// deadline. Level-triggered; nothing is observable between probes.
type Poller struct {
	Prober            StatusProber
	Interval          time.Duration
	MaxWait           time.Duration
	UnavailableBudget int // consecutive transient failures tolerated

	logger *slog.Logger
}

func NewPoller(prober StatusProber, cfg common.PollConfig, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		Prober:            prober,
		Interval:          cfg.Interval,
		MaxWait:           cfg.MaxWait,
		UnavailableBudget: cfg.UnavailableBudget,
		logger:            logger,
	}
	if p.Interval <= 0 {
		p.Interval = 5 * time.Second
	}
	if p.MaxWait <= 0 {
		p.MaxWait = 5 * time.Minute
	}
	if p.UnavailableBudget <= 0 {
		p.UnavailableBudget = 3
	}
	return p
}

// Wait polls until the job reaches completed or failed (returned with a nil
// error; the caller branches on the status), the wall-clock deadline passes,
// or the transient-failure budget runs out. Both of the latter surface as
// ErrTimeout: the job may still finish remotely, but we stop waiting.
// Transient probe failures never pause the deadline clock.
//
// onTransition, when non-nil, fires once per observed status change; the
// orchestrator uses it to persist the record on every transition.
func (p *Poller) Wait(ctx context.Context, generationID string, onTransition func(StatusResult)) (StatusResult, error) {
	start := time.Now()
	deadline := start.Add(p.MaxWait)

	var last StatusResult
	consecutiveUnavailable := 0

	for {
		res, err := p.Prober.CheckStatus(ctx, generationID)
		switch {
		case err == nil:
			consecutiveUnavailable = 0
			if res.Status != last.Status && onTransition != nil {
				onTransition(res)
			}
			last = res

			p.logger.Info("gamma.poll.status",
				"generation_id", generationID,
				"status", string(res.Status),
				"elapsed_s", int(time.Since(start).Seconds()),
			)
			if res.Status.Terminal() {
				return res, nil
			}

		case errors.Is(err, common.ErrRemoteUnavailable):
			consecutiveUnavailable++
			p.logger.Warn("gamma.poll.unavailable",
				"generation_id", generationID,
				"consecutive", consecutiveUnavailable,
				"budget", p.UnavailableBudget,
				"err", err,
			)
			if consecutiveUnavailable >= p.UnavailableBudget {
				return last, common.NewAppError("POLL_RETRY_BUDGET",
					fmt.Sprintf("%d consecutive transient probe failures", consecutiveUnavailable),
					common.ErrTimeout)
			}

		default:
			// permanent probe failure; not retried
			return last, err
		}

		if time.Now().After(deadline) {
			return last, common.NewAppError("POLL_DEADLINE",
				fmt.Sprintf("gave up after %s", p.MaxWait), common.ErrTimeout)
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(p.Interval):
		}
	}
}
