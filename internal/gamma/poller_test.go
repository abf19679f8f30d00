package gamma

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/common"
)

// probeStep is one scripted CheckStatus outcome.
type probeStep struct {
	res StatusResult
	err error
}

type scriptedProber struct {
	steps []probeStep
	calls int
}

func (p *scriptedProber) CheckStatus(ctx context.Context, id string) (StatusResult, error) {
	step := p.steps[len(p.steps)-1]
	if p.calls < len(p.steps) {
		step = p.steps[p.calls]
	}
	p.calls++
	return step.res, step.err
}

func fastPoller(prober StatusProber) *Poller {
	return NewPoller(prober, common.PollConfig{
		Interval:          time.Millisecond,
		MaxWait:           time.Second,
		UnavailableBudget: 3,
	}, nil)
}

func TestWait_RunsToCompleted(t *testing.T) {
	prober := &scriptedProber{steps: []probeStep{
		{res: StatusResult{Status: constants.StatusPending}},
		{res: StatusResult{Status: constants.StatusGenerating}},
		{res: StatusResult{Status: constants.StatusCompleted, RemoteURL: "https://gamma.app/docs/abc"}},
	}}

	var transitions []constants.GenerationStatus
	res, err := fastPoller(prober).Wait(context.Background(), "gen-1", func(sr StatusResult) {
		transitions = append(transitions, sr.Status)
	})

	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, res.Status)
	assert.Equal(t, "https://gamma.app/docs/abc", res.RemoteURL)
	assert.Equal(t, []constants.GenerationStatus{
		constants.StatusPending,
		constants.StatusGenerating,
		constants.StatusCompleted,
	}, transitions, "one callback per observed change")
}

func TestWait_RemoteFailureIsTerminalNotError(t *testing.T) {
	prober := &scriptedProber{steps: []probeStep{
		{res: StatusResult{Status: constants.StatusGenerating}},
		{res: StatusResult{Status: constants.StatusFailed}},
	}}

	res, err := fastPoller(prober).Wait(context.Background(), "gen-1", nil)
	require.NoError(t, err, "remote failure is a terminal status, the caller branches on it")
	assert.Equal(t, constants.StatusFailed, res.Status)
}

func TestWait_TransientProbesAreRetried(t *testing.T) {
	unavailable := common.NewAppError("GAMMA_STATUS", "status 503", common.ErrRemoteUnavailable)
	prober := &scriptedProber{steps: []probeStep{
		{res: StatusResult{Status: constants.StatusGenerating}},
		{err: unavailable},
		{err: unavailable},
		{res: StatusResult{Status: constants.StatusCompleted}},
	}}

	res, err := fastPoller(prober).Wait(context.Background(), "gen-1", nil)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, res.Status)
	assert.Equal(t, 4, prober.calls)
}

func TestWait_UnavailableBudgetExhaustionIsTimeout(t *testing.T) {
	unavailable := common.NewAppError("GAMMA_STATUS", "connection refused", common.ErrRemoteUnavailable)
	prober := &scriptedProber{steps: []probeStep{{err: unavailable}}}

	_, err := fastPoller(prober).Wait(context.Background(), "gen-1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTimeout))
	assert.Equal(t, 3, prober.calls, "budget is consecutive failures")
}

func TestWait_ConsecutiveCounterResetsOnSuccess(t *testing.T) {
	unavailable := common.NewAppError("GAMMA_STATUS", "status 502", common.ErrRemoteUnavailable)
	prober := &scriptedProber{steps: []probeStep{
		{err: unavailable},
		{err: unavailable},
		{res: StatusResult{Status: constants.StatusGenerating}},
		{err: unavailable},
		{err: unavailable},
		{res: StatusResult{Status: constants.StatusCompleted}},
	}}

	res, err := fastPoller(prober).Wait(context.Background(), "gen-1", nil)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusCompleted, res.Status)
}

func TestWait_DeadlineExceededIsTimeout(t *testing.T) {
	prober := &scriptedProber{steps: []probeStep{
		{res: StatusResult{Status: constants.StatusGenerating}},
	}}
	p := NewPoller(prober, common.PollConfig{
		Interval:          time.Millisecond,
		MaxWait:           20 * time.Millisecond,
		UnavailableBudget: 3,
	}, nil)

	_, err := p.Wait(context.Background(), "gen-1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTimeout))
}

func TestWait_PermanentProbeFailureStopsImmediately(t *testing.T) {
	rejected := common.NewAppError("GAMMA_STATUS", "status 404", common.ErrRemoteRejected)
	prober := &scriptedProber{steps: []probeStep{{err: rejected}}}

	_, err := fastPoller(prober).Wait(context.Background(), "gen-1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRemoteRejected))
	assert.Equal(t, 1, prober.calls)
}

func TestWait_ContextCancellation(t *testing.T) {
	prober := &scriptedProber{steps: []probeStep{
		{res: StatusResult{Status: constants.StatusGenerating}},
	}}
	p := NewPoller(prober, common.PollConfig{
		Interval:          time.Hour, // cancellation must cut the sleep short
		MaxWait:           time.Hour,
		UnavailableBudget: 3,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.Wait(ctx, "gen-1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
