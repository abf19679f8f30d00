package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/common"
	"github.com/deckpilot/deckpilot/internal/export"
	"github.com/deckpilot/deckpilot/internal/extract"
	"github.com/deckpilot/deckpilot/internal/fingerprint"
	"github.com/deckpilot/deckpilot/internal/gamma"
	"github.com/deckpilot/deckpilot/internal/record"
)

// GenerationSubmitter is the submit half of the generation client.
type GenerationSubmitter interface {
	Submit(ctx context.Context, text string, opts gamma.Options, hasImageURLs bool) (string, error)
}

// StatusWaiter drives a submitted job to a terminal state.
type StatusWaiter interface {
	Wait(ctx context.Context, generationID string, onTransition func(gamma.StatusResult)) (gamma.StatusResult, error)
}

// ExportResolver materializes a completed job as a local file.
type ExportResolver interface {
	Resolve(ctx context.Context, job export.Job) (string, error)
}

// Orchestrator composes fingerprinting, the record store, the generation
// client, the polling driver and the export resolver, one file at a time.
// Failures are file-scoped: a bad file never aborts the batch.
type Orchestrator struct {
	store     *record.Store
	extractor extract.TextExtractor
	client    GenerationSubmitter
	poller    StatusWaiter
	resolver  ExportResolver
	opts      gamma.Options
	cfg       *common.Config
	force     bool
	logger    *zap.Logger
}

func New(
	store *record.Store,
	extractor extract.TextExtractor,
	client GenerationSubmitter,
	poller StatusWaiter,
	resolver ExportResolver,
	opts gamma.Options,
	cfg *common.Config,
	force bool,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		extractor: extractor,
		client:    client,
		poller:    poller,
		resolver:  resolver,
		opts:      opts,
		cfg:       cfg,
		force:     force,
		logger:    logger,
	}
}

// candidate is a discovered file that was not skipped by the dedup gate.
type candidate struct {
	path       string
	key        fingerprint.Key
	prior      *record.Record
	extraction extract.Result
	priority   bool
}

// Run discovers input files and processes each to its outcome.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	files, err := Discover(o.cfg.Paths.InputDir)
	if err != nil {
		return sum, err
	}
	sum.Discovered = len(files)
	o.logger.Info("orchestrator.discovered",
		zap.Int("files", len(files)),
		zap.String("dir", o.cfg.Paths.InputDir),
	)

	if err := os.MkdirAll(o.cfg.Paths.OutputDir, 0o755); err != nil {
		return sum, err
	}

	// Phase 1: dedup gate. Fingerprint + lookup decide who gets remote work;
	// fully done files are skipped with zero remote calls.
	var candidates []*candidate
	for _, path := range files {
		key, err := fingerprint.File(path)
		if err != nil {
			o.logger.Warn("orchestrator.fingerprint_failed", zap.String("file", path), zap.Error(err))
			sum.record(Outcome{Path: path, Result: ResultFailed, Err: err})
			continue
		}
		prior := o.store.Lookup(key)
		if !o.force && prior != nil && prior.Exported() && fileNonEmpty(prior.ExportPath) {
			o.logger.Info("orchestrator.skip",
				zap.String("file", path),
				zap.String("generation_id", prior.GenerationID),
			)
			sum.record(Outcome{Path: path, Result: ResultSkipped, Record: prior})
			continue
		}
		candidates = append(candidates, &candidate{path: path, key: key, prior: prior})
	}

	// Phase 2: extraction, reused later for submission. Files whose content
	// carries the priority marker order first (stable).
	var ready []*candidate
	for _, c := range candidates {
		res, err := o.extractor.Extract(ctx, c.path)
		if err != nil {
			sum.record(Outcome{Path: c.path, Result: ResultFailed, Err: err})
			continue
		}
		if strings.TrimSpace(res.Text) == "" {
			sum.record(Outcome{Path: c.path, Result: ResultFailed,
				Err: common.NewAppError("EXTRACT_EMPTY", c.path, common.ErrInvalidInput)})
			continue
		}
		c.extraction = res
		marker := o.cfg.Paths.PriorityMarker
		c.priority = marker != "" && strings.Contains(res.Text, marker)
		ready = append(ready, c)
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].priority && !ready[j].priority
	})

	// Phase 3: drive each candidate through its lifecycle.
	for _, c := range ready {
		outcome := o.processOne(ctx, c)
		sum.record(outcome)
		o.logger.Info("orchestrator.file_done",
			zap.String("file", c.path),
			zap.String("result", outcome.Result),
			zap.Error(outcome.Err),
		)
	}

	o.logger.Info("orchestrator.run_done",
		zap.Int("discovered", sum.Discovered),
		zap.Int("skipped", sum.Skipped),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
	)
	return sum, nil
}

// processOne drives a single file: record bookkeeping, submit (or resume),
// poll, export. The record is persisted after every state transition.
func (o *Orchestrator) processOne(ctx context.Context, c *candidate) Outcome {
	rec, resume, reexport, err := o.prepareRecord(c)
	if err != nil {
		return Outcome{Path: c.path, Result: ResultFailed, Err: err}
	}

	if !reexport {
		if resume {
			o.logger.Info("orchestrator.resume",
				zap.String("file", c.path),
				zap.String("generation_id", rec.GenerationID),
			)
		} else {
			text := extract.AppendImageSection(c.extraction.Text, c.extraction.ImageURLs)
			id, err := o.client.Submit(ctx, text, o.opts, len(c.extraction.ImageURLs) > 0)
			if err != nil {
				o.failRecord(rec, err.Error())
				return Outcome{Path: c.path, Result: ResultFailed, Err: err, Record: rec}
			}
			rec.GenerationID = id
			o.persist(rec)
		}

		final, err := o.poller.Wait(ctx, rec.GenerationID, func(sr gamma.StatusResult) {
			if sr.RemoteURL != "" {
				rec.RemoteURL = sr.RemoteURL
			}
			if aerr := rec.AdvanceStatus(sr.Status); aerr != nil {
				o.logger.Warn("orchestrator.transition_rejected",
					zap.String("file", c.path), zap.Error(aerr))
				return
			}
			o.persist(rec)
		})
		if err != nil {
			cause := "polling failed: " + err.Error()
			if errors.Is(err, common.ErrTimeout) {
				cause = "timeout: " + err.Error()
			}
			o.failRecord(rec, cause)
			return Outcome{Path: c.path, Result: ResultFailed, Err: err, Record: rec}
		}
		if final.Status == constants.StatusFailed {
			o.failRecord(rec, "remote generation failed")
			return Outcome{Path: c.path, Result: ResultFailed,
				Err: errors.New("remote generation failed"), Record: rec}
		}

		if final.RemoteURL != "" {
			rec.RemoteURL = final.RemoteURL
		}
		if err := rec.AdvanceStatus(constants.StatusCompleted); err != nil {
			o.logger.Warn("orchestrator.transition_rejected", zap.String("file", c.path), zap.Error(err))
		}
		o.persist(rec)
	}

	// Export: generation success and export success are independent; a
	// completed record survives an exhausted export.
	job := export.Job{
		GenerationID: rec.GenerationID,
		RemoteURL:    rec.RemoteURL,
		Format:       o.cfg.Export.Format,
		OutputPath:   OutputPath(o.cfg.Paths.OutputDir, c.path, o.cfg.Export.FileSuffix, o.cfg.Export.Format),
	}
	method, err := o.resolver.Resolve(ctx, job)
	if err != nil {
		rec.MarkExportFailed()
		o.persist(rec)
		return Outcome{Path: c.path, Result: ResultExportFailed, Err: err, Record: rec}
	}
	if err := rec.MarkExported(job.OutputPath, method); err != nil {
		return Outcome{Path: c.path, Result: ResultFailed, Err: err, Record: rec}
	}
	o.persist(rec)
	return Outcome{Path: c.path, Result: ResultSucceeded, Record: rec}
}

// prepareRecord decides how the prior record (if any) shapes this run:
// resume an in-flight job, re-export a completed one, or supersede and start
// fresh. Force always starts fresh, preserving history.
func (o *Orchestrator) prepareRecord(c *candidate) (rec *record.Record, resume, reexport bool, err error) {
	prior := c.prior

	if !o.force && prior != nil {
		switch {
		case prior.Status == constants.StatusCompleted && prior.RemoteURL != "":
			// generation done earlier; only the export is missing
			return prior, false, true, nil
		case !prior.Status.Terminal() && prior.GenerationID != "":
			// a restart mid-flight resumes polling on the stored id
			return prior, true, false, nil
		}
	}

	if prior != nil {
		if err := o.store.Supersede(c.key); err != nil {
			return nil, false, false, err
		}
	}

	rec = record.New(c.key, filepath.Base(c.path))
	if err := o.store.Append(rec); err != nil {
		return nil, false, false, err
	}
	return rec, false, false, nil
}

func (o *Orchestrator) failRecord(rec *record.Record, cause string) {
	if err := rec.Fail(cause); err != nil {
		o.logger.Warn("orchestrator.fail_transition_rejected", zap.Error(err))
	}
	o.persist(rec)
}

// persist saves the store; persistence failures are logged, not fatal — the
// in-memory record keeps advancing and later saves will retry.
func (o *Orchestrator) persist(rec *record.Record) {
	if err := o.store.Save(); err != nil {
		o.logger.Error("orchestrator.persist_failed",
			zap.String("record_id", rec.ID.String()),
			zap.Error(err),
		)
	}
}

func fileNonEmpty(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}
