package enrich

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Progress is emitted before each record is processed, so an external
// consumer (CLI printer, UI) can report on the pass without the core knowing
// about presentation.
type Progress struct {
	Total int
	Index int
	Name  string
}

// Saver persists the record collection. Called after every record so a crash
// loses at most one record's worth of work.
type Saver interface {
	Save(recs []*model.Business) error
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithSaver sets the persistence sink.
func WithSaver(s Saver) ProcessorOption {
	return func(p *Processor) { p.saver = s }
}

// WithProgress sets the progress event channel. Sends never block: events are
// dropped when the consumer lags.
func WithProgress(ch chan<- Progress) ProcessorOption {
	return func(p *Processor) { p.progress = ch }
}

// WithWorkers enables parallel processing of records. Each record keeps its
// own browser session and model calls; writes stay index-exclusive and saves
// are serialized.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Processor iterates a record collection, runs the enrichment workflow for
// every eligible record, and mutates the collection in place.
type Processor struct {
	runner   Runner
	saver    Saver
	progress chan<- Progress
	workers  int
}

// NewProcessor creates a Processor over the given per-record runner.
func NewProcessor(runner Runner, opts ...ProcessorOption) *Processor {
	p := &Processor{runner: runner, workers: 1}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process runs one enrichment pass over recs in original order. Records
// without a website or already marked done are skipped. A single record's
// failure never aborts the pass; every attempted record ends up marked done
// so a rerun processes nothing twice. Cancellation takes effect between
// records. Only a persistence failure is returned to the caller.
func (p *Processor) Process(ctx context.Context, recs []*model.Business) error {
	passID := uuid.NewString()
	total := len(recs)

	zap.L().Info("batch: starting enrichment pass",
		zap.String("pass_id", passID),
		zap.Int("records", total),
		zap.Int("workers", p.workers),
	)

	if p.workers > 1 {
		return p.processParallel(ctx, passID, recs)
	}

	processed := 0
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			zap.L().Info("batch: pass canceled",
				zap.String("pass_id", passID),
				zap.Int("processed", processed),
			)
			return nil
		}
		if !rec.Eligible() {
			continue
		}

		p.emit(Progress{Total: total, Index: i, Name: rec.Name})
		p.processRecord(ctx, rec)
		processed++

		if err := p.save(recs); err != nil {
			return err
		}
	}

	zap.L().Info("batch: pass complete",
		zap.String("pass_id", passID),
		zap.Int("processed", processed),
	)
	return nil
}

func (p *Processor) processParallel(ctx context.Context, passID string, recs []*model.Business) error {
	total := len(recs)
	var mu sync.Mutex // serializes saves
	var saveErr error

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, rec := range recs {
		if !rec.Eligible() {
			continue
		}
		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			p.emit(Progress{Total: total, Index: i, Name: rec.Name})
			result := p.runSafely(gCtx, rec)

			// Mutation and save are serialized; only the workflow itself
			// runs concurrently.
			mu.Lock()
			defer mu.Unlock()
			p.apply(rec, result)
			if saveErr == nil {
				if err := p.save(recs); err != nil {
					saveErr = err
					return err // stops the group; in-flight records finish
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	zap.L().Info("batch: pass complete", zap.String("pass_id", passID))
	return saveErr
}

// processRecord runs the workflow for one record and applies the result.
func (p *Processor) processRecord(ctx context.Context, rec *model.Business) {
	p.apply(rec, p.runSafely(ctx, rec))
}

// runSafely contains a panicking workflow to the one record that caused it.
func (p *Processor) runSafely(ctx context.Context, rec *model.Business) (result model.Enrichment) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("batch: record workflow panicked",
				zap.String("business", rec.Name),
				zap.Any("panic", r),
			)
			result = model.Enrichment{}
		}
	}()
	return p.runner.Run(ctx, *rec)
}

// apply writes the result onto the record. The done marker is set even when
// the attempt produced nothing, so a permanently broken website is attempted
// exactly once per pass.
func (p *Processor) apply(rec *model.Business, result model.Enrichment) {
	rec.Status = model.StatusDone
	if result.Empty() {
		zap.L().Info("batch: no enrichment data found",
			zap.String("business", rec.Name),
			zap.String("url", rec.Website),
		)
		return
	}

	rec.Email = result.EmailField()
	rec.Facebook = result.Facebook
	rec.Twitter = result.Twitter
	rec.Instagram = result.Instagram
	rec.Contact = result.Contact

	zap.L().Info("batch: record enriched",
		zap.String("business", rec.Name),
		zap.Int("emails", len(result.Emails)),
	)
}

func (p *Processor) save(recs []*model.Business) error {
	if p.saver == nil {
		return nil
	}
	if err := p.saver.Save(recs); err != nil {
		return eris.Wrap(err, "batch: persist records")
	}
	return nil
}

func (p *Processor) emit(ev Progress) {
	if p.progress == nil {
		return
	}
	select {
	case p.progress <- ev:
	default:
	}
}
