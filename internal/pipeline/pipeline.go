// Package pipeline chains the triage stages: normalize, classify, gate,
// evidence, shape. The chain is strictly linear and deterministic; every
// stage is immutable after construction, so one Pipeline serves concurrent
// callers without locking.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careguide-ai/careguide/internal/audit"
	"github.com/careguide-ai/careguide/internal/classify"
	"github.com/careguide-ai/careguide/internal/config"
	"github.com/careguide-ai/careguide/internal/evidence"
	"github.com/careguide-ai/careguide/internal/gate"
	"github.com/careguide-ai/careguide/internal/normalize"
	"github.com/careguide-ai/careguide/internal/shape"
	"github.com/careguide-ai/careguide/internal/telemetry"
	"github.com/careguide-ai/careguide/internal/triage"
	"github.com/careguide-ai/careguide/internal/vocab"
)

// Pipeline owns the five triage stages plus the optional audit and
// telemetry taps.
type Pipeline struct {
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	gate       *gate.Gate
	composer   *evidence.Composer
	shaper     *shape.Shaper

	log       *zap.Logger
	emitter   *audit.Emitter
	telemetry *telemetry.Provider
}

// Option adjusts optional pipeline wiring.
type Option func(*Pipeline)

// WithLogger attaches a logger. Without it the pipeline is silent.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithAudit attaches an audit emitter. The pipeline emits one event per
// verdict; delivery never blocks the request path.
func WithAudit(em *audit.Emitter) Option {
	return func(p *Pipeline) { p.emitter = em }
}

// WithTelemetry attaches a metrics provider.
func WithTelemetry(tp *telemetry.Provider) Option {
	return func(p *Pipeline) { p.telemetry = tp }
}

// New assembles a pipeline from a validated config.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	voc := vocab.Builtin()
	if len(cfg.Vocabulary.Terms) > 0 {
		v, err := vocab.New(cfg.Vocabulary.Version, cfg.Vocabulary.Terms, cfg.Vocabulary.Synonyms)
		if err != nil {
			return nil, err
		}
		voc = v
	}

	cls, err := classify.New(cfg.Classifier)
	if err != nil {
		return nil, err
	}

	g, err := gate.New(cfg.Rules)
	if err != nil {
		return nil, err
	}

	comp, err := evidence.New(cfg.Evidence.Cases, cfg.Evidence.TopK, cfg.Evidence.Floor)
	if err != nil {
		return nil, err
	}

	shaper, err := shape.New(cfg.Locales.MergedBundles(), cfg.Locales.Default)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		normalizer: normalize.New(voc),
		classifier: cls,
		gate:       g,
		composer:   comp,
		shaper:     shaper,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Triage runs the pipeline up to the verdict, without shaping. Identical
// input always yields an identical verdict apart from RequestID and
// GeneratedAt.
func (p *Pipeline) Triage(ctx context.Context, in normalize.Intake) (triage.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return triage.Verdict{}, err
	}
	start := time.Now()

	rep, err := p.normalizer.Normalize(in)
	if err != nil {
		return triage.Verdict{}, err
	}
	if len(rep.Unmatched) > 0 {
		p.log.Info("unmatched symptom terms dropped",
			zap.Strings("terms", rep.Unmatched))
	}

	rawBand, score := p.classifier.Classify(rep)
	res := p.gate.Apply(rep, rawBand)
	ev := p.composer.Compose(rep, res.Hits)

	v := triage.Verdict{
		RequestID:   uuid.NewString(),
		Band:        res.Band,
		RawBand:     res.RawBand,
		Score:       score,
		Evidence:    ev,
		Report:      rep,
		GeneratedAt: time.Now().UTC(),
	}
	for _, h := range res.Hits {
		v.RuleIDs = append(v.RuleIDs, h.RuleID)
		if h.AdvisoryID != "" {
			v.AdvisoryIDs = append(v.AdvisoryIDs, h.AdvisoryID)
		}
	}

	// An emergency verdict with no rule trail is a programming defect in
	// the classifier/gate wiring, not a recoverable condition.
	if v.Band == triage.BandEmergency && len(v.RuleIDs) == 0 {
		panic(fmt.Sprintf("emergency verdict %s carries no rule ids", v.RequestID))
	}

	dur := time.Since(start)
	p.telemetry.RecordVerdict(v.Band.String(), v.Escalated(), len(res.Hits),
		float64(dur.Microseconds())/1000.0)
	p.log.Debug("triage verdict",
		zap.String("request_id", v.RequestID),
		zap.Stringer("band", v.Band),
		zap.Stringer("raw_band", v.RawBand),
		zap.Float64("score", score),
		zap.Strings("rule_ids", v.RuleIDs))

	return v, nil
}

// Run executes the full pipeline and shapes the verdict for one caller.
func (p *Pipeline) Run(ctx context.Context, in normalize.Intake, opts shape.Options) (shape.Response, triage.Verdict, error) {
	start := time.Now()

	v, err := p.Triage(ctx, in)
	if err != nil {
		return shape.Response{}, triage.Verdict{}, err
	}

	resp := p.shaper.Shape(v, opts)

	if p.emitter != nil {
		p.emitter.Emit(ctx, audit.FromVerdict(v, resp.LocaleFell, time.Since(start)))
	}
	return resp, v, nil
}
