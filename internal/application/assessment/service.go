// Package assessment orchestrates the contract analysis pipeline: classifier
// call, rule-based analysis, persistence, caching, archival, and event
// publication.  Side channels (store, cache, archive, broker) are best-effort;
// only the analysis itself decides success.
package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/smartlex/lexml/internal/domain/contract"
	"github.com/smartlex/lexml/internal/infrastructure/database/redis"
	"github.com/smartlex/lexml/internal/infrastructure/messaging/kafka"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/internal/infrastructure/monitoring/prometheus"
	"github.com/smartlex/lexml/internal/intelligence/clausenet"
	"github.com/smartlex/lexml/pkg/errors"
	"github.com/smartlex/lexml/pkg/types/common"
	typescontract "github.com/smartlex/lexml/pkg/types/contract"
)

// eventPublisher is the slice of the Kafka producer the service needs.
type eventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, ev kafka.AnalysisCompletedEvent) error
}

// textArchiver is the slice of the object-storage archive the service needs.
type textArchiver interface {
	StoreContract(ctx context.Context, analysisID, text string) error
}

// Options carries the optional collaborators.  A nil field disables that
// side channel; the analysis core works without any of them.
type Options struct {
	Classifier clausenet.Classifier
	Repository contract.Repository
	Cache      redis.Cache
	Publisher  eventPublisher
	Archiver   textArchiver
	Metrics    *prometheus.Metrics

	// HistoryLimit is the default size of the history listing.
	HistoryLimit int

	// CacheTTL bounds cached report lifetime.
	CacheTTL time.Duration
}

// Service runs contract risk assessments.
type Service struct {
	analyzer *contract.Analyzer
	opts     Options
	log      logging.Logger
}

// NewService builds a Service over the analyzer and optional collaborators.
func NewService(analyzer *contract.Analyzer, opts Options, log logging.Logger) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	return &Service{
		analyzer: analyzer,
		opts:     opts,
		log:      log.Named("assessment"),
	}
}

// cacheKey derives the report cache key from the normalized text.  Identical
// text yields an identical report, so cached reports are safe to reuse.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(contract.Normalize(text)))
	return "report:" + hex.EncodeToString(sum[:])
}

// Analyze runs the full pipeline for text and returns the report DTO.
// persist controls whether the result enters history and the side channels.
func (s *Service) Analyze(ctx context.Context, text string, persist bool) (*typescontract.AnalysisReport, error) {
	start := time.Now()

	if s.opts.Cache != nil {
		var cached typescontract.AnalysisReport
		if err := s.opts.Cache.Get(ctx, cacheKey(text), &cached); err == nil {
			if s.opts.Metrics != nil {
				s.opts.Metrics.CacheHits.Inc()
			}
			s.log.Debug("report served from cache", logging.String("analysis_id", string(cached.ID)))
			return &cached, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.Warn("report cache read failed", logging.Err(err))
		} else if s.opts.Metrics != nil {
			s.opts.Metrics.CacheMisses.Inc()
		}
	}

	classifierLabel := s.classify(ctx, text)
	report := s.analyzer.Analyze(text, classifierLabel)

	analysisID := string(common.NewID())
	dto := toDTO(analysisID, report)

	if persist {
		s.persist(ctx, analysisID, report)
		s.sideChannels(ctx, analysisID, report)
	}

	// Only persisted reports enter the cache.  A cache hit returns before
	// persist runs, so caching an unrecorded report would let a later
	// persist request come back with an ID that exists nowhere.
	if persist && s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, cacheKey(text), dto, s.opts.CacheTTL); err != nil {
			s.log.Warn("report cache write failed", logging.Err(err))
		}
	}

	elapsed := time.Since(start)
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveAnalysis(string(report.Classification), report.RiskScore, elapsed)
	}
	s.log.Info("analysis complete",
		logging.String("analysis_id", analysisID),
		logging.String("classification", string(report.Classification)),
		logging.Int("risk_score", report.RiskScore),
		logging.Duration("elapsed", elapsed),
	)

	return dto, nil
}

// classify asks the external classifier for its verdict.  Any failure
// degrades to Valid: the analysis then rests on the rule-based score alone.
// Defaulting to Valid on failure means a missing classifier silently asserts
// validity; the warning log and failure metric exist to keep that visible.
func (s *Service) classify(ctx context.Context, text string) contract.Label {
	if s.opts.Classifier == nil {
		return contract.LabelValid
	}

	label, err := s.opts.Classifier.Classify(ctx, text)
	if err != nil {
		kind := "unavailable"
		switch {
		case errors.IsCode(err, errors.ErrCodeClassifierTimeout):
			kind = "timeout"
		case errors.IsCode(err, errors.ErrCodeClassifierBadOutput):
			kind = "bad_output"
		}
		if s.opts.Metrics != nil {
			s.opts.Metrics.ClassifierFailures.WithLabelValues(kind).Inc()
		}
		s.log.Warn("classifier unavailable, using rule-based analysis only",
			logging.String("kind", kind), logging.Err(err))
		return contract.LabelValid
	}

	if label == clausenet.LabelRisky {
		return contract.LabelRisky
	}
	return contract.LabelValid
}

// persist stores the analysis record.  Failure is a warning; the report is
// still returned to the caller.
func (s *Service) persist(ctx context.Context, analysisID string, report *contract.Report) {
	if s.opts.Repository == nil {
		return
	}

	findings, err := json.Marshal(struct {
		AmbiguousTerms  map[string]contract.TermFinding  `json:"ambiguous_terms"`
		WeakIndicators  map[string]contract.TermFinding  `json:"weak_indicators"`
		ModalFindings   map[string]contract.ModalFinding `json:"modal_findings"`
		MissingSections []contract.SectionGap            `json:"missing_sections"`
	}{
		report.AmbiguousTerms,
		report.WeakIndicators,
		report.ModalFindings,
		report.MissingSections,
	})
	if err != nil {
		s.log.Warn("failed to encode findings for storage", logging.Err(err))
		return
	}

	rec := &contract.Record{
		ID:             analysisID,
		Text:           report.SourceText,
		Classification: report.Classification,
		RiskScore:      report.RiskScore,
		Strength:       report.Strength,
		Findings:       findings,
		CreatedAt:      report.AnalyzedAt,
	}
	if err := s.opts.Repository.Save(ctx, rec); err != nil {
		s.log.Warn("failed to store analysis", logging.String("analysis_id", analysisID), logging.Err(err))
	}
}

// sideChannels archives the text and publishes the completion event, both
// best-effort.
func (s *Service) sideChannels(ctx context.Context, analysisID string, report *contract.Report) {
	if s.opts.Archiver != nil {
		if err := s.opts.Archiver.StoreContract(ctx, analysisID, report.SourceText); err != nil {
			s.log.Warn("failed to archive contract text",
				logging.String("analysis_id", analysisID), logging.Err(err))
		}
	}

	if s.opts.Publisher != nil {
		ev := kafka.AnalysisCompletedEvent{
			AnalysisID:     analysisID,
			Classification: string(report.Classification),
			RiskScore:      report.RiskScore,
			Strength:       string(report.Strength),
			TextLength:     len(report.SourceText),
			AnalyzedAt:     report.AnalyzedAt.Format(time.RFC3339),
		}
		if err := s.opts.Publisher.PublishAnalysisCompleted(ctx, ev); err != nil {
			s.log.Warn("failed to publish analysis event",
				logging.String("analysis_id", analysisID), logging.Err(err))
		}
	}
}

// History returns the most recent analyses.  A non-positive limit uses the
// configured default.
func (s *Service) History(ctx context.Context, limit int) ([]typescontract.HistoryEntry, error) {
	if s.opts.Repository == nil {
		return nil, errors.New(errors.ErrCodeNotImplemented, "analysis history is not configured")
	}
	if limit <= 0 {
		limit = s.opts.HistoryLimit
	}

	entries, err := s.opts.Repository.RecentHistory(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeHistoryQueryFailed, "failed to load history")
	}

	out := make([]typescontract.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, typescontract.HistoryEntry{
			ID:             common.ID(e.ID),
			AnalyzedAt:     e.CreatedAt,
			Classification: typescontract.Classification(e.Classification),
			RiskScore:      e.RiskScore,
			Strength:       typescontract.Strength(e.Strength),
			TextLength:     e.TextLength,
		})
	}
	return out, nil
}

// toDTO converts the domain report to its wire form.
func toDTO(analysisID string, r *contract.Report) *typescontract.AnalysisReport {
	dto := &typescontract.AnalysisReport{
		ID:              common.ID(analysisID),
		Classification:  typescontract.Classification(r.Classification),
		ClassifierLabel: typescontract.Classification(r.ClassifierLabel),
		RiskScore:       r.RiskScore,
		Strength:        typescontract.Strength(r.Strength),
		AmbiguousTerms:  make(map[string]typescontract.TermFinding, len(r.AmbiguousTerms)),
		WeakIndicators:  make(map[string]typescontract.TermFinding, len(r.WeakIndicators)),
		ModalFindings:   make(map[string]typescontract.ModalFinding, len(r.ModalFindings)),
		MissingSections: make([]typescontract.MissingSection, 0, len(r.MissingSections)),
		CitationTrail:   r.CitationTrail,
		Recommendation:  r.Recommendation(),
		TextLength:      len(r.SourceText),
		AnalyzedAt:      r.AnalyzedAt,
	}
	for term, f := range r.AmbiguousTerms {
		dto.AmbiguousTerms[term] = typescontract.TermFinding{Count: f.Count, Citation: f.Citation}
	}
	for term, f := range r.WeakIndicators {
		dto.WeakIndicators[term] = typescontract.TermFinding{Count: f.Count, Citation: f.Citation}
	}
	for verb, f := range r.ModalFindings {
		dto.ModalFindings[verb] = typescontract.ModalFinding{Count: f.Count, Weight: f.Weight, Citation: f.Citation}
	}
	for _, g := range r.MissingSections {
		dto.MissingSections = append(dto.MissingSections, typescontract.MissingSection{
			Section: g.Section, Citation: g.Citation,
		})
	}
	return dto
}
