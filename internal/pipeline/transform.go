package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/parade-odds/internal/analysis"
	"github.com/couchcryptid/parade-odds/internal/domain"
)

// Analyzer runs a single analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error)
}

// AnalysisTransformer implements Transformer by running each request through
// an Analyzer and wrapping the outcome in a response envelope.
type AnalysisTransformer struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewTransformer creates an AnalysisTransformer.
func NewTransformer(analyzer Analyzer, logger *slog.Logger) *AnalysisTransformer {
	return &AnalysisTransformer{
		analyzer: analyzer,
		logger:   logger,
	}
}

func (t *AnalysisTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseAnalysisRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	result, err := t.analyzer.Analyze(analysis.WithSource(ctx, analysis.SourceKafka), req)
	resp := domain.NewResponse(req, result, err)
	if err != nil {
		t.logger.Debug("request failed", "request_id", req.ID, "code", resp.Error)
	}
	return domain.SerializeResponse(resp)
}
