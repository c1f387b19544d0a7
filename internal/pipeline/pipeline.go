// Package pipeline runs one question through analysis, retrieval, generation,
// post-processing and logging.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/generation"
	"github.com/hyperjump/hotelrag/internal/interactions"
	"github.com/hyperjump/hotelrag/internal/models"
	"github.com/hyperjump/hotelrag/internal/postprocess"
	"github.com/hyperjump/hotelrag/internal/prompt"
	"github.com/hyperjump/hotelrag/internal/query"
	"github.com/hyperjump/hotelrag/internal/retrieval"
)

// Stage is a step of ProcessMessage. Stages run strictly in declaration order.
type Stage string

const (
	StageReceived      Stage = "received"
	StageAnalyzed      Stage = "analyzed"
	StageRetrieved     Stage = "retrieved"
	StageGenerated     Stage = "generated"
	StagePostprocessed Stage = "postprocessed"
	StageLogged        Stage = "logged"
	StageDone          Stage = "done"
)

// Retriever returns the documents most similar to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievedDocument, error)
}

var _ Retriever = (*retrieval.Retriever)(nil)

// Pipeline is safe for concurrent use when its Log is.
type Pipeline struct {
	analyzer  *query.Analyzer
	retriever Retriever
	builder   *prompt.Builder
	generator generation.Generator
	genOpts   generation.Options
	post      *postprocess.Postprocessor
	log       interactions.Log
	topK      int
	logger    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTopK sets how many documents are retrieved per query.
func WithTopK(k int) Option {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithGenerationOptions sets the decoding parameters.
func WithGenerationOptions(o generation.Options) Option {
	return func(p *Pipeline) { p.genOpts = o }
}

// WithPromptBuilder replaces the default prompt builder.
func WithPromptBuilder(b *prompt.Builder) Option {
	return func(p *Pipeline) {
		if b != nil {
			p.builder = b
		}
	}
}

// WithAnalyzer replaces the default query analyzer.
func WithAnalyzer(a *query.Analyzer) Option {
	return func(p *Pipeline) {
		if a != nil {
			p.analyzer = a
		}
	}
}

// WithPostprocessor replaces the default response postprocessor.
func WithPostprocessor(pp *postprocess.Postprocessor) Option {
	return func(p *Pipeline) {
		if pp != nil {
			p.post = pp
		}
	}
}

// New creates a pipeline. The log may be nil, in which case interactions are not recorded.
func New(retriever Retriever, generator generation.Generator, log interactions.Log, opts ...Option) *Pipeline {
	p := &Pipeline{
		analyzer:  query.NewAnalyzer(),
		retriever: retriever,
		builder:   prompt.NewBuilder(prompt.DefaultContextDocs, prompt.DefaultSnippetLength),
		generator: generator,
		genOpts:   generation.DefaultOptions(),
		post:      postprocess.New(),
		log:       log,
		topK:      retrieval.DefaultTopK,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessMessage answers message. Every message, including an empty one, is analyzed, answered
// and logged. Retrieval errors are returned; a generation failure yields a degraded result
// carrying generation.FallbackText. A failure to persist the interaction is logged and does not
// fail the request.
func (p *Pipeline) ProcessMessage(ctx context.Context, message string) (*models.Result, error) {
	p.stage(StageReceived, zap.String("query", message))

	info := p.analyzer.Analyze(message)
	p.stage(StageAnalyzed,
		zap.String("intent", info.DetectedIntent.String()),
		zap.Bool("is_question", info.IsQuestion),
		zap.Bool("numeric", info.RequiresNumericalAnswer))

	docs, err := p.retriever.Retrieve(ctx, message, p.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	p.stage(StageRetrieved, zap.Int("docs", len(docs)))

	pr := p.builder.Build(message, docs, info)
	out := generation.Run(ctx, p.generator, pr.Text, p.genOpts)
	answer := out.Text
	if out.Degraded {
		p.logger.Warn("generation failed, using fallback answer",
			zap.String("generator", p.generator.Name()), zap.String("reason", out.Reason))
	} else {
		answer = prompt.ExtractAnswer(out.Text, pr.Text)
	}
	p.stage(StageGenerated, zap.Bool("degraded", out.Degraded))

	response := p.post.Process(answer, &info)
	p.stage(StagePostprocessed)

	if p.log != nil {
		rec := &models.InteractionRecord{
			Query:          message,
			Response:       response,
			ContextSnippet: pr.Snippet,
			RetrievedDocs:  docs,
			QueryInfo:      info,
		}
		if err := p.log.Append(ctx, rec); err != nil {
			p.logger.Warn("failed to persist interaction", zap.Error(err))
		}
		p.stage(StageLogged, zap.String("id", rec.ID))
	}

	result := &models.Result{
		Response:       response,
		RetrievedDocs:  docs,
		ContextSnippet: pr.Snippet,
		QueryInfo:      info,
		RawResponse:    answer,
		Degraded:       out.Degraded,
	}
	p.stage(StageDone)
	return result, nil
}

func (p *Pipeline) stage(s Stage, fields ...zap.Field) {
	p.logger.Debug("pipeline stage", append([]zap.Field{zap.String("stage", string(s))}, fields...)...)
}
