package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dealwire/internal/core"
	"dealwire/internal/logger"
)

// LLMClient defines the text-generation capability the pipeline needs. The
// model behind it is treated as an untrusted proposer; every structured
// claim it makes is verified against the source text before use.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Options configures the enrichment pipeline. All values are immutable once
// the Enricher is built, so each article's enrichment is a pure function of
// (article, options, model responses).
type Options struct {
	ModelName       string        // Reported on each EnrichedDeal
	MaxPromptChars  int           // Content cap before transmission to the model
	SummaryMaxChars int           // Length cap for the deterministic summary
	RequestTimeout  time.Duration // Per generative call
	MaxConcurrency  int           // Bounded fan-out for batch enrichment
}

// DefaultOptions returns the reference pipeline settings.
func DefaultOptions() Options {
	return Options{
		ModelName:       "gemini-flash-lite-latest",
		MaxPromptChars:  2000,
		SummaryMaxChars: DefaultSummaryMaxChars,
		RequestTimeout:  120 * time.Second,
		MaxConcurrency:  1,
	}
}

// Enricher turns raw articles into enriched deal records.
type Enricher struct {
	llm  LLMClient
	opts Options
	log  *slog.Logger
}

// NewEnricher creates an enricher with the given LLM client and options.
func NewEnricher(llm LLMClient, opts Options) *Enricher {
	if opts.MaxPromptChars <= 0 {
		opts.MaxPromptChars = 2000
	}
	if opts.SummaryMaxChars <= 0 {
		opts.SummaryMaxChars = DefaultSummaryMaxChars
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Enricher{
		llm:  llm,
		opts: opts,
		log:  logger.Get(),
	}
}

// EnrichArticle produces one immutable EnrichedDeal for an article. It
// never fails: generative outages, malformed responses and empty content
// all degrade to sentinel fields.
func (e *Enricher) EnrichArticle(ctx context.Context, article core.Article) core.EnrichedDeal {
	prettyDate := PrettyDate(article)

	deal := core.EnrichedDeal{
		ID:           uuid.NewString(),
		Title:        article.Title,
		URL:          article.URL,
		PrettyDate:   prettyDate,
		DealValue:    ExtractDealValue(article.Content),
		DealMetadata: core.EmptyMetadata(),
		ModelUsed:    e.opts.ModelName,
		DateEnriched: time.Now().UTC(),
	}

	deal.Context = e.contextText(ctx, article, prettyDate)

	if article.Content != "" {
		deal.DealMetadata = e.dealMetadata(ctx, article.Content)
	}

	return deal
}

// contextText tries the generative summary first, but only keeps it if it
// clearly matches the deal title. Otherwise it falls back to the
// deterministic summary from the press release.
func (e *Enricher) contextText(ctx context.Context, article core.Article, prettyDate string) string {
	if article.Content != "" {
		if aiLine := e.generativeSummary(ctx, article.Content, prettyDate); aiLine != "" {
			if SummaryMatchesTitle(aiLine, article.Title) {
				return aiLine
			}
			e.log.Debug("Generative summary rejected by title heuristic", "url", article.URL)
		}
	}
	return SimpleSummary(article.Content, e.opts.SummaryMaxChars)
}

// generativeSummary issues the stylized-summary call. Any transport,
// timeout or decoding failure degrades to "".
func (e *Enricher) generativeSummary(ctx context.Context, content, prettyDate string) string {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.RequestTimeout)
	defer cancel()

	prompt := BuildSummaryPrompt(content, prettyDate, e.opts.MaxPromptChars)
	response, err := e.llm.GenerateText(callCtx, prompt)
	if err != nil {
		e.log.Warn("Generative summary failed, falling back", "error", err.Error())
		return ""
	}
	return strings.TrimSpace(response)
}

// dealMetadata runs propose -> parse -> clean -> validate for one article.
// A failed call or unparseable response is treated as an all-NA proposal.
func (e *Enricher) dealMetadata(ctx context.Context, content string) core.DealMetadata {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.RequestTimeout)
	defer cancel()

	var proposal Proposal
	response, err := e.llm.GenerateText(callCtx, BuildMetadataPrompt(content, e.opts.MaxPromptChars))
	if err != nil {
		e.log.Warn("Metadata proposal failed", "error", err.Error())
	} else {
		proposal, err = ParseProposal(response)
		if err != nil {
			e.log.Warn("Metadata response unparseable", "error", err.Error())
			proposal = Proposal{}
		}
	}

	return ValidateMetadata(proposal.Clean(), content)
}

// BatchResult aggregates the outcome of a batch enrichment run.
type BatchResult struct {
	Deals    []core.EnrichedDeal // In input order; skipped articles are absent
	Enriched int
	Skipped  int
	Errors   []error
}

// EnrichBatch enriches a batch of articles with bounded concurrency and
// returns the results in input order. No article's processing depends on any
// other's. Cancellation stops launching new articles; in-flight articles
// run to completion (their generative calls fail fast and degrade to
// sentinels), so no partial record is ever emitted.
func (e *Enricher) EnrichBatch(ctx context.Context, articles []core.Article) (*BatchResult, error) {
	result := &BatchResult{}
	if len(articles) == 0 {
		return result, nil
	}

	e.log.Info("Starting batch enrichment", "article_count", len(articles), "max_concurrency", e.opts.MaxConcurrency)

	deals := make([]*core.EnrichedDeal, len(articles))
	sem := make(chan struct{}, e.opts.MaxConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	cancelled := false
	for i, article := range articles {
		select {
		case <-ctx.Done():
			cancelled = true
			result.Errors = append(result.Errors,
				fmt.Errorf("article %q skipped: %w", article.URL, ctx.Err()))
			result.Skipped++
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, a core.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			deal := e.EnrichArticle(ctx, a)

			mu.Lock()
			deals[idx] = &deal
			mu.Unlock()
		}(i, article)
	}

	wg.Wait()

	for _, deal := range deals {
		if deal == nil {
			continue
		}
		result.Deals = append(result.Deals, *deal)
		result.Enriched++
	}

	e.log.Info("Batch enrichment completed", "enriched", result.Enriched, "skipped", result.Skipped)

	if cancelled {
		return result, ctx.Err()
	}
	return result, nil
}
