package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dealwire/internal/batch"
	"dealwire/internal/config"
	"dealwire/internal/core"
	"dealwire/internal/email"
	"dealwire/internal/enrich"
	"dealwire/internal/llm"
	"dealwire/internal/logger"
	"dealwire/internal/render"
	"dealwire/internal/store"
)

// cacheMaxAge bounds how long a cached enrichment is reused for unchanged
// content.
const cacheMaxAge = 7 * 24 * time.Hour

var (
	inputFile string
	feedURL   string
	dealLimit int
	sendEmail bool
	noCache   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a newsletter issue from a batch of press releases",
	Long: `Generate loads press releases from a JSON batch file or an RSS feed,
enriches each one into a structured deal record, and writes the newsletter
HTML plus a plain-text contexts file. With email delivery enabled the issue
is also sent to the recipient list.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to the JSON batch file")
	generateCmd.Flags().StringVarP(&feedURL, "feed", "f", "", "RSS/Atom feed URL to ingest instead of a batch file")
	generateCmd.Flags().IntVarP(&dealLimit, "limit", "l", 0, "maximum number of articles to enrich (0 = no limit)")
	generateCmd.Flags().BoolVar(&sendEmail, "send", false, "send the issue to the recipient list after rendering")
	generateCmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the enrichment cache and re-run every article")
}

// unavailableClient stands in for the generative model when no API key is
// configured. Every call fails, so the pipeline degrades to its
// deterministic path.
type unavailableClient struct{ reason error }

func (u unavailableClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", u.reason
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.Get()
	cfg := config.Get()
	ctx := cmd.Context()

	if inputFile == "" && feedURL == "" {
		return fmt.Errorf("either --input or --feed is required")
	}

	articles, err := loadArticles(ctx)
	if err != nil {
		return err
	}

	limit := dealLimit
	if limit == 0 {
		limit = cfg.Newsletter.Limit
	}
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	if len(articles) == 0 {
		return fmt.Errorf("no articles to enrich")
	}

	cache, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	var llmClient enrich.LLMClient
	client, err := llm.NewClient(cfg.AI.Gemini.Model)
	if err != nil {
		log.Warn("Generative model unavailable, using deterministic pipeline only", "error", err.Error())
		llmClient = unavailableClient{reason: err}
	} else {
		llmClient = client
	}

	enricher := enrich.NewEnricher(llmClient, enrich.Options{
		ModelName:       cfg.AI.Gemini.Model,
		MaxPromptChars:  cfg.Enrich.MaxPromptChars,
		SummaryMaxChars: cfg.Enrich.SummaryMaxChars,
		RequestTimeout:  cfg.Enrich.RequestTimeoutDuration(),
		MaxConcurrency:  cfg.Enrich.MaxConcurrency,
	})

	deals, err := enrichWithCache(ctx, enricher, cache, articles)
	if err != nil {
		return err
	}

	issue := core.Issue{
		Number: cfg.Newsletter.IssueNumber,
		Date:   cfg.Newsletter.IssueDate,
	}
	if issue.Date == "" {
		issue.Date = time.Now().Format("January 2, 2006")
	}

	html, err := render.RenderNewsletter(cfg.Newsletter.Name, issue, deals)
	if err != nil {
		return err
	}

	htmlPath, err := render.WriteNewsletter(cfg.Output.Directory, issue, html)
	if err != nil {
		return err
	}
	ctxPath, err := render.WriteContexts(cfg.Output.Directory, render.BuildContexts(deals))
	if err != nil {
		return err
	}

	log.Info("Issue written", "newsletter", htmlPath, "contexts", ctxPath, "deal_count", len(deals))

	if sendEmail || cfg.Email.Enabled {
		if err := deliverIssue(cfg, issue, html); err != nil {
			return err
		}
	}

	return nil
}

func loadArticles(ctx context.Context) ([]core.Article, error) {
	if feedURL != "" {
		return batch.NewFeedSource().FetchArticles(ctx, feedURL, 0)
	}
	return batch.LoadArticles(inputFile)
}

// enrichWithCache serves unchanged articles from the cache and runs the
// pipeline only for the misses, keeping the input order in the result.
func enrichWithCache(ctx context.Context, enricher *enrich.Enricher, cache *store.Store, articles []core.Article) ([]core.EnrichedDeal, error) {
	log := logger.Get()

	deals := make([]*core.EnrichedDeal, len(articles))
	var misses []core.Article
	var missIdx []int

	for i, article := range articles {
		if noCache || article.URL == "" {
			misses = append(misses, article)
			missIdx = append(missIdx, i)
			continue
		}
		cached, err := cache.GetCachedDeal(article.URL, store.ContentHash(article.Content), cacheMaxAge)
		if err != nil {
			log.Warn("Cache lookup failed", "url", article.URL, "error", err.Error())
		}
		if cached != nil {
			deals[i] = cached
			continue
		}
		misses = append(misses, article)
		missIdx = append(missIdx, i)
	}

	if len(misses) > 0 {
		result, err := enricher.EnrichBatch(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("batch enrichment aborted: %w", err)
		}
		for _, batchErr := range result.Errors {
			log.Warn("Article skipped", "error", batchErr.Error())
		}
		for j := range result.Deals {
			deal := result.Deals[j]
			deals[missIdx[j]] = &deal
			if misses[j].URL != "" {
				if err := cache.CacheDeal(deal, store.ContentHash(misses[j].Content)); err != nil {
					log.Warn("Failed to cache deal", "url", deal.URL, "error", err.Error())
				}
			}
		}
	}

	var out []core.EnrichedDeal
	for _, deal := range deals {
		if deal != nil {
			out = append(out, *deal)
		}
	}
	return out, nil
}

func deliverIssue(cfg *config.Config, issue core.Issue, html string) error {
	recipients, err := email.LoadRecipients(cfg.Email.RecipientsFile)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no valid recipients in %s", cfg.Email.RecipientsFile)
	}

	client := email.NewClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromAddress)
	subject := fmt.Sprintf("%s - Issue %s (%s)", cfg.Newsletter.Name, issue.Number, issue.Date)

	report := client.SendToAll(recipients, subject, html, cfg.Email.SendDelayDuration())
	logger.Info("Delivery finished", "sent", report.Sent, "failed", report.Failed)

	if report.Sent == 0 {
		return fmt.Errorf("delivery failed for all %d recipients", report.Failed)
	}
	return nil
}
