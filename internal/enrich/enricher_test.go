package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dealwire/internal/core"
)

// mockLLMClient implements LLMClient for testing.
type mockLLMClient struct {
	mu               sync.Mutex
	callCount        int
	shouldFail       bool
	summaryResponse  string
	metadataResponse string
}

func (m *mockLLMClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.shouldFail {
		return "", errors.New("mock LLM unavailable")
	}

	if strings.Contains(prompt, "Return ONLY a JSON object") {
		return m.metadataResponse, nil
	}
	return m.summaryResponse, nil
}

func (m *mockLLMClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

const testContent = "(PRNewswire) -- Acme Corp acquired Foo Inc for USD 240 million. " +
	"Jane Doe, CEO of Acme, said the deal expands reach."

func testArticle() core.Article {
	return core.Article{
		Title:      "Acme Acquires Foo",
		Content:    testContent,
		URL:        "https://example.com/acme-foo",
		Timestamps: []string{"Nov. 26, 2025"},
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.RequestTimeout = time.Second
	return opts
}

func TestEnrichArticleWithWorkingModel(t *testing.T) {
	mock := &mockLLMClient{
		summaryResponse: "Acme Corp completed the acquisition of Foo Inc, expanding its reach.",
		metadataResponse: `{
			"investor_or_pe": "NA",
			"buyer": "Acme Corp",
			"seller": "Foo Inc",
			"advisor_firm": "NA",
			"buyer_lead_name": "Jane Doe",
			"buyer_lead_role": "CEO",
			"investor_lead_name": "NA",
			"investor_lead_role": "NA",
			"seller_lead_name": "NA",
			"seller_lead_role": "NA"
		}`,
	}
	enricher := NewEnricher(mock, testOptions())

	deal := enricher.EnrichArticle(context.Background(), testArticle())

	if deal.ID == "" {
		t.Error("expected deal ID to be assigned")
	}
	if deal.PrettyDate != "Nov 26, 2025" {
		t.Errorf("PrettyDate = %q, want %q", deal.PrettyDate, "Nov 26, 2025")
	}
	if deal.Context != "Acme Corp completed the acquisition of Foo Inc, expanding its reach." {
		t.Errorf("Context = %q, want generative summary", deal.Context)
	}
	if deal.DealValue != "USD 240 million" {
		t.Errorf("DealValue = %q, want %q", deal.DealValue, "USD 240 million")
	}
	if deal.Buyer != "Acme Corp" {
		t.Errorf("Buyer = %q, want %q", deal.Buyer, "Acme Corp")
	}
	if deal.DealAdvisor != "Acme Corp" {
		t.Errorf("DealAdvisor = %q, want buyer as advisor fallback", deal.DealAdvisor)
	}
	if mock.calls() != 2 {
		t.Errorf("expected 2 LLM calls (summary + metadata), got %d", mock.calls())
	}
}

func TestEnrichArticleModelUnavailable(t *testing.T) {
	// With the model down, the deterministic pipeline still produces a full
	// record: fallback summary, regex deal value, all-NA metadata.
	mock := &mockLLMClient{shouldFail: true}
	enricher := NewEnricher(mock, testOptions())

	deal := enricher.EnrichArticle(context.Background(), testArticle())

	wantContext := "Acme Corp acquired Foo Inc for USD 240 million. Jane Doe, CEO of Acme, said the deal expands reach."
	if deal.Context != wantContext {
		t.Errorf("Context = %q, want deterministic summary %q", deal.Context, wantContext)
	}
	if deal.DealValue != "USD 240 million" {
		t.Errorf("DealValue = %q, want %q", deal.DealValue, "USD 240 million")
	}
	if deal.Buyer != core.NA || deal.DealAdvisor != core.NA {
		t.Errorf("expected all-NA metadata, got buyer=%q advisor=%q", deal.Buyer, deal.DealAdvisor)
	}
}

func TestEnrichArticleRejectsDriftedSummary(t *testing.T) {
	// The generative summary shares no significant title token, so the
	// selector must fall back to the deterministic summary.
	mock := &mockLLMClient{
		summaryResponse:  "An unrelated business combination was announced in another sector.",
		metadataResponse: "{}",
	}
	enricher := NewEnricher(mock, testOptions())

	deal := enricher.EnrichArticle(context.Background(), testArticle())

	if strings.Contains(deal.Context, "unrelated business combination") {
		t.Errorf("drifted generative summary was kept: %q", deal.Context)
	}
	if !strings.HasPrefix(deal.Context, "Acme Corp acquired Foo Inc") {
		t.Errorf("Context = %q, want deterministic fallback", deal.Context)
	}
}

func TestEnrichArticleEmptyContent(t *testing.T) {
	mock := &mockLLMClient{}
	enricher := NewEnricher(mock, testOptions())

	deal := enricher.EnrichArticle(context.Background(), core.Article{
		Title: "Termless Announcement",
		URL:   "https://example.com/empty",
	})

	if deal.Context != "" {
		t.Errorf("Context = %q, want empty", deal.Context)
	}
	if deal.DealValue != core.NA {
		t.Errorf("DealValue = %q, want NA", deal.DealValue)
	}
	if deal.Buyer != core.NA {
		t.Errorf("Buyer = %q, want NA", deal.Buyer)
	}
	if mock.calls() != 0 {
		t.Errorf("expected no LLM calls for empty content, got %d", mock.calls())
	}
}

func TestEnrichArticleMalformedMetadataResponse(t *testing.T) {
	mock := &mockLLMClient{
		summaryResponse:  "Acme Corp closed the deal.",
		metadataResponse: "Sorry, I can't produce JSON for this one.",
	}
	enricher := NewEnricher(mock, testOptions())

	deal := enricher.EnrichArticle(context.Background(), testArticle())

	if deal.Buyer != core.NA || deal.Seller != core.NA || deal.DealAdvisor != core.NA {
		t.Errorf("expected all-NA metadata on parse failure, got %+v", deal.DealMetadata)
	}
	// Deal value is independent of the generative path.
	if deal.DealValue != "USD 240 million" {
		t.Errorf("DealValue = %q, want %q", deal.DealValue, "USD 240 million")
	}
}

func TestEnrichBatchPreservesOrder(t *testing.T) {
	mock := &mockLLMClient{shouldFail: true}
	opts := testOptions()
	opts.MaxConcurrency = 4
	enricher := NewEnricher(mock, opts)

	articles := []core.Article{
		{Title: "First Deal", URL: "https://example.com/1", Content: "Alpha Corp acquired One Inc."},
		{Title: "Second Deal", URL: "https://example.com/2", Content: "Beta Corp acquired Two Inc."},
		{Title: "Third Deal", URL: "https://example.com/3", Content: "Gamma Corp acquired Three Inc."},
	}

	result, err := enricher.EnrichBatch(context.Background(), articles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Enriched != 3 || result.Skipped != 0 {
		t.Fatalf("enriched=%d skipped=%d, want 3/0", result.Enriched, result.Skipped)
	}
	for i, deal := range result.Deals {
		if deal.URL != articles[i].URL {
			t.Errorf("deal %d URL = %q, want %q (order not preserved)", i, deal.URL, articles[i].URL)
		}
	}
}

func TestEnrichBatchCancellation(t *testing.T) {
	mock := &mockLLMClient{shouldFail: true}
	enricher := NewEnricher(mock, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	articles := []core.Article{
		{Title: "One", URL: "https://example.com/1", Content: "text"},
		{Title: "Two", URL: "https://example.com/2", Content: "text"},
	}

	result, err := enricher.EnrichBatch(ctx, articles)

	if err == nil {
		t.Error("expected context error from cancelled batch")
	}
	if result.Skipped != len(articles) {
		t.Errorf("skipped = %d, want %d", result.Skipped, len(articles))
	}
	if len(result.Deals) != 0 {
		t.Errorf("expected no deals from cancelled batch, got %d", len(result.Deals))
	}
	if len(result.Errors) != len(articles) {
		t.Errorf("expected %d recorded errors, got %d", len(articles), len(result.Errors))
	}
}

func TestEnrichBatchEmpty(t *testing.T) {
	enricher := NewEnricher(&mockLLMClient{}, testOptions())

	result, err := enricher.EnrichBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Deals) != 0 || result.Enriched != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
