package batch

import (
	"testing"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>M&amp;A Press Releases</title>
	<link>https://example.com/feed</link>
	<item>
		<title>Acme Acquires Foo</title>
		<link>https://example.com/acme-foo</link>
		<description>&lt;p&gt;Acme Corp acquired Foo Inc for USD 240 million.&lt;/p&gt;</description>
		<pubDate>Wed, 26 Nov 2025 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>No Link Item</title>
		<description>Should be skipped.</description>
	</item>
	<item>
		<title>Beta Merger</title>
		<link>https://example.com/beta</link>
		<description>Beta Corp and Gamma LLC announced a merger.</description>
	</item>
</channel>
</rss>`

func TestParseArticles(t *testing.T) {
	source := NewFeedSource()

	articles, err := source.ParseArticles(testFeed, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (linkless item skipped), got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "Acme Acquires Foo" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.URL != "https://example.com/acme-foo" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Content != "Acme Corp acquired Foo Inc for USD 240 million." {
		t.Errorf("Content = %q, want cleaned description text", first.Content)
	}
	if len(first.Timestamps) != 1 || first.Timestamps[0] != "Nov. 26, 2025" {
		t.Errorf("Timestamps = %v, want [\"Nov. 26, 2025\"]", first.Timestamps)
	}

	second := articles[1]
	if second.URL != "https://example.com/beta" {
		t.Errorf("second URL = %q", second.URL)
	}
	if len(second.Timestamps) != 0 {
		t.Errorf("expected no timestamps without pubDate, got %v", second.Timestamps)
	}
}

func TestParseArticlesLimit(t *testing.T) {
	source := NewFeedSource()

	articles, err := source.ParseArticles(testFeed, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article with limit, got %d", len(articles))
	}
	if articles[0].URL != "https://example.com/acme-foo" {
		t.Errorf("limit should keep the first linked item, got %q", articles[0].URL)
	}
}

func TestParseArticlesMalformed(t *testing.T) {
	source := NewFeedSource()
	if _, err := source.ParseArticles("not a feed at all", 0); err == nil {
		t.Error("expected error for malformed feed data")
	}
}
