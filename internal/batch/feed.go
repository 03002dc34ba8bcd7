package batch

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"dealwire/internal/core"
	"dealwire/internal/logger"
)

// FeedSource ingests press-release announcements from an RSS or Atom feed.
type FeedSource struct {
	parser *gofeed.Parser
}

// NewFeedSource creates a feed source with a default parser.
func NewFeedSource() *FeedSource {
	return &FeedSource{
		parser: gofeed.NewParser(),
	}
}

// FetchArticles downloads and parses the feed at url, returning at most limit
// articles (0 means no limit). Items without a link are skipped.
func (f *FeedSource) FetchArticles(ctx context.Context, url string, limit int) ([]core.Article, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	articles := f.mapItems(feed, limit)
	logger.Get().Info("Fetched feed", "url", url, "article_count", len(articles))
	return articles, nil
}

// ParseArticles parses already-downloaded feed data. Used by tests and by
// callers that manage their own transport.
func (f *FeedSource) ParseArticles(data string, limit int) ([]core.Article, error) {
	feed, err := f.parser.ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed data: %w", err)
	}
	return f.mapItems(feed, limit), nil
}

func (f *FeedSource) mapItems(feed *gofeed.Feed, limit int) []core.Article {
	articles := make([]core.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if limit > 0 && len(articles) >= limit {
			break
		}
		articles = append(articles, itemToArticle(item))
	}
	return articles
}

// itemToArticle maps one feed item to the pipeline's article shape. Full
// content is preferred over the description; markup is reduced to plain
// text. The published timestamp is carried as a free-text date hint.
func itemToArticle(item *gofeed.Item) core.Article {
	content := item.Content
	if content == "" {
		content = item.Description
	}
	if looksLikeHTML(content) {
		if text, err := ExtractText(content); err == nil {
			content = text
		}
	}

	var timestamps []string
	if item.PublishedParsed != nil {
		timestamps = append(timestamps, item.PublishedParsed.Format("Jan. 2, 2006"))
	} else if item.Published != "" {
		timestamps = append(timestamps, item.Published)
	}

	return core.Article{
		Title:      item.Title,
		Content:    content,
		URL:        item.Link,
		Timestamps: timestamps,
	}
}
