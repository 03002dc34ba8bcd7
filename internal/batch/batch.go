// Package batch loads press-release articles for enrichment, either from a
// JSON batch file produced by a scraper or straight from an RSS feed.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dealwire/internal/core"
	"dealwire/internal/logger"
)

// LoadArticles reads a JSON array of articles from the batch file. Content
// that still carries markup is reduced to plain text before it reaches the
// extraction pipeline.
func LoadArticles(path string) ([]core.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", path, err)
	}

	var articles []core.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}

	log := logger.Get()
	for i := range articles {
		if looksLikeHTML(articles[i].Content) {
			text, err := ExtractText(articles[i].Content)
			if err != nil {
				log.Warn("Failed to clean article markup, keeping raw content",
					"url", articles[i].URL, "error", err.Error())
				continue
			}
			articles[i].Content = text
		}
	}

	log.Info("Loaded article batch", "path", path, "article_count", len(articles))
	return articles, nil
}

// looksLikeHTML is a cheap tag sniff, enough to tell scraped markup from the
// plain-text releases the batch file normally carries.
func looksLikeHTML(content string) bool {
	return strings.Contains(content, "</") || strings.Contains(content, "/>") ||
		strings.Contains(strings.ToLower(content), "<p>")
}

// ExtractText parses HTML and extracts readable text. Script, style and
// chrome elements are dropped; common main-content containers are preferred
// over the whole body.
func ExtractText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript").Remove()

	var text string
	mainContentSelectors := []string{"article", "main", ".main", "#main", ".content", "#content", ".post-body", ".entry-content"}
	for _, selector := range mainContentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text += s.Text() + " "
		})
		if strings.TrimSpace(text) != "" {
			break
		}
	}

	if strings.TrimSpace(text) == "" {
		text = doc.Find("body").Text()
	}

	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return "", fmt.Errorf("no meaningful text content found")
	}
	return cleaned, nil
}
