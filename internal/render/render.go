// Package render produces the newsletter HTML and the plain-text contexts
// projection from enriched deals.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"dealwire/internal/core"
)

// NewsletterData is the top-level template payload.
type NewsletterData struct {
	Name        string
	IssueNumber string
	IssueDate   string
	Deals       []DealView
}

// DealView is the per-deal template payload, precomputed so the template
// stays free of conditional label logic.
type DealView struct {
	Title        string
	URL          string
	PrettyDate   string
	DealAdvisor  string
	DealValue    string
	Context      string
	FooterLabels []string
}

// BuildDealView projects an enriched deal into its display form. Leadership
// labels are emitted only when both the firm and the person are attested;
// a lone investor firm still gets a label so the party is not lost.
func BuildDealView(deal core.EnrichedDeal) DealView {
	view := DealView{
		Title:       deal.Title,
		URL:         deal.URL,
		PrettyDate:  deal.PrettyDate,
		DealAdvisor: deal.DealAdvisor,
		DealValue:   deal.DealValue,
		Context:     deal.Context,
	}
	if view.Title == "" {
		view.Title = "Untitled deal"
	}
	if view.URL == "" {
		view.URL = "#"
	}

	if deal.Buyer != core.NA && deal.BuyerLeadName != core.NA {
		view.FooterLabels = append(view.FooterLabels,
			leadershipLabel(deal.Buyer, deal.BuyerLeadName, deal.BuyerLeadRole))
	}
	if deal.InvestorOrPE != core.NA {
		if deal.InvestorLeadName != core.NA {
			view.FooterLabels = append(view.FooterLabels,
				leadershipLabel(deal.InvestorOrPE, deal.InvestorLeadName, deal.InvestorLeadRole))
		} else {
			view.FooterLabels = append(view.FooterLabels,
				fmt.Sprintf("Investor – %s", deal.InvestorOrPE))
		}
	}
	if deal.Seller != core.NA && deal.SellerLeadName != core.NA {
		view.FooterLabels = append(view.FooterLabels,
			leadershipLabel(deal.Seller, deal.SellerLeadName, deal.SellerLeadRole))
	}

	return view
}

func leadershipLabel(firm, name, role string) string {
	label := fmt.Sprintf("%s – %s", firm, name)
	if role != core.NA {
		label += fmt.Sprintf(" (%s)", role)
	}
	return label
}

const newsletterTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Name}} — Issue {{.IssueNumber}}</title>
  <style type="text/css">
    body {
      margin: 0;
      background-color: #f8fafc;
      color: #1e293b;
      font-family: Georgia, 'Times New Roman', serif;
    }
    .container {
      max-width: 700px;
      margin: 0 auto;
      padding: 24px 16px;
    }
    .issue-header {
      border-bottom: 2px solid #1e293b;
      padding-bottom: 12px;
      margin-bottom: 24px;
    }
    .issue-header h1 {
      margin: 0;
      font-size: 26px;
    }
    .issue-meta {
      margin-top: 4px;
      font-size: 14px;
      color: #475569;
    }
    .deal-block {
      background-color: #ffffff;
      border: 1px solid #e2e8f0;
      border-radius: 6px;
      padding: 16px 20px;
      margin-bottom: 20px;
    }
    .deal-title-main {
      font-size: 18px;
      font-weight: bold;
      margin-bottom: 8px;
    }
    .deal-title-main a {
      color: #000;
      text-decoration: none;
    }
    .deal-meta-row {
      display: flex;
      justify-content: space-between;
      font-size: 13px;
      color: #475569;
      margin-bottom: 10px;
    }
    .deal-meta-label {
      font-weight: bold;
    }
    .deal-body {
      font-size: 15px;
      line-height: 1.5;
    }
    .deal-footer-row {
      margin-top: 12px;
      border-top: 1px solid #e2e8f0;
      padding-top: 8px;
      font-size: 12px;
      color: #64748b;
    }
    .deal-footer-item {
      margin-bottom: 2px;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="issue-header">
      <h1>{{.Name}}</h1>
      <div class="issue-meta">Issue {{.IssueNumber}} · {{.IssueDate}}</div>
    </div>
    {{range .Deals}}
    <div class="deal-block">
      <div class="deal-title-main">
        <a href="{{.URL}}" target="_blank">{{.Title}}</a>
      </div>
      <div class="deal-meta-row">
        <div class="deal-meta-left">{{.PrettyDate}}</div>
        <div class="deal-meta-center"><span class="deal-meta-label">Deal Advisor:</span> {{.DealAdvisor}}</div>
        <div class="deal-meta-right"><span class="deal-meta-label">Deal Value:</span> {{.DealValue}}</div>
      </div>
      <div class="deal-body">{{.Context}}</div>
      {{if .FooterLabels}}
      <div class="deal-footer-row">
        {{range .FooterLabels}}<div class="deal-footer-item">{{.}}</div>
        {{end}}
      </div>
      {{end}}
    </div>
    {{end}}
  </div>
</body>
</html>
`

// RenderNewsletter produces the full newsletter HTML for one issue.
func RenderNewsletter(name string, issue core.Issue, deals []core.EnrichedDeal) (string, error) {
	tmpl, err := template.New("newsletter").Parse(newsletterTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse newsletter template: %w", err)
	}

	data := NewsletterData{
		Name:        name,
		IssueNumber: issue.Number,
		IssueDate:   issue.Date,
	}
	for _, deal := range deals {
		data.Deals = append(data.Deals, BuildDealView(deal))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	return buf.String(), nil
}

// BuildContexts produces the plain-text projection of url and context pairs.
// Deals without a URL are skipped.
func BuildContexts(deals []core.EnrichedDeal) string {
	var builder strings.Builder
	for _, deal := range deals {
		if deal.URL == "" {
			continue
		}
		builder.WriteString(deal.URL)
		builder.WriteString("\n\n")
		builder.WriteString(deal.Context)
		builder.WriteString("\n\n")
	}
	return builder.String()
}

// WriteNewsletter writes the newsletter HTML for an issue into outputDir and
// returns the written path.
func WriteNewsletter(outputDir string, issue core.Issue, html string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outputDir, fmt.Sprintf("newsletter_issue_%s.html", issue.Number))
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write newsletter: %w", err)
	}
	return path, nil
}

// WriteContexts writes the contexts projection into outputDir and returns
// the written path.
func WriteContexts(outputDir string, contexts string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outputDir, "contexts.txt")
	if err := os.WriteFile(path, []byte(contexts), 0644); err != nil {
		return "", fmt.Errorf("failed to write contexts: %w", err)
	}
	return path, nil
}
