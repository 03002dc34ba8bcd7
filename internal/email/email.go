// Package email delivers the rendered newsletter to a recipient list through
// the Resend API.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"dealwire/internal/logger"
)

const defaultBaseURL = "https://api.resend.com"

// Client is a minimal Resend API client.
type Client struct {
	apiKey      string
	fromName    string
	fromAddress string
	baseURL     string
	httpClient  *http.Client
}

// NewClient creates a Resend client with a 30 second request timeout.
func NewClient(apiKey, fromName, fromAddress string) *Client {
	return &Client{
		apiKey:      apiKey,
		fromName:    fromName,
		fromAddress: fromAddress,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// sendRequest is the Resend emails endpoint payload.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one email to a single recipient.
func (c *Client) Send(recipient, subject, html string) error {
	if c.apiKey == "" {
		return fmt.Errorf("resend API key not configured")
	}

	payload := sendRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromAddress),
		To:      []string{recipient},
		Subject: subject,
		HTML:    html,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// SendReport aggregates the outcome of a recipient-list delivery.
type SendReport struct {
	Sent     int
	Failed   int
	Failures []error
}

// SendToAll delivers the newsletter to every recipient with a fixed delay
// between sends. A failed recipient never aborts the remaining ones.
func (c *Client) SendToAll(recipients []string, subject, html string, delay time.Duration) SendReport {
	log := logger.Get()
	report := SendReport{}

	for i, recipient := range recipients {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		if err := c.Send(recipient, subject, html); err != nil {
			log.Warn("Failed to send newsletter", "recipient", recipient, "error", err.Error())
			report.Failed++
			report.Failures = append(report.Failures, fmt.Errorf("recipient %s: %w", recipient, err))
			continue
		}
		log.Info("Newsletter sent", "recipient", recipient)
		report.Sent++
	}

	return report
}

// LoadRecipients reads email addresses from a text file, one per line.
// Empty lines and lines starting with # are ignored; lines that do not look
// like addresses are skipped with a warning.
func LoadRecipients(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipients file %s: %w", path, err)
	}

	log := logger.Get()
	var recipients []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "@") || !strings.Contains(line, ".") {
			log.Warn("Skipping invalid email address", "line", line)
			continue
		}
		recipients = append(recipients, line)
	}

	return recipients, nil
}
