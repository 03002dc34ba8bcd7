package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestClient(baseURL string) *Client {
	client := NewClient("test-key", "The M&A Letter", "letter@example.com")
	client.baseURL = baseURL
	return client
}

func TestSend(t *testing.T) {
	var gotAuth, gotContentType string
	var gotPayload sendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if err := client.Send("reader@example.com", "Issue 0001", "<html></html>"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotPayload.From != "The M&A Letter <letter@example.com>" {
		t.Errorf("From = %q", gotPayload.From)
	}
	if len(gotPayload.To) != 1 || gotPayload.To[0] != "reader@example.com" {
		t.Errorf("To = %v", gotPayload.To)
	}
	if gotPayload.Subject != "Issue 0001" {
		t.Errorf("Subject = %q", gotPayload.Subject)
	}
}

func TestSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if err := client.Send("reader@example.com", "Issue 0001", "<html></html>"); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestSendWithoutAPIKey(t *testing.T) {
	client := NewClient("", "Letter", "letter@example.com")
	if err := client.Send("reader@example.com", "subject", "body"); err == nil {
		t.Error("expected error when API key is missing")
	}
}

func TestSendToAllContinuesAfterFailure(t *testing.T) {
	var mu sync.Mutex
	var recipients []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload sendRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)

		mu.Lock()
		recipients = append(recipients, payload.To[0])
		mu.Unlock()

		if payload.To[0] == "broken@example.com" {
			http.Error(w, "delivery rejected", http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	report := client.SendToAll(
		[]string{"a@example.com", "broken@example.com", "b@example.com"},
		"Issue 0001", "<html></html>", 0)

	if report.Sent != 2 || report.Failed != 1 {
		t.Errorf("report = %+v, want 2 sent / 1 failed", report)
	}
	if len(report.Failures) != 1 {
		t.Errorf("expected 1 failure recorded, got %d", len(report.Failures))
	}
	if len(recipients) != 3 {
		t.Errorf("expected all 3 recipients attempted, got %v", recipients)
	}
}

func TestLoadRecipients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.txt")
	content := `# newsletter subscribers
alice@example.com

bob@example.com
not-an-email
charlie@example.com
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write recipients file: %v", err)
	}

	recipients, err := LoadRecipients(path)
	if err != nil {
		t.Fatalf("LoadRecipients failed: %v", err)
	}

	want := []string{"alice@example.com", "bob@example.com", "charlie@example.com"}
	if len(recipients) != len(want) {
		t.Fatalf("recipients = %v, want %v", recipients, want)
	}
	for i := range want {
		if recipients[i] != want[i] {
			t.Errorf("recipient %d = %q, want %q", i, recipients[i], want[i])
		}
	}
}

func TestLoadRecipientsMissingFile(t *testing.T) {
	if _, err := LoadRecipients(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing recipients file")
	}
}
