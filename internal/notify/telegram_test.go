package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdrbrnd/whatsinthebox/internal/models"
)

func TestSendRunReport(t *testing.T) {
	var received telegramMessage
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if !strings.HasPrefix(r.URL.Path, "/bottest-token/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "12345")
	notifier.SetBaseURL(server.URL)

	report := &models.RunReport{
		TaskID: 7, ChannelID: 3, DayOffset: -1,
		Programs: 20, Movies: 4, Resolved: 3, Enriched: 3, Persisted: 4,
		Duration: "2.5s",
	}
	if err := notifier.SendRunReport(report); err != nil {
		t.Fatalf("SendRunReport failed: %v", err)
	}

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if received.ChatID != "12345" {
		t.Errorf("chat id = %q, want 12345", received.ChatID)
	}
	if !strings.Contains(received.Text, "Resolved: 3") {
		t.Errorf("text missing run stats: %q", received.Text)
	}
}

func TestSendRunReportSkipsIdle(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "12345")
	notifier.SetBaseURL(server.URL)

	if err := notifier.SendRunReport(&models.RunReport{Idle: true}); err != nil {
		t.Fatalf("SendRunReport failed: %v", err)
	}
	if err := notifier.SendRunReport(nil); err != nil {
		t.Fatalf("SendRunReport(nil) failed: %v", err)
	}

	if calls != 0 {
		t.Errorf("calls = %d, want 0 for idle reports", calls)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok": false, "description": "chat not found"}`)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "12345")
	notifier.SetBaseURL(server.URL)

	err := notifier.SendMessage("hello")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("err = %v, want the API description surfaced", err)
	}
}

func TestSendMessageUnconfigured(t *testing.T) {
	notifier := NewTelegramNotifier("", "")
	if err := notifier.SendMessage("hello"); err == nil {
		t.Error("expected an error when token and chat id are missing")
	}
}
