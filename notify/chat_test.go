package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-disputes/core"
)

func testNote() core.Notification {
	return core.Notification{
		Kind: core.NotificationSuccess,
		Event: core.DisputeEvent{
			ID:       987654321,
			OrderID:  820982911,
			Type:     "chargeback",
			Amount:   "49.99",
			Currency: "USD",
			Reason:   "fraudulent",
			Status:   "needs_response",
		},
		Action:        "added first-offense flag.",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		OrderName:     "#1001",
	}
}

func TestChatSink_PostsRenderedMessage(t *testing.T) {
	var receivedContentType string
	var receivedMessage chatMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&receivedMessage); err != nil {
			t.Errorf("decode chat payload: %v", err)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	sink, err := New(Config{
		WebhookURL: server.URL,
		Channel:    "#disputes",
		Username:   "disputes-bot",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("new chat sink: %v", err)
	}

	if err := sink.Post(context.Background(), testNote()); err != nil {
		t.Fatalf("post notification: %v", err)
	}

	if receivedContentType != "application/json" {
		t.Fatalf("unexpected content type %q", receivedContentType)
	}
	if receivedMessage.Channel != "#disputes" {
		t.Fatalf("unexpected channel %q", receivedMessage.Channel)
	}
	if receivedMessage.Username != "disputes-bot" {
		t.Fatalf("unexpected username %q", receivedMessage.Username)
	}
	for _, fragment := range []string{"987654321", "49.99 USD", "#1001", "Jane Doe", "added first-offense flag."} {
		if !strings.Contains(receivedMessage.Text, fragment) {
			t.Fatalf("expected message to contain %q, got %q", fragment, receivedMessage.Text)
		}
	}
}

func TestChatSink_OmitsBlankOverrides(t *testing.T) {
	var rawPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&rawPayload); err != nil {
			t.Errorf("decode chat payload: %v", err)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	sink, err := New(Config{WebhookURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("new chat sink: %v", err)
	}
	if err := sink.Post(context.Background(), testNote()); err != nil {
		t.Fatalf("post notification: %v", err)
	}

	if _, ok := rawPayload["channel"]; ok {
		t.Fatal("expected channel to be omitted when unset")
	}
	if _, ok := rawPayload["username"]; ok {
		t.Fatal("expected username to be omitted when unset")
	}
	if _, ok := rawPayload["text"]; !ok {
		t.Fatal("expected text field in chat payload")
	}
}

func TestChatSink_SurfacesWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer server.Close()

	sink, err := New(Config{WebhookURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("new chat sink: %v", err)
	}

	postErr := sink.Post(context.Background(), testNote())
	if postErr == nil {
		t.Fatal("expected error for rejected post")
	}
	if !strings.Contains(postErr.Error(), "403") {
		t.Fatalf("expected status in error, got %v", postErr)
	}
	if !strings.Contains(postErr.Error(), "invalid_token") {
		t.Fatalf("expected response detail in error, got %v", postErr)
	}
}

func TestNew_RequiresWebhookURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing webhook url")
	}
}
