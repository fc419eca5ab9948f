package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSanitizePayloadKeepsValidJSON(t *testing.T) {
	body := []byte(`{"id":1,"type":"chargeback"}`)
	got := SanitizePayload(body)
	if got != string(body) {
		t.Fatalf("expected payload unchanged, got %q", got)
	}
}

func TestSanitizePayloadEscapesWhitespaceControls(t *testing.T) {
	body := []byte("{\n\t\"id\": 1,\r\n\t\"type\": \"chargeback\"\n}")
	got := SanitizePayload(body)
	if strings.ContainsAny(got, "\n\r\t") {
		t.Fatalf("expected raw control characters to be gone, got %q", got)
	}
	if !strings.Contains(got, `\n`) || !strings.Contains(got, `\t`) || !strings.Contains(got, `\r`) {
		t.Fatalf("expected escaped control sequences, got %q", got)
	}
}

func TestSanitizePayloadStripsOtherControlCharacters(t *testing.T) {
	body := []byte("{\"note\":\"a\x00b\x1bc\"}")
	got := SanitizePayload(body)
	if strings.ContainsRune(got, 0x00) || strings.ContainsRune(got, 0x1b) {
		t.Fatalf("expected control characters stripped, got %q", got)
	}
	if !strings.Contains(got, "abc") {
		t.Fatalf("expected printable text preserved, got %q", got)
	}
}

func TestSanitizePayloadWrapsInvalidJSON(t *testing.T) {
	body := []byte("definitely not json\nwith a second line")
	got := SanitizePayload(body)

	var envelope payloadEnvelope
	if err := json.Unmarshal([]byte(got), &envelope); err != nil {
		t.Fatalf("expected wrapped payload to be valid JSON: %v", err)
	}
	if envelope.OriginalData != `definitely not json\nwith a second line` {
		t.Fatalf("expected sanitized original data, got %q", envelope.OriginalData)
	}
	if envelope.Length != len(body) {
		t.Fatalf("expected length %d, got %d", len(body), envelope.Length)
	}
	if envelope.Error == "" {
		t.Fatalf("expected decode error to be recorded")
	}
}

func TestSanitizePayloadWrapsEmptyBody(t *testing.T) {
	got := SanitizePayload(nil)

	var envelope payloadEnvelope
	if err := json.Unmarshal([]byte(got), &envelope); err != nil {
		t.Fatalf("expected wrapped payload to be valid JSON: %v", err)
	}
	if envelope.OriginalData != "" {
		t.Fatalf("expected empty original data, got %q", envelope.OriginalData)
	}
	if envelope.Length != 0 {
		t.Fatalf("expected zero length, got %d", envelope.Length)
	}
	if envelope.Error == "" {
		t.Fatalf("expected decode error to be recorded")
	}
}
