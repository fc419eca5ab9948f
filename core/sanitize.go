package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

type payloadEnvelope struct {
	OriginalData string `json:"original_data"`
	Length       int    `json:"length"`
	Error        string `json:"error"`
}

// SanitizePayload prepares a raw request body for storage in an error
// record. Newlines, carriage returns, and tabs are escaped, every other
// control character is stripped. Payloads that are not valid JSON are
// wrapped in an envelope carrying the sanitized text, the original byte
// length, and the decode error, so the stored snapshot is always
// column-safe forensic content.
func SanitizePayload(body []byte) string {
	text := escapeControlText(string(body))
	var probe any
	err := json.Unmarshal(body, &probe)
	if err == nil {
		return text
	}
	wrapped, marshalErr := json.Marshal(payloadEnvelope{
		OriginalData: text,
		Length:       len(body),
		Error:        err.Error(),
	})
	if marshalErr != nil {
		return strconv.Quote(text)
	}
	return string(wrapped)
}

func escapeControlText(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		default:
			if unicode.IsControl(r) {
				continue
			}
			out.WriteRune(r)
		}
	}
	return out.String()
}
