package notify

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-disputes/core"
)

// FormatMessage renders the chat text for one notification. Failure notes
// may carry an empty event when the delivery never parsed; identity lines
// are skipped rather than rendered with zero values.
func FormatMessage(note core.Notification) string {
	if note.Kind == core.NotificationFailure {
		return formatFailure(note)
	}
	return formatSuccess(note)
}

func formatSuccess(note core.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chargeback processed: dispute %d", note.Event.ID)
	if amount := note.Event.AmountLabel(); amount != "" {
		fmt.Fprintf(&b, " for %s", amount)
	}
	if orderName := strings.TrimSpace(note.OrderName); orderName != "" {
		fmt.Fprintf(&b, " on order %s", orderName)
	}
	b.WriteString(".")

	reason := strings.TrimSpace(note.Event.Reason)
	status := strings.TrimSpace(note.Event.Status)
	switch {
	case reason != "" && status != "":
		fmt.Fprintf(&b, "\nReason: %s (status: %s).", reason, status)
	case reason != "":
		fmt.Fprintf(&b, "\nReason: %s.", reason)
	case status != "":
		fmt.Fprintf(&b, "\nStatus: %s.", status)
	}

	if line := customerLine(note.CustomerName, note.CustomerEmail); line != "" {
		b.WriteString("\n" + line)
	}
	if action := strings.TrimSpace(note.Action); action != "" {
		fmt.Fprintf(&b, "\nAction: %s", action)
	}
	return b.String()
}

func formatFailure(note core.Notification) string {
	var b strings.Builder
	kind := strings.TrimSpace(note.ErrorKind)
	if kind == "" {
		kind = "unknown"
	}
	fmt.Fprintf(&b, "Dispute webhook failed: %s", kind)
	if note.StatusCode > 0 {
		fmt.Fprintf(&b, " (status %d)", note.StatusCode)
	}
	b.WriteString(".")

	if detail := strings.TrimSpace(note.Detail); detail != "" {
		fmt.Fprintf(&b, "\nDetail: %s", detail)
	}

	identity := make([]string, 0, 2)
	if note.Event.ID != 0 {
		identity = append(identity, fmt.Sprintf("dispute %d", note.Event.ID))
	}
	if note.Event.OrderID != 0 {
		identity = append(identity, fmt.Sprintf("order %d", note.Event.OrderID))
	}
	if len(identity) > 0 {
		fmt.Fprintf(&b, "\nContext: %s.", strings.Join(identity, ", "))
	}
	if line := customerLine(note.CustomerName, note.CustomerEmail); line != "" {
		b.WriteString("\n" + line)
	}
	return b.String()
}

func customerLine(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("Customer: %s <%s>.", name, email)
	case name != "":
		return fmt.Sprintf("Customer: %s.", name)
	case email != "":
		return fmt.Sprintf("Customer: %s.", email)
	}
	return ""
}
