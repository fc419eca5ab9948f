package core

import "strings"

const (
	// TagFirstOffense marks a customer's first chargeback.
	TagFirstOffense = "chargeback_flag1"
	// TagRisk marks a repeat offender. Once present the ladder is done.
	TagRisk = "chargeback_risk"
)

const (
	ActionAlreadyEscalated = "already escalated, no action needed."
	ActionFirstOffense     = "added first-offense flag."
	ActionEscalated        = "escalated to risk tag after repeat offense."
)

// EscalateTags walks the escalation ladder over a customer's current tag
// string: none -> first-offense flag -> risk tag -> no-op. Matching is
// plain substring containment on the raw label text, not token parsing;
// whatever separator convention the shop uses stays untouched.
func EscalateTags(current string) TagDecision {
	if strings.Contains(current, TagRisk) {
		return TagDecision{
			ShouldUpdate: false,
			NewTags:      current,
			Action:       ActionAlreadyEscalated,
		}
	}
	if !strings.Contains(current, TagFirstOffense) {
		return TagDecision{
			ShouldUpdate: true,
			NewTags:      appendTag(current, TagFirstOffense),
			Action:       ActionFirstOffense,
		}
	}
	return TagDecision{
		ShouldUpdate: true,
		NewTags:      appendTag(current, TagRisk),
		Action:       ActionEscalated,
	}
}

func appendTag(current string, tag string) string {
	if strings.TrimSpace(current) == "" {
		return tag
	}
	return current + ", " + tag
}
