package core

import "testing"

func TestEscalateTags(t *testing.T) {
	cases := []struct {
		name    string
		current string
		update  bool
		tags    string
		action  string
	}{
		{
			name:    "no_tags_adds_first_offense_flag",
			current: "",
			update:  true,
			tags:    "chargeback_flag1",
			action:  ActionFirstOffense,
		},
		{
			name:    "whitespace_only_adds_first_offense_flag",
			current: "   ",
			update:  true,
			tags:    "chargeback_flag1",
			action:  ActionFirstOffense,
		},
		{
			name:    "existing_flag_escalates_to_risk",
			current: "chargeback_flag1",
			update:  true,
			tags:    "chargeback_flag1, chargeback_risk",
			action:  ActionEscalated,
		},
		{
			name:    "risk_tag_is_terminal",
			current: "chargeback_flag1, chargeback_risk",
			update:  false,
			tags:    "chargeback_flag1, chargeback_risk",
			action:  ActionAlreadyEscalated,
		},
		{
			name:    "risk_without_flag_is_still_terminal",
			current: "chargeback_risk",
			update:  false,
			tags:    "chargeback_risk",
			action:  ActionAlreadyEscalated,
		},
		{
			name:    "unrelated_tags_are_preserved",
			current: "vip, wholesale",
			update:  true,
			tags:    "vip, wholesale, chargeback_flag1",
			action:  ActionFirstOffense,
		},
		{
			name:    "unrelated_tags_with_flag_escalate",
			current: "vip, chargeback_flag1, wholesale",
			update:  true,
			tags:    "vip, chargeback_flag1, wholesale, chargeback_risk",
			action:  ActionEscalated,
		},
		{
			name:    "flag_match_is_substring_based",
			current: "chargeback_flag1x",
			update:  true,
			tags:    "chargeback_flag1x, chargeback_risk",
			action:  ActionEscalated,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := EscalateTags(tc.current)
			if decision.ShouldUpdate != tc.update {
				t.Fatalf("expected should_update=%t, got %t", tc.update, decision.ShouldUpdate)
			}
			if decision.NewTags != tc.tags {
				t.Fatalf("expected tags %q, got %q", tc.tags, decision.NewTags)
			}
			if decision.Action != tc.action {
				t.Fatalf("expected action %q, got %q", tc.action, decision.Action)
			}
		})
	}
}

func TestEscalateTagsIsIdempotentOncePeaked(t *testing.T) {
	decision := EscalateTags("")
	for i := 0; i < 3; i++ {
		decision = EscalateTags(decision.NewTags)
	}
	if decision.ShouldUpdate {
		t.Fatalf("expected ladder to stop escalating, got update with %q", decision.NewTags)
	}
	if decision.NewTags != "chargeback_flag1, chargeback_risk" {
		t.Fatalf("expected terminal tags, got %q", decision.NewTags)
	}
}
