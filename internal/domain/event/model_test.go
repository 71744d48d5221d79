package event

import "testing"

func TestKindFromProvider(t *testing.T) {
	cases := []struct {
		providerType string
		detail       string
		want         Kind
	}{
		{"Goal", "Normal Goal", KindGoal},
		{"Goal", "Penalty", KindGoal},
		{"goal", "Own Goal", KindGoal},
		{"Card", "Yellow Card", KindYellowCard},
		{"Card", "Second Yellow card", KindYellowCard},
		{"Card", "Red Card", KindRedCard},
		{"Card", "", KindOther},
		{"subst", "Substitution 1", KindSubstitute},
		{"Var", "Goal confirmed", KindGoal},
		{"Var", "Goal cancelled", KindOther},
		{"Var", "Goal Disallowed - offside", KindOther},
		{"Var", "Penalty confirmed", KindOther},
		{"Unknown", "whatever", KindOther},
	}

	for _, tc := range cases {
		if got := KindFromProvider(tc.providerType, tc.detail); got != tc.want {
			t.Errorf("KindFromProvider(%q, %q) = %q, want %q", tc.providerType, tc.detail, got, tc.want)
		}
	}
}

func TestSignature_DistinguishesEvents(t *testing.T) {
	base := Event{MatchID: 10, Kind: KindGoal, Minute: 23, PlayerID: 7, Detail: "Normal Goal"}

	same := base
	if base.Signature() != same.Signature() {
		t.Fatalf("identical events must share a signature")
	}

	variants := []Event{
		{MatchID: 11, Kind: KindGoal, Minute: 23, PlayerID: 7, Detail: "Normal Goal"},
		{MatchID: 10, Kind: KindRedCard, Minute: 23, PlayerID: 7, Detail: "Normal Goal"},
		{MatchID: 10, Kind: KindGoal, Minute: 24, PlayerID: 7, Detail: "Normal Goal"},
		{MatchID: 10, Kind: KindGoal, Minute: 23, PlayerID: 8, Detail: "Normal Goal"},
		{MatchID: 10, Kind: KindGoal, Minute: 23, PlayerID: 7, Detail: "Penalty"},
	}
	for i, v := range variants {
		if v.Signature() == base.Signature() {
			t.Errorf("variant %d should have a distinct signature", i)
		}
	}
}
