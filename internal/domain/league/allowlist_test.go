package league

import "testing"

func TestAllowed(t *testing.T) {
	list := []AllowedPair{
		{"England", "Premier League"},
		{"World", "UEFA Champions League"},
	}

	if !Allowed(list, "England", "Premier League") {
		t.Fatalf("exact pair should be allowed")
	}
	if !Allowed(list, "  england ", "PREMIER LEAGUE") {
		t.Fatalf("matching must ignore case and surrounding spaces")
	}
	if Allowed(list, "England", "Championship") {
		t.Fatalf("league not on the list should be rejected")
	}
	if Allowed(list, "Spain", "Premier League") {
		t.Fatalf("country must match too")
	}
	if !Allowed(nil, "Anywhere", "Anything") {
		t.Fatalf("empty list allows everything")
	}
}
