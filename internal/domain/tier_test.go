package domain

import "testing"

func TestTierNormalize(t *testing.T) {
	tests := []struct {
		in   Tier
		want Tier
	}{
		{in: "Professional", want: TierProfessional},
		{in: "  MID_TIER ", want: TierMid},
		{in: "budget", want: TierBudget},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		got := tt.in.Normalize()
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.want != "" && !got.Valid() {
			t.Fatalf("expected %q to be valid after normalizing", tt.in)
		}
	}
}
