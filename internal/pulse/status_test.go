package pulse

import "testing"

func TestStatusForBands(t *testing.T) {
	cases := []struct {
		score      int
		wantStatus string
		wantColor  string
	}{
		{-1, "N/A", "#6B7280"},
		{101, "N/A", "#6B7280"},
		{0, "CRITICAL", "#DC2626"},
		{20, "CRITICAL", "#DC2626"},
		{21, "AT RISK", "#EA580C"},
		{40, "AT RISK", "#EA580C"},
		{41, "DEVELOPING", "#EAB308"},
		{60, "DEVELOPING", "#EAB308"},
		{61, "STRONG", "#22C55E"},
		{80, "STRONG", "#22C55E"},
		{81, "ELITE", "#7C3AED"},
		{100, "ELITE", "#7C3AED"},
	}
	for _, c := range cases {
		got := StatusFor(c.score)
		if got.Status != c.wantStatus {
			t.Errorf("StatusFor(%d).Status = %q, want %q", c.score, got.Status, c.wantStatus)
		}
		if got.Color != c.wantColor {
			t.Errorf("StatusFor(%d).Color = %q, want %q", c.score, got.Color, c.wantColor)
		}
		if got.Message == "" {
			t.Errorf("StatusFor(%d) has no message", c.score)
		}
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[int]int{-10: 0, 0: 0, 50: 50, 100: 100, 140: 100} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}
