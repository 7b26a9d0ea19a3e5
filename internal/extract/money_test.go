package extract

import "testing"

func TestNormalizeMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$1,200.00", "1,200.00"},
		{"$300.50", "300.50"},
		{"1,234.56", "1,234.56"},
		{"paid 450", "450"},
		{"-750.25", "-750.25"},
		{"  n/a  ", "n/a"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeMoney(tt.in); got != tt.want {
			t.Errorf("NormalizeMoney(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeMoney_Idempotent(t *testing.T) {
	values := []string{"1,234.56", "500", "-42.00", "12,000"}
	for _, v := range values {
		once := NormalizeMoney(v)
		twice := NormalizeMoney(once)
		if once != twice {
			t.Errorf("not idempotent: NormalizeMoney(%q) = %q, then %q", v, once, twice)
		}
	}
}
