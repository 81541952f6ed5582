package metadata

import "testing"

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		nil_ bool
	}{
		{"PT1H2M3S", 3723, false},
		{"PT4M13S", 253, false},
		{"PT45S", 45, false},
		{"PT2H", 7200, false},
		{"PT1M", 60, false},
		{"P1DT1S", 86401, false},
		{"", 0, true},
		{"PT", 0, true},
		{"P", 0, true},
		{"1:02:03", 0, true},
		{"garbage", 0, true},
		{"PTxS", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseISODuration(tt.in)
			if tt.nil_ {
				if got != nil {
					t.Errorf("ParseISODuration(%q) = %d, want nil", tt.in, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseISODuration(%q) = nil, want %d", tt.in, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParseISODuration(%q) = %d, want %d", tt.in, *got, tt.want)
			}
		})
	}
}
