package at

import "testing"

func TestPatternStep(t *testing.T) {
	tests := []struct {
		name   string
		lit    string
		input  string
		hitsAt []int
	}{
		{name: "Plain literal", lit: "OK\r\n", input: "junkOK\r\n", hitsAt: []int{7}},
		{name: "Overlap with abandoned prefix", lit: "abac", input: "ababac", hitsAt: []int{5}},
		{name: "Repeated first byte", lit: "\nOK", input: "\n\n\nOK", hitsAt: []int{4}},
		{name: "Back to back matches", lit: "OK", input: "OKOK", hitsAt: []int{1, 3}},
		{name: "Restart after completion", lit: "aa", input: "aaa", hitsAt: []int{1}},
		{name: "Empty literal never matches", lit: "", input: "abc", hitsAt: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPattern(tt.lit)
			var hits []int
			for i := 0; i < len(tt.input); i++ {
				if p.step(tt.input[i]) {
					hits = append(hits, i)
				}
			}
			if len(hits) != len(tt.hitsAt) {
				t.Fatalf("expected hits at %v, got %v", tt.hitsAt, hits)
			}
			for i := range hits {
				if hits[i] != tt.hitsAt[i] {
					t.Errorf("expected hits at %v, got %v", tt.hitsAt, hits)
				}
			}
		})
	}
}
