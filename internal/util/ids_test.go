package util

import "testing"

func TestSequenceID(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int
		want   string
	}{
		{"L", 1, "L001"},
		{"L", 12, "L012"},
		{"M", 999, "M999"},
		{"M", 1000, "M1000"},
	}

	for _, tt := range tests {
		if got := SequenceID(tt.prefix, tt.seq); got != tt.want {
			t.Errorf("SequenceID(%q, %d) = %q, want %q", tt.prefix, tt.seq, got, tt.want)
		}
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		id     string
		want   int
		wantOK bool
	}{
		{"padded", "L", "L007", 7, true},
		{"wide", "M", "M1234", 1234, true},
		{"wrong prefix", "L", "M001", 0, false},
		{"prefix only", "L", "L", 0, false},
		{"not a number", "L", "Labc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSequence(tt.prefix, tt.id)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseSequence(%q, %q) = (%d, %v), want (%d, %v)", tt.prefix, tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
