package cli

import (
	"testing"
)

func TestParseIntPairArg(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantA   int64
		wantB   int64
		wantErr bool
	}{
		{name: "pair", input: "5,2", wantA: 5, wantB: 2},
		{name: "negative", input: "-3,1", wantA: -3, wantB: 1},
		{name: "bare", input: "7", wantA: 7, wantB: 0},
		{name: "spaces", input: " 3 , -1 ", wantA: 3, wantB: -1},
		{name: "too many parts", input: "1,2,3", wantErr: true},
		{name: "not an integer", input: "1.5,2", wantErr: true},
		{name: "garbage", input: "a,b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, err := parseIntPairArg(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIntPairArg(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && (a != tt.wantA || b != tt.wantB) {
				t.Errorf("parseIntPairArg(%q) = (%d, %d), want (%d, %d)", tt.input, a, b, tt.wantA, tt.wantB)
			}
		})
	}
}
