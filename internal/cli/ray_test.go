package cli

import (
	"testing"
)

func TestParseAngleArg(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "1/3", want: "1/3"},
		{name: "reduced", input: "2/6", want: "1/3"},
		{name: "zero", input: "0/5", want: "0/1"},
		{name: "wrapped", input: "5/3", want: "2/3"},
		{name: "negative wraps", input: "-1/3", want: "2/3"},
		{name: "spaces", input: " 1 / 7 ", want: "1/7"},
		{name: "zero denominator", input: "1/0", wantErr: true},
		{name: "missing denominator", input: "13", wantErr: true},
		{name: "bad numerator", input: "x/3", wantErr: true},
		{name: "bad denominator", input: "1/y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAngleArg(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAngleArg(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("parseAngleArg(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
