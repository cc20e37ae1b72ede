package errors

import (
	"testing"
)

func TestValidateProfileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "seahorse", false},
		{"valid with dash", "deep-zoom", false},
		{"valid with underscore", "basilica_closeup", false},
		{"valid with dot", "julia.rabbit", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path separator /", "foo/bar", true},
		{"path separator \\", "foo\\bar", true},
		{"path traversal ..", "foo..bar", true},
		{"hidden file", ".secret", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProfileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "out/mandelbrot.png", false},
		{"valid absolute", "/tmp/render.png", false},
		{"valid dotted", "../renders/plane.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "out\x00.png", true},
		{"control char", "out\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAngle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid fraction", "1/7", false},
		{"valid fraction large", "13/255", false},
		{"valid zero", "0", false},
		{"valid decimal", "0.333", false},
		{"valid leading dot", ".25", false},

		{"empty", "", true},
		{"one turn", "1", true},
		{"above one", "1.5", true},
		{"negative", "-0.25", true},
		{"zero denominator", "1/0", true},
		{"not a number", "third", true},
		{"spaces", "1 / 7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAngle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAngle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMongoURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid mongodb", "mongodb://localhost:27017", false},
		{"valid srv", "mongodb+srv://cluster.example.net/fatou", false},

		{"empty", "", true},
		{"http scheme", "http://localhost:27017", true},
		{"bare host", "localhost:27017", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMongoURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMongoURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
