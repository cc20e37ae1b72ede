package errors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ValidateProfileName validates a render profile name for safety.
// Profile names select TOML files from the profile directories, so names
// that could escape those directories are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProfile, "profile name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidProfile, "profile name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProfile, "profile name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidProfile, "profile name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidProfile, "profile name cannot contain path traversal sequences (..)")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidProfile, "profile name cannot be a hidden file")
	}

	return nil
}

// ValidateOutputPath validates a file path given as a sink target.
// Absolute paths are fine here; only unprintable injection is rejected.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// angleFractionRegex matches an external angle written as a fraction of
// turns, like "1/7".
var angleFractionRegex = regexp.MustCompile(`^[0-9]+/[1-9][0-9]*$`)

// ValidateAngle validates an external angle argument. Angles are given in
// turns, either as a fraction "p/q" or as a decimal in [0, 1).
func ValidateAngle(s string) error {
	if s == "" {
		return New(ErrCodeInvalidAngle, "angle cannot be empty")
	}

	if angleFractionRegex.MatchString(s) {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return New(ErrCodeInvalidAngle, "angle must be a fraction like 1/7 or a decimal: %q", s)
	}
	if v < 0 || v >= 1 {
		return New(ErrCodeInvalidAngle, "angle must lie in [0, 1) turns, got %v", v)
	}

	return nil
}

// ValidateMongoURI validates an archive connection string.
// It ensures the URI has a MongoDB scheme before the driver sees it.
func ValidateMongoURI(rawURI string) error {
	if rawURI == "" {
		return New(ErrCodeInvalidInput, "connection URI cannot be empty")
	}

	if !strings.HasPrefix(rawURI, "mongodb://") && !strings.HasPrefix(rawURI, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "connection URI must use the mongodb or mongodb+srv scheme")
	}

	return nil
}
