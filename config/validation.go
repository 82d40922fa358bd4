package config

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func ValidateAbsPath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && path.IsAbs(s)
}

func ValidateIdentifier(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	return identifierPattern.MatchString(s)
}

// ValidatePathPattern rejects storage key patterns that could escape the
// adapter root. Empty patterns are allowed and fall back to the default.
func ValidatePathPattern(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	if strings.ContainsRune(s, 0) {
		return false
	}

	if path.IsAbs(s) || filepath.IsAbs(s) || filepath.VolumeName(s) != "" {
		return false
	}

	// Windows drive letters are rejected even on unix hosts.
	if len(s) >= 2 && s[1] == ':' {
		return false
	}

	for _, part := range strings.Split(s, "/") {
		if part == ".." {
			return false
		}
	}

	return true
}
