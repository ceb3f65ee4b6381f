package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFolderName validates a folder name passed to --skip-folders.
// Skip folders are matched against directory base names, so anything that
// looks like a path can never match and is rejected up front.
func ValidateFolderName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "skip folder name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "skip folder name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidConfig, "skip folder name cannot contain path separators: %q", name)
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidConfig, "skip folder name cannot be %q", name)
	}

	return nil
}

// aliasRegex matches import aliases such as "@lib", "~", "#internal" or "src".
var aliasRegex = regexp.MustCompile(`^[@~#$A-Za-z0-9_][A-Za-z0-9_./@~#$-]*$`)

// ValidateAlias validates the alias half of a module mapping.
//
// Validation rules:
//   - Alias cannot be empty
//   - No whitespace or control characters
//   - No quotes (the alias is substituted inside a quoted literal)
func ValidateAlias(alias string) error {
	if alias == "" {
		return New(ErrCodeInvalidMapping, "alias cannot be empty")
	}

	for _, r := range alias {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidMapping, "alias contains whitespace or control characters: %q", alias)
		}
	}

	if strings.ContainsAny(alias, `'"`+"`") {
		return New(ErrCodeInvalidMapping, "alias cannot contain quotes: %q", alias)
	}

	if !aliasRegex.MatchString(alias) {
		return New(ErrCodeInvalidMapping, "invalid alias: %q", alias)
	}

	return nil
}

// ValidateMappingTarget validates the path half of a module mapping.
// Targets must be relative literals starting with '.'; rewritten imports
// resolve against the importing file's directory.
func ValidateMappingTarget(target string) error {
	if target == "" {
		return New(ErrCodeInvalidMapping, "mapping target cannot be empty")
	}

	for _, r := range target {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidMapping, "mapping target contains invalid characters")
		}
	}

	if strings.HasPrefix(target, "/") || strings.Contains(target, "\\") {
		return New(ErrCodeInvalidMapping, "mapping target must be a relative slash path: %q", target)
	}

	if !strings.HasPrefix(target, ".") {
		return New(ErrCodeInvalidMapping, "mapping target must start with '.': %q", target)
	}

	return nil
}
