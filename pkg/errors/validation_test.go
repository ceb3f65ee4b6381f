package errors

import (
	"testing"
)

func TestValidateFolderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"node_modules", "node_modules", false},
		{"dotted", ".git", false},
		{"dist", "dist", false},

		{"empty", "", true},
		{"with slash", "a/b", true},
		{"with backslash", "a\\b", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"control char", "foo\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFolderName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFolderName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"scoped", "@lib", false},
		{"scoped path", "@app/core", false},
		{"tilde", "~", false},
		{"hash", "#internal", false},
		{"plain", "src", false},

		{"empty", "", true},
		{"space", "@l ib", true},
		{"quote", "@lib'", true},
		{"double quote", `"lib`, true},
		{"tab", "\tlib", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlias(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAlias(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidMapping) {
				t.Errorf("ValidateAlias(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidMapping)
			}
		})
	}
}

func TestValidateMappingTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"dot relative", "./packages/lib", false},
		{"parent relative", "../shared", false},
		{"bare relative", "packages/lib", true},
		{"package name", "lodash", true},

		{"empty", "", true},
		{"absolute", "/usr/lib", true},
		{"backslash", ".\\packages", true},
		{"null byte", "./a\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMappingTarget(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMappingTarget(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
