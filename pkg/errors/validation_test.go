package errors

import (
	"strings"
	"testing"
)

func TestValidateCoordinateField(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "com.acme", false},
		{"with colon", "a:b", false},
		{"with slash", "org/sub", false},
		{"unicode", "bibliothèque", false},
		{"long", strings.Repeat("a", 300), false},
		{"null byte", "a\x00b", false},
		{"newline", "a\nb", false},
		{"empty", "", true},
		{"invalid utf8", "a\xffb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinateField("name", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCoordinateField(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinate) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidCoordinate)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "build/deps.txt", false},
		{"absolute", "/tmp/Cargo.lock", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 4097), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNamespaceBase(t *testing.T) {
	tests := []struct {
		base    string
		wantErr bool
	}{
		{"https://spdx.org/spdxdocs", false},
		{"http://example.com", false},
		{"", true},
		{"ftp://example.com", true},
		{"https://example.com/a b", true},
		{"https://example.com/?q", true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			err := ValidateNamespaceBase(tt.base)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNamespaceBase(%q) error = %v, wantErr %v", tt.base, err, tt.wantErr)
			}
		})
	}
}
