package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateMeshName validates a mesh name as used in selections and journals.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No whitespace
//   - Maximum length of 256 characters
func ValidateMeshName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidMeshName, "mesh name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidMeshName, "mesh name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidMeshName, "mesh name contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidMeshName, "mesh name cannot contain whitespace: %q", name)
		}
	}

	return nil
}

// documentExtensions are the file extensions accepted for mesh documents.
var documentExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ValidateDocumentPath validates the path of a mesh document.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Extension must be .yaml, .yml or .json
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !documentExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported mesh document %q (want .yaml, .yml or .json)", filepath.Base(path))
	}

	return nil
}

// namespaceRegex matches journal namespaces ("team-a", "user:42").
var namespaceRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateNamespace validates a journal namespace. An empty namespace is valid
// and means "no scoping".
func ValidateNamespace(ns string) error {
	if ns == "" {
		return nil
	}
	if len(ns) > 128 {
		return New(ErrCodeInvalidInput, "namespace too long (max 128 characters)")
	}
	if !namespaceRegex.MatchString(ns) {
		return New(ErrCodeInvalidInput, "invalid namespace: %q", ns)
	}
	return nil
}
