package utils

import (
	"errors"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrUnsafePath  = errors.New("unsafe path detected")
	ErrEmptyPath   = errors.New("path cannot be empty")
	ErrPathTooLong = errors.New("path is too long")
)

const MaxPathLength = 500

var (
	dangerousChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f\x7f]`)
	duplicateSlash = regexp.MustCompile(`/+`)
	extensionChars = regexp.MustCompile(`^\.[a-z0-9]+$`)
)

// ValidateAndSanitizePath validates a caller-supplied relative directory
// before it becomes part of an object key
func ValidateAndSanitizePath(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", ErrEmptyPath
	}
	if len(dir) > MaxPathLength {
		return "", ErrPathTooLong
	}

	// Directory traversal / absolute paths are never allowed in a key
	if strings.Contains(dir, "..") || filepath.IsAbs(dir) {
		return "", ErrUnsafePath
	}
	if dangerousChars.MatchString(dir) {
		return "", ErrUnsafePath
	}

	dir = strings.ReplaceAll(dir, "\\", "/")
	dir = duplicateSlash.ReplaceAllString(dir, "/")
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return "", ErrEmptyPath
	}

	return dir, nil
}

// SanitizeFileName normalizes a client-supplied file name to something
// safe to echo back in URLs and content-disposition headers.
// The extension is preserved; the base name is slugified.
func SanitizeFileName(filename string) string {
	filename = filepath.Base(strings.TrimSpace(filename))

	ext := FileExtension(filename)
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	base = slug.Make(base)
	if base == "" {
		base = "file"
	}

	return base + ext
}

// FileExtension returns the lowercased extension including the dot,
// or "" when the name has none worth keeping
func FileExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extensionChars.MatchString(ext) {
		return ""
	}
	return ext
}

// BuildObjectKey builds the storage key for a new upload:
// <uploadDir>/<relativeDir>/<uuid><ext-inferred-from-fileName>.
// relativeDir may be empty. The uuid suffix is what keeps concurrent
// uploads from colliding; no coordination needed.
func BuildObjectKey(uploadDir, relativeDir, fileName string) string {
	unique := uuid.New().String() + FileExtension(fileName)

	parts := []string{}
	if uploadDir != "" {
		parts = append(parts, strings.Trim(uploadDir, "/"))
	}
	if relativeDir != "" {
		parts = append(parts, relativeDir)
	}
	parts = append(parts, unique)

	return path.Join(parts...)
}
