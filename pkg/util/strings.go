// Package util provides shared utility functions for fixd.
package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans path and rejects it if empty, absolute, or if it
// resolves above its own root once cleaned.
func SafeFilePath(path string) (string, bool) {
	return safeFilePath(path, false)
}

// SafeFilePathAllowAbsolute is like SafeFilePath but additionally accepts
// absolute paths, still rejecting relative traversal that escapes the
// root.
func SafeFilePathAllowAbsolute(path string) (string, bool) {
	return safeFilePath(path, true)
}

func safeFilePath(path string, allowAbsolute bool) (string, bool) {
	if path == "" {
		return "", false
	}
	if strings.ContainsRune(path, '\\') {
		return "", false
	}

	isAbs := strings.HasPrefix(path, "/")
	if isAbs && !allowAbsolute {
		return "", false
	}

	cleaned := filepath.Clean(path)

	if !isAbs && (cleaned == ".." || strings.HasPrefix(cleaned, "../")) {
		return "", false
	}

	return cleaned, true
}

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}
