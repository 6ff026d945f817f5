// Package validation checks upload batches before any session work begins.
// A single bad file rejects the whole batch — the caller gets a synchronous
// error and no session is created.
package validation

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gallery-backend/internal/storage"
)

type Options struct {
	MaxFileSize       int64
	MaxFileCount      int
	AllowedMIMETypes  []string
	AllowedExtensions []string
	CheckMagicNumbers bool
}

func DefaultOptions() Options {
	return Options{
		MaxFileSize:  5 * 1024 * 1024,
		MaxFileCount: 10,
		AllowedMIMETypes: []string{
			"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
		},
		AllowedExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp",
		},
		CheckMagicNumbers: true,
	}
}

// ValidateBatch validates every file in the batch against opts. The first
// failure is returned, prefixed with the offending file's position.
func ValidateBatch(files []storage.File, opts Options) error {
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	if opts.MaxFileCount > 0 && len(files) > opts.MaxFileCount {
		return fmt.Errorf("too many files: maximum allowed is %d", opts.MaxFileCount)
	}

	for i, file := range files {
		if err := validateFile(file, opts); err != nil {
			return fmt.Errorf("file %d: %w", i+1, err)
		}
	}
	return nil
}

func validateFile(file storage.File, opts Options) error {
	if int64(len(file.Data)) > opts.MaxFileSize {
		return fmt.Errorf("%q exceeds the %s size limit", file.Name, formatBytes(opts.MaxFileSize))
	}

	if !slices.Contains(opts.AllowedMIMETypes, file.ContentType) {
		return fmt.Errorf("invalid file type %q for %q, allowed types: %s",
			file.ContentType, file.Name, strings.Join(opts.AllowedMIMETypes, ", "))
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	if ext == "" || !slices.Contains(opts.AllowedExtensions, ext) {
		return fmt.Errorf("invalid file extension for %q, allowed extensions: %s",
			file.Name, strings.Join(opts.AllowedExtensions, ", "))
	}

	if opts.CheckMagicNumbers && !matchesMagicNumbers(file.Data, file.ContentType) {
		return fmt.Errorf("content of %q does not match its declared type %q", file.Name, file.ContentType)
	}
	return nil
}

// matchesMagicNumbers verifies the file signature against the declared
// MIME type. Types without a known signature pass.
func matchesMagicNumbers(data []byte, mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
	case "image/png":
		return len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47
	case "image/gif":
		return len(data) >= 3 && data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46
	case "image/webp":
		return len(data) >= 12 && data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50
	default:
		return true
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.0f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
