package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gallery-backend/internal/storage"
	"gallery-backend/internal/validation"
)

func jpeg(name string, size int) storage.File {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return storage.File{Name: name, ContentType: "image/jpeg", Data: data}
}

func png(name string) storage.File {
	return storage.File{Name: name, ContentType: "image/png", Data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}}
}

func TestValidateBatch_Valid(t *testing.T) {
	files := []storage.File{
		jpeg("a.jpg", 100),
		jpeg("b.jpeg", 200),
		png("c.png"),
		{Name: "d.gif", ContentType: "image/gif", Data: []byte("GIF89a")},
		{Name: "e.webp", ContentType: "image/webp", Data: []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")},
	}
	assert.NoError(t, validation.ValidateBatch(files, validation.DefaultOptions()))
}

func TestValidateBatch_Empty(t *testing.T) {
	err := validation.ValidateBatch(nil, validation.DefaultOptions())
	assert.ErrorContains(t, err, "at least one file")
}

func TestValidateBatch_TooManyFiles(t *testing.T) {
	opts := validation.DefaultOptions()
	opts.MaxFileCount = 2

	files := []storage.File{jpeg("a.jpg", 10), jpeg("b.jpg", 10), jpeg("c.jpg", 10)}
	err := validation.ValidateBatch(files, opts)
	assert.ErrorContains(t, err, "too many files")
}

func TestValidateBatch_Oversized(t *testing.T) {
	opts := validation.DefaultOptions()
	opts.MaxFileSize = 64

	err := validation.ValidateBatch([]storage.File{jpeg("big.jpg", 65)}, opts)
	assert.ErrorContains(t, err, "size limit")
}

func TestValidateBatch_WrongMIMEType(t *testing.T) {
	files := []storage.File{{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF-")}}
	err := validation.ValidateBatch(files, validation.DefaultOptions())
	assert.ErrorContains(t, err, "invalid file type")
}

func TestValidateBatch_WrongExtension(t *testing.T) {
	file := jpeg("photo.tiff", 50)
	err := validation.ValidateBatch([]storage.File{file}, validation.DefaultOptions())
	assert.ErrorContains(t, err, "invalid file extension")
}

func TestValidateBatch_MagicNumberMismatch(t *testing.T) {
	// Declared a PNG, but the bytes are not.
	file := storage.File{Name: "fake.png", ContentType: "image/png", Data: []byte("definitely text")}
	err := validation.ValidateBatch([]storage.File{file}, validation.DefaultOptions())
	assert.ErrorContains(t, err, "does not match")
}

func TestValidateBatch_ReportsFilePosition(t *testing.T) {
	// One bad file rejects the whole batch and names its position.
	files := []storage.File{
		jpeg("good.jpg", 10),
		{Name: "bad.txt", ContentType: "text/plain", Data: []byte("hello")},
		jpeg("also-good.jpg", 10),
	}
	err := validation.ValidateBatch(files, validation.DefaultOptions())
	assert.ErrorContains(t, err, "file 2")
}
