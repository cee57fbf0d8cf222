package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// FileType is the declared type of an uploaded document.
type FileType string

// Supported file types. Only plain text is handled by the pipeline;
// the closed set exists so stored records remain self-describing.
const (
	FileTypeText FileType = "txt"
)

// Status is the lifecycle state of a document.
type Status string

// Document lifecycle states. A document starts as pending, and every
// vectorization run moves it to either processed or error. Neither state
// is terminal: re-running vectorization is always permitted.
const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusError     Status = "error"
)

// Valid reports whether s is one of the defined lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusError:
		return true
	}
	return false
}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidParameter, s)
	}
	return st, nil
}

// Document is the authoritative record of an uploaded document.
// The registry owns this metadata; the vector index owns the searchable
// chunk copies. The two are eventually consistent.
type Document struct {
	// ID is the opaque unique identifier assigned at upload. Never reused.
	ID string `json:"document_id"`

	// Filename is the sanitized original filename.
	Filename string `json:"filename"`

	// FileType is the declared type from the closed set.
	FileType FileType `json:"file_type"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is when the document was uploaded (UTC).
	CreatedAt time.Time `json:"created_at"`

	// OriginalText caches the extracted text. Nil until the first
	// successful extraction; refreshed on every successful vectorization.
	OriginalText *string `json:"original_text"`
}

// Chunk is a contiguous piece of a document, the unit of embedding and
// retrieval. Chunk ids are freshly generated on every vectorization run;
// stale ids are never reused.
type Chunk struct {
	// ID is the unique chunk identifier.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Index is the ordinal position within the document's chunk
	// sequence. Indices are contiguous from 0 in document order.
	Index int

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// SanitizeFilename strips any directory components from a client-supplied
// filename, leaving only the base name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// FileTypeForFilename maps a filename extension to a FileType.
// Returns ErrUnsupportedType for anything other than plain text.
func FileTypeForFilename(name string) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".txt" {
		return FileTypeText, nil
	}
	return "", fmt.Errorf("%w: %q (only .txt is supported)", ErrUnsupportedType, ext)
}

// NewDocument builds a pending Document from a client-supplied filename
// and its text content. Fails with ErrInvalidParameter when the filename
// is empty after sanitization, and with ErrUnsupportedType for non-text
// extensions. The id must be supplied by the caller (uuid at upload).
func NewDocument(id, filename, text string) (*Document, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("%w: filename is empty", ErrInvalidParameter)
	}

	fileType, err := FileTypeForFilename(name)
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:           id,
		Filename:     name,
		FileType:     fileType,
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
		OriginalText: &text,
	}, nil
}
