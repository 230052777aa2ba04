// Package upload sends source icons to the admin endpoint under the same
// limits the admin page's drop zone enforces.
package upload

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Validation errors. Their text is the name the admin page reports.
var (
	ErrTooManyFiles            = errors.New("TooManyFiles")
	ErrFileTooLarge            = errors.New("FileTooLarge")
	ErrFileTypeNotAllowed      = errors.New("FileTypeNotAllowed")
	ErrFileExtensionNotAllowed = errors.New("FileExtensionNotAllowed")
)

// Policy limits what may be uploaded.
type Policy struct {
	ParamName         string
	MaxFiles          int
	MaxSize           int64
	AllowedTypes      []string
	AllowedExtensions []string
}

// DefaultPolicy is one image of at most 1 MB.
func DefaultPolicy() Policy {
	return Policy{
		ParamName:         "file",
		MaxFiles:          1,
		MaxSize:           1 << 20,
		AllowedTypes:      []string{"image/jpeg", "image/png", "image/gif"},
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif"},
	}
}

// File is a file selected for upload.
type File struct {
	Name    string
	Type    string
	Content []byte
}

// Size is the content length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Content))
}

// NewFile sniffs the content type of data.
func NewFile(name string, data []byte) File {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return File{Name: filepath.Base(name), Type: ct, Content: data}
}

// ReadFile loads a file from disk.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("upload: read %s: %w", path, err)
	}
	return NewFile(path, data), nil
}

// Validate checks files against the policy. The file count is checked
// first, then each file's type, extension and size in that order.
func (p Policy) Validate(files []File) error {
	if p.MaxFiles > 0 && len(files) > p.MaxFiles {
		return ErrTooManyFiles
	}
	for _, f := range files {
		if len(p.AllowedTypes) > 0 && !slices.Contains(p.AllowedTypes, f.Type) {
			return ErrFileTypeNotAllowed
		}
		ext := strings.ToLower(filepath.Ext(f.Name))
		if len(p.AllowedExtensions) > 0 && !slices.Contains(p.AllowedExtensions, ext) {
			return ErrFileExtensionNotAllowed
		}
		if p.MaxSize > 0 && f.Size() > p.MaxSize {
			return ErrFileTooLarge
		}
	}
	return nil
}
