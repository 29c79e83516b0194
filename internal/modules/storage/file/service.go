// Package file stores uploaded media on the local filesystem and serves it
// back under /media/.
package file

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps a single upload at 10MB.
const MaxUploadSize = 10 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

type Service struct {
	staticDir string
}

func NewService(staticDir string) *Service {
	if strings.TrimSpace(staticDir) == "" {
		staticDir = "static"
	}
	return &Service{staticDir: staticDir}
}

// Save writes the uploaded file under the static directory and returns the
// stored name. The original filename only contributes its extension.
func (s *Service) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", fmt.Errorf("file size exceeds %dMB", MaxUploadSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fh.Filename)))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("file format %q is not allowed", ext)
	}

	if err := os.MkdirAll(s.staticDir, 0o755); err != nil {
		return "", err
	}

	name := buildFileName(fh.Filename)
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.staticDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Open resolves a stored name to its on-disk path, rejecting anything that
// escapes the static directory.
func (s *Service) Open(name string) (string, error) {
	name = safeName(name)
	if name == "" {
		return "", os.ErrNotExist
	}
	path := filepath.Join(s.staticDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Service) Remove(name string) error {
	name = safeName(name)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.staticDir, name))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// buildFileName generates a collision-resistant filename that preserves the
// original extension.
func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// safeName returns the base name of raw only when it contains nothing but
// alphanumerics, hyphens, underscores, or dots.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return ""
	}
	return name
}

// detectContentType sniffs the MIME type from the extension or the raw
// payload bytes, in that priority order.
func detectContentType(name string, payload []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}
