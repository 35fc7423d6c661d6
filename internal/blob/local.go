package blob

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upload categories. Each maps to a subdirectory of the upload root.
const (
	CategoryComplaints = "complaints"
	CategoryWorkPhotos = "work_photos"
)

// AttachmentExts is the allow-list for citizen complaint attachments.
var AttachmentExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {},
	"mp4": {}, "webm": {}, "mov": {}, "avi": {}, "pdf": {},
}

// ImageExts is the stricter allow-list for admin work photos.
var ImageExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {},
}

// Ext returns the lower-cased extension of name without the dot, and
// whether it is in the allow-list.
func Ext(name string, allowed map[string]struct{}) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return "", false
	}
	ext := strings.ToLower(name[i+1:])
	_, ok := allowed[ext]
	return ext, ok
}

// LocalStore writes uploaded files under a root directory, one
// subdirectory per category, keyed by generated unique names.
type LocalStore struct {
	root   string
	logger *zap.Logger
}

func NewLocalStore(root string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload root: %w", err)
	}
	return &LocalStore{root: root, logger: logger}, nil
}

// Root is the directory served at /uploads/.
func (s *LocalStore) Root() string { return s.root }

// Save writes one file and returns its reference ("category/name.ext").
// The reference is only valid once Save returns nil.
func (s *LocalStore) Save(category, ext string, r io.Reader) (string, error) {
	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}
	return category + "/" + name, nil
}

// SaveMultipart stores every allow-listed file and returns the saved
// references in order. Files with a disallowed or missing extension
// are skipped without error; write failures are logged and skipped so
// one bad file never loses the rest of the submission.
func (s *LocalStore) SaveMultipart(category string, files []*multipart.FileHeader, allowed map[string]struct{}) []string {
	refs := []string{}
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		ext, ok := Ext(fh.Filename, allowed)
		if !ok {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			s.logger.Warn("Failed to open uploaded file",
				zap.String("filename", fh.Filename),
				zap.Error(err),
			)
			continue
		}
		ref, err := s.Save(category, ext, src)
		src.Close()
		if err != nil {
			s.logger.Warn("Failed to store uploaded file",
				zap.String("filename", fh.Filename),
				zap.String("category", category),
				zap.Error(err),
			)
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
