package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// ImageStore keeps room images on local disk and hands out "/uploads/<subdir>/<file>" references.
type ImageStore struct {
	Root   string
	Subdir string
}

func NewImageStore(root, subdir string) *ImageStore {
	return &ImageStore{Root: root, Subdir: subdir}
}

func (s *ImageStore) dir() string {
	return filepath.Join(s.Root, s.Subdir)
}

func (s *ImageStore) ref(filename string) string {
	return path.Join("/uploads", filepath.ToSlash(s.Subdir), filename)
}

// SaveUpload stores a multipart file under a fresh uuid name.
func (s *ImageStore) SaveUpload(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("%w: %q is not an accepted image type", ErrValidation, fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return s.write(ext, src)
}

// SaveBase64 accepts a raw or data-URL base64 image, as JSON clients send it.
func (s *ImageStore) SaveBase64(b64 string) (string, error) {
	ext := ".jpg"
	if strings.HasPrefix(b64, "data:image/") {
		mime := strings.TrimPrefix(b64, "data:image/")
		if i := strings.IndexAny(mime, ";,"); i > 0 {
			if e := "." + mime[:i]; allowedImageExt[e] {
				ext = e
			}
		}
	}
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64 image: %v", ErrValidation, err)
	}
	return s.write(ext, bytes.NewReader(data))
}

func (s *ImageStore) write(ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir(), 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir(), filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.ref(filename), nil
}

// Remove deletes a stored image. References outside this store are ignored.
func (s *ImageStore) Remove(ref string) error {
	prefix := s.ref("")
	if !strings.HasPrefix(ref, prefix+"/") {
		return nil
	}
	name := path.Base(ref)
	err := os.Remove(filepath.Join(s.dir(), name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
