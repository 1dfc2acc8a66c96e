package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	ImageAreaDishes  = "dishes"
	ImageAreaReviews = "reviews"
)

var ErrImageDecode = errors.New("image payload is not valid base64")

// ImageStore writes uploaded images below <Root>/images/<area>/ and hands out
// references of the form <URLPrefix>/images/<area>/<file>.
type ImageStore struct {
	Root      string
	URLPrefix string
}

func NewImageStore(root string) *ImageStore {
	return &ImageStore{Root: root, URLPrefix: "/static"}
}

// DefaultDishImage is the placeholder reference used when a dish is created without an image.
func (s *ImageStore) DefaultDishImage(category string) string {
	return s.URLPrefix + "/images/" + ImageAreaDishes + "/default-" + category + ".jpg"
}

// SaveBase64 decodes a base64 payload, optionally prefixed by a data-URI header
// ending in a comma, and stores it under a fresh unique file name.
func (s *ImageStore) SaveBase64(area, payload string) (string, error) {
	data, err := DecodeImagePayload(payload)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.Root, "images", area)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	filename := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.URLPrefix + "/images/" + area + "/" + filename, nil
}

// Delete removes the file behind a reference. A file that is already gone is not an error.
func (s *ImageStore) Delete(ref string) error {
	path, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Resolve maps a reference back to a path under Root.
func (s *ImageStore) Resolve(ref string) (string, error) {
	rel := strings.TrimPrefix(ref, s.URLPrefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "", fmt.Errorf("empty image reference %q", ref)
	}
	path := filepath.Join(s.Root, filepath.FromSlash(rel))
	root := filepath.Clean(s.Root)
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("image reference %q escapes %s", ref, s.Root)
	}
	return path, nil
}

func DecodeImagePayload(payload string) ([]byte, error) {
	if i := strings.Index(payload, ","); i >= 0 {
		payload = payload[i+1:]
	}
	payload = strings.TrimSpace(payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// unpadded payloads are common from browser encoders
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return data, nil
}
