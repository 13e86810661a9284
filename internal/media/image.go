// Package media decodes images uploaded as base64 data URIs.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxImageSize bounds the decoded size of an uploaded image
const MaxImageSize = 10 << 20

var (
	ErrNotDataURI       = errors.New("expected a base64 data:image URI")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image is too large")
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded upload
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>". The declared type
// must agree with the sniffed content.
func DecodeDataURI(uri string) (*Image, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURI
	}

	declared := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if _, ok := extensions[declared]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, declared)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	if len(data) == 0 {
		return nil, ErrNotDataURI
	}

	sniffed := http.DetectContentType(data)
	ext, ok := extensions[sniffed]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, sniffed)
	}

	return &Image{Data: data, ContentType: sniffed, Ext: ext}, nil
}
