package render

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads a single image in any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// LoadFiles decodes the given image files in order. The returned slice order
// matches the paths, which is what determines tile placement order.
func LoadFiles(paths []string) ([]image.Image, error) {
	images := make([]image.Image, len(paths))
	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		img, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		images[i] = img
	}
	return images, nil
}

// WriteImage encodes img to w. Format is chosen by the extension of name:
// .jpg/.jpeg produce JPEG, everything else PNG.
func WriteImage(w io.Writer, name string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, nil)
	default:
		return png.Encode(w, img)
	}
}

// WriteFile writes img to path, refusing to overwrite an existing file
// unless force is set.
func WriteFile(path string, img image.Image, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("output file already exists: %q", path)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteImage(f, path, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
