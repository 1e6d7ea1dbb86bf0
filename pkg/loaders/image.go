package loaders

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ImageFormat is an output image encoding
type ImageFormat int

const (
	BMP ImageFormat = iota
	PNG
	JPEG
	TIFF
)

// ContentType returns the MIME type for the format
func (f ImageFormat) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case TIFF:
		return "image/tiff"
	default:
		return "image/bmp"
	}
}

// ImageFormatFromName parses an extension or format name, with or without a leading dot
func ImageFormatFromName(name string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "bmp":
		return BMP, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return BMP, fmt.Errorf("unsupported image format %q", name)
}

// ImageFormatFromPath picks the encoder from a filename extension
func ImageFormatFromPath(filename string) (ImageFormat, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return BMP, fmt.Errorf("output file %q has no extension", filename)
	}
	return ImageFormatFromName(ext)
}

// EncodeImage writes img to w in the given format
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case TIFF:
		return tiff.Encode(w, img, nil)
	default:
		return bmp.Encode(w, img)
	}
}

// SaveImage saves img to filename, choosing the encoding by extension
func SaveImage(img image.Image, filename string) error {
	format, err := ImageFormatFromPath(filename)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	bw := bufio.NewWriter(file)
	if err := EncodeImage(bw, img, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	return file.Close()
}

// LoadImage decodes a BMP, PNG, JPEG or TIFF file into an RGBA image
func LoadImage(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return DecodeImage(file)
}

// DecodeImage decodes any supported format from r into an RGBA image
func DecodeImage(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba, nil
}
