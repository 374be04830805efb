package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"math"

	"github.com/disintegration/imaging"

	// Register decoders for the image sources we accept
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Image format names used by the codec
const (
	FormatWebP = "webp"
	FormatJPEG = "jpeg"
)

// Profile is a named bundle of target dimensions and quality.
// Quality follows the 1-100 scale of the Go encoders.
type Profile struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// ProfileFull is used for gallery images
var ProfileFull = Profile{Name: "full", MaxWidth: 800, MaxHeight: 800, Quality: 75}

// ProfileThumbnail is used for listing thumbnails
var ProfileThumbnail = Profile{Name: "thumbnail", MaxWidth: 300, MaxHeight: 225, Quality: 60}

// CompressedImage is the codec output: a re-encoded, dimension-bounded image
type CompressedImage struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// MimeType returns the MIME type matching the chosen format
func (c *CompressedImage) MimeType() string {
	return "image/" + c.Format
}

// Extension returns the file extension for storage paths
func (c *CompressedImage) Extension() string {
	if c.Format == FormatJPEG {
		return "jpg"
	}
	return c.Format
}

// webpEncoder is the optional WebP encode hook. The standard build has no
// pure-Go WebP encoder, so it stays nil and the codec falls back to JPEG;
// a cgo build may install one before constructing the codec.
var webpEncoder func(w io.Writer, img image.Image, quality int) error

// ImageCodec converts any supported image input into a compressed,
// dimension-bounded image in the preferred format, falling back to JPEG
// when the runtime cannot produce WebP
type ImageCodec struct {
	format string
}

// Ensure ImageCodec implements CodecInterface
var _ CodecInterface = (*ImageCodec)(nil)

// NewImageCodec probes format support once and fixes the output format for
// the life of the codec
func NewImageCodec(detector FormatSupportDetector) *ImageCodec {
	format := FormatJPEG
	if detector.WebPSupported() {
		format = FormatWebP
	}
	log.Printf("🎞️  Image codec initialized: output format=%s", format)
	return &ImageCodec{format: format}
}

// Format returns the output format chosen at construction
func (c *ImageCodec) Format() string {
	return c.format
}

// Compress decodes the input, scales it down to fit the profile bounds
// (never up), and re-encodes it at the profile quality
func (c *ImageCodec) Compress(data []byte, profile Profile) (*CompressedImage, error) {
	img, srcFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Uniform scale factor: min of the two axis ratios, applied only when
	// a dimension exceeds the bound
	if width > profile.MaxWidth || height > profile.MaxHeight {
		scale := math.Min(
			float64(profile.MaxWidth)/float64(width),
			float64(profile.MaxHeight)/float64(height),
		)
		newWidth := int(math.Round(float64(width) * scale))
		newHeight := int(math.Round(float64(height) * scale))

		log.Printf("🔄 Resizing image: %dx%d -> %dx%d (profile=%s)", width, height, newWidth, newHeight, profile.Name)
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
		width = newWidth
		height = newHeight
	} else {
		log.Printf("📸 Image decoded: format=%s, %dx%d within %s bounds, re-encoding only", srcFormat, width, height, profile.Name)
	}

	encoded, format, err := c.encode(img, profile.Quality)
	if err != nil {
		return nil, err
	}

	return &CompressedImage{
		Data:   encoded,
		Format: format,
		Width:  width,
		Height: height,
	}, nil
}

// encode writes the image in the chosen format, degrading from WebP to
// JPEG when the WebP encoder fails
func (c *ImageCodec) encode(img image.Image, quality int) ([]byte, string, error) {
	var buf bytes.Buffer

	if c.format == FormatWebP && webpEncoder != nil {
		if err := webpEncoder(&buf, img, quality); err == nil {
			return buf.Bytes(), FormatWebP, nil
		}
		log.Printf("⚠️  WebP encode failed, falling back to JPEG")
		buf.Reset()
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), FormatJPEG, nil
}
