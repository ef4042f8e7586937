// Package debug provides debug visualization utilities.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/tidewater/internal/engine/water"
)

// HeightImage rasterises the grid elevations, one pixel per vertex, with row 0
// at the top. Heights map linearly from lo (black) to hi (white). If hi is not
// above lo the grid's own range is used.
func HeightImage(g *water.HeightGrid, lo, hi float32) *image.Gray {
	w, h := g.Columns+1, g.Rows+1
	img := image.NewGray(image.Rect(0, 0, w, h))

	if !(hi > lo) {
		lo, hi = heightRange(g)
	}
	span := hi - lo

	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			var v float32
			if span > 0 {
				v = (g.WorldVertex(row, col).Y - lo) / span
			}
			v = min(max(v, 0), 1)
			img.Pix[img.PixOffset(col, row)] = uint8(v*255 + 0.5)
		}
	}
	return img
}

func heightRange(g *water.HeightGrid) (lo, hi float32) {
	lo, hi = g.WorldVertex(0, 0).Y, g.WorldVertex(0, 0).Y
	for row := 0; row <= g.Rows; row++ {
		for col := 0; col <= g.Columns; col++ {
			y := g.WorldVertex(row, col).Y
			lo = min(lo, y)
			hi = max(hi, y)
		}
	}
	return lo, hi
}

// Colorize maps a height image onto a deep-to-shallow water ramp.
func Colorize(src *image.Gray) *image.NRGBA {
	deep := color.NRGBA{R: 8, G: 32, B: 72, A: 255}
	crest := color.NRGBA{R: 196, G: 232, B: 240, A: 255}

	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := int(src.Pix[src.PixOffset(x, y)])
			i := dst.PixOffset(x, y)
			dst.Pix[i] = lerp8(deep.R, crest.R, t)
			dst.Pix[i+1] = lerp8(deep.G, crest.G, t)
			dst.Pix[i+2] = lerp8(deep.B, crest.B, t)
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

func lerp8(a, b uint8, t int) uint8 {
	return uint8((int(a)*(255-t) + int(b)*t + 127) / 255)
}

// SnapshotWriter writes height snapshots and framebuffer captures as WebP.
type SnapshotWriter struct {
	OutputDir string
	Prefix    string
	Scale     int // output pixels per grid vertex; values below 2 disable upscaling
}

// NewSnapshotWriter creates a snapshot writer.
func NewSnapshotWriter(outputDir, prefix string, scale int) *SnapshotWriter {
	return &SnapshotWriter{
		OutputDir: outputDir,
		Prefix:    prefix,
		Scale:     scale,
	}
}

// WriteWebP renders the grid's current elevations to a colorized image and
// writes it. It returns the file path.
func (sw *SnapshotWriter) WriteWebP(g *water.HeightGrid) (string, error) {
	var img image.Image = Colorize(HeightImage(g, 0, 0))

	if sw.Scale > 1 {
		b := img.Bounds()
		scaled := image.NewNRGBA(image.Rect(0, 0, b.Dx()*sw.Scale, b.Dy()*sw.Scale))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
		img = scaled
	}

	return sw.write(img)
}

// CaptureFromPixels writes raw RGBA framebuffer pixels (width*height*4 bytes).
// The image is flipped vertically since OpenGL has origin at bottom-left.
func (sw *SnapshotWriter) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return sw.write(img)
}

// GenerateFilename returns the path the next snapshot would be written to.
func (sw *SnapshotWriter) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.webp", sw.Prefix, timestamp)
	if sw.OutputDir != "" {
		filename = filepath.Join(sw.OutputDir, filename)
	}
	return filename
}

func (sw *SnapshotWriter) write(img image.Image) (string, error) {
	if sw.OutputDir != "" {
		if err := os.MkdirAll(sw.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sw.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := nativewebp.Encode(file, img, nil); err != nil {
		return "", fmt.Errorf("encoding WebP: %w", err)
	}

	return filename, nil
}
