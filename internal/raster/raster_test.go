package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/chris-casper/RF-Sim/internal/errors"
)

func encodeP6(w, h int, pixels []color.NRGBA) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P6\n# coverage raster\n%d %d\n255\n", w, h)
	for _, px := range pixels {
		buf.Write([]byte{px.R, px.G, px.B})
	}
	return buf.Bytes()
}

func TestDecodePPMBinary(t *testing.T) {
	data := encodeP6(2, 2, []color.NRGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255},
		{0, 0, 255, 255}, {128, 64, 32, 255},
	})

	img, err := DecodePPM(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePPM failed: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{128, 64, 32, 255}) {
		t.Errorf("pixel (1,1) = %v", got)
	}
}

func TestDecodePPMASCII(t *testing.T) {
	data := []byte("P3\n2 1\n255\n255 255 255  10 20 30\n")

	img, err := DecodePPM(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodePPM failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel (1,0) = %v", got)
	}
}

func TestDecodePPMRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"wrong magic", []byte("P5\n1 1\n255\n\x00")},
		{"truncated pixels", encodeP6(4, 4, []color.NRGBA{{1, 2, 3, 255}})},
		{"bad maxval", []byte("P6\n1 1\n65535\n\x00\x00\x00")},
		{"zero dimensions", []byte("P6\n0 0\n255\n")},
		{"garbage header", []byte("not a raster at all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePPM(bytes.NewReader(tt.data)); err == nil {
				t.Error("DecodePPM accepted invalid input")
			}
		})
	}
}

func TestApplyTransparencySentinels(t *testing.T) {
	tests := []struct {
		name      string
		pixel     color.NRGBA
		wantAlpha uint8
	}{
		{"pure white is transparent", color.NRGBA{255, 255, 255, 255}, 0},
		{"pure black is transparent", color.NRGBA{0, 0, 0, 255}, 0},
		{"near-white stays opaque", color.NRGBA{254, 255, 255, 255}, 255},
		{"near-black stays opaque", color.NRGBA{1, 0, 0, 255}, 255},
		{"ramp color stays opaque", color.NRGBA{0, 160, 40, 255}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			img.SetNRGBA(0, 0, tt.pixel)

			out := ApplyTransparency(img)
			got := out.NRGBAAt(0, 0)
			if got.A != tt.wantAlpha {
				t.Errorf("alpha = %d, want %d", got.A, tt.wantAlpha)
			}
			// color channels are never altered
			if got.R != tt.pixel.R || got.G != tt.pixel.G || got.B != tt.pixel.B {
				t.Errorf("color changed: %v -> %v", tt.pixel, got)
			}
		})
	}
}

func TestApplyTransparencyLeavesInputUntouched(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})

	_ = ApplyTransparency(img)
	if img.NRGBAAt(0, 0).A != 255 {
		t.Error("input image must not be mutated")
	}
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	rasterPath := filepath.Join(dir, "site.ppm")
	pngPath := filepath.Join(dir, "site.png")

	data := encodeP6(2, 1, []color.NRGBA{
		{255, 255, 255, 255}, {0, 160, 40, 255},
	})
	if err := os.WriteFile(rasterPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewProcessor(false).Process(rasterPath, pngPath); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("final image missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("final image unreadable: %v", err)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		// png keeps NRGBA for images with alpha, but be tolerant of
		// the decoder's representation
		b := img.Bounds()
		nrgba = image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				nrgba.Set(x, y, img.At(x, y))
			}
		}
	}
	if a := nrgba.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("sentinel pixel alpha = %d, want 0", a)
	}
	if got := nrgba.NRGBAAt(1, 0); got != (color.NRGBA{0, 160, 40, 255}) {
		t.Errorf("ramp pixel = %v", got)
	}

	// intermediate raster is consumed by default
	if _, err := os.Stat(rasterPath); !os.IsNotExist(err) {
		t.Error("raw raster should have been deleted")
	}
}

func TestProcessKeepRaster(t *testing.T) {
	dir := t.TempDir()
	rasterPath := filepath.Join(dir, "site.ppm")
	data := encodeP6(1, 1, []color.NRGBA{{10, 20, 30, 255}})
	if err := os.WriteFile(rasterPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewProcessor(true).Process(rasterPath, filepath.Join(dir, "site.png")); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if _, err := os.Stat(rasterPath); err != nil {
		t.Error("raw raster should have been retained")
	}
}

func TestProcessConversionFailed(t *testing.T) {
	dir := t.TempDir()
	rasterPath := filepath.Join(dir, "corrupt.ppm")
	if err := os.WriteFile(rasterPath, []byte("P6\n2 2\n255\nxx"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewProcessor(false).Process(rasterPath, filepath.Join(dir, "out.png"))
	if !apperrors.IsKind(err, apperrors.KindConversion) {
		t.Fatalf("error kind = %s, want %s", apperrors.KindOf(err), apperrors.KindConversion)
	}

	err = NewProcessor(false).Process(filepath.Join(dir, "absent.ppm"), filepath.Join(dir, "out.png"))
	if !apperrors.IsKind(err, apperrors.KindConversion) {
		t.Fatalf("error kind = %s, want %s", apperrors.KindOf(err), apperrors.KindConversion)
	}
}
