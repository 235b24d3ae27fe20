// Package raster converts the engine's raw raster into the final
// transparency-masked coverage image.
package raster

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// DecodePPM reads a binary (P6) or ASCII (P3) PPM raster. The decode is
// lossless: every pixel keeps the exact channel values the engine wrote,
// so the palette's color-to-signal mapping survives conversion.
func DecodePPM(r io.Reader) (*image.NRGBA, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != "P6" && magic != "P3" {
		return nil, fmt.Errorf("unsupported PPM magic %q", magic)
	}

	width, err := readInt(br)
	if err != nil {
		return nil, fmt.Errorf("read width: %w", err)
	}
	height, err := readInt(br)
	if err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	}
	maxval, err := readInt(br)
	if err != nil {
		return nil, fmt.Errorf("read maxval: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("unsupported maxval %d (want 255)", maxval)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	if magic == "P6" {
		buf := make([]byte, width*height*3)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("read pixel data: %w", err)
		}
		for i := 0; i < width*height; i++ {
			img.Pix[i*4+0] = buf[i*3+0]
			img.Pix[i*4+1] = buf[i*3+1]
			img.Pix[i*4+2] = buf[i*3+2]
			img.Pix[i*4+3] = 255
		}
		return img, nil
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]int
			for c := 0; c < 3; c++ {
				v, err := readInt(br)
				if err != nil {
					return nil, fmt.Errorf("read pixel (%d,%d): %w", x, y, err)
				}
				if v < 0 || v > 255 {
					return nil, fmt.Errorf("pixel value %d out of range at (%d,%d)", v, x, y)
				}
				rgb[c] = v
			}
			img.SetNRGBA(x, y, color.NRGBA{uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2]), 255})
		}
	}
	return img, nil
}

// readToken returns the next whitespace-delimited token, skipping PPM
// comment lines.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	inComment := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		if inComment {
			if b == '\n' {
				inComment = false
			}
			continue
		}
		switch {
		case b == '#' && len(tok) == 0:
			inComment = true
		case isSpace(b):
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func readInt(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	n := 0
	if len(tok) == 0 {
		return 0, fmt.Errorf("empty numeric token")
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-numeric token %q", tok)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
