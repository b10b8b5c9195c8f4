// Package qrdecode normalizes arbitrary image input into a pixel buffer and
// extracts the QR payload string through a pluggable symbol decoder.
package qrdecode

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Image is the pixel buffer contract the symbol decoder consumes: Data holds
// width*height RGBA quads.
type Image struct {
	Width  int
	Height int
	Data   []byte
}

// SymbolDecoder is anything that maps a pixel buffer to the encoded string,
// or ErrSymbolNotFound when no QR symbol is present.
type SymbolDecoder interface {
	DecodeSymbol(ctx context.Context, img Image) (string, error)
}

// Decoder adapts raw or base64 image input for a SymbolDecoder. It keeps no
// state across calls.
type Decoder struct {
	symbols SymbolDecoder
}

// New creates a Decoder over the given symbol decoder.
func New(symbols SymbolDecoder) (*Decoder, error) {
	if symbols == nil {
		return nil, fmt.Errorf("symbol decoder is required")
	}
	return &Decoder{symbols: symbols}, nil
}

const dataURLMarker = ";base64,"

// DecodeString accepts a data URL or a bare base64 string and decodes the QR
// payload from the encoded image bytes.
func (d *Decoder) DecodeString(ctx context.Context, input string) (string, error) {
	if idx := strings.Index(input, dataURLMarker); idx >= 0 && strings.HasPrefix(input, "data:") {
		input = input[idx+len(dataURLMarker):]
	}
	raw, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return "", NewDecodeError("invalid base64 image input", err)
	}
	return d.Decode(ctx, raw)
}

// Decode extracts the QR payload from a raw uncompressed square RGBA buffer.
// The square-side inference exists because the buffer carries no dimensions;
// a buffer that cannot be a square RGBA image is rejected up front.
func (d *Decoder) Decode(ctx context.Context, raw []byte) (string, error) {
	img, err := squareRGBA(raw)
	if err != nil {
		return "", err
	}

	payload, err := d.symbols.DecodeSymbol(ctx, img)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return "", NewDecodeError("no code found", nil)
		}
		return "", NewDecodeError("symbol decoder failed", err)
	}
	return payload, nil
}

// squareRGBA interprets raw as a width*height*4 buffer with width == height.
func squareRGBA(raw []byte) (Image, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return Image{}, NewDecodeError("image buffer is not raw RGBA", nil)
	}
	side := int(math.Sqrt(float64(len(raw) / 4)))
	if side*side*4 != len(raw) {
		return Image{}, NewDecodeError("image buffer is not a square RGBA image", nil)
	}
	return Image{Width: side, Height: side, Data: raw}, nil
}
