package qrdecode

import (
	"context"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ZXingDecoder reads QR symbols with the gozxing port of ZXing. It is the
// production SymbolDecoder; tests substitute fakes behind the interface.
type ZXingDecoder struct {
	reader gozxing.Reader
}

// NewZXing creates a gozxing-backed symbol decoder.
func NewZXing() *ZXingDecoder {
	return &ZXingDecoder{reader: qrcode.NewQRCodeReader()}
}

// DecodeSymbol scans the pixel buffer for a QR symbol. Any reader failure is
// reported as ErrSymbolNotFound since gozxing does not distinguish an absent
// symbol from an unreadable one in a way callers can act on.
func (z *ZXingDecoder) DecodeSymbol(_ context.Context, img Image) (string, error) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(nrgba.Pix, img.Data)

	source := gozxing.NewLuminanceSourceFromImage(nrgba)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return "", ErrSymbolNotFound
	}

	result, err := z.reader.Decode(bitmap, nil)
	if err != nil {
		return "", ErrSymbolNotFound
	}
	return result.GetText(), nil
}
