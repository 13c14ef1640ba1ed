package client

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/Ingenium9/plum-assignment/dto"
)

// QRClient decodes UPI payment QR codes printed on bills. The embedded
// upi:// URI often carries the exact payable amount (am=) and currency (cu=),
// which is a strong hint alongside OCR.
type QRClient struct{}

func NewQRClient() *QRClient {
	return &QRClient{}
}

// DecodeFile scans an image file for a QR code and parses a UPI hint out of
// it. Returns nil when no QR code or no UPI URI is present.
func (q *QRClient) DecodeFile(filePath string) (*dto.QRHint, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return q.Decode(img)
}

// Decode scans a decoded image for a QR code.
func (q *QRClient) Decode(img image.Image) (*dto.QRHint, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	qrReader := qrcode.NewQRCodeReader()
	result, err := qrReader.Decode(bmp, nil)
	if err != nil {
		// Most bills have no QR code at all
		return nil, nil
	}

	return ParseUPIHint(result.GetText()), nil
}

// ParseUPIHint extracts amount/currency/payee from a upi://pay URI. Returns
// nil for non-UPI QR payloads.
func ParseUPIHint(text string) *dto.QRHint {
	if !strings.HasPrefix(strings.ToLower(text), "upi://") {
		return nil
	}

	u, err := url.Parse(text)
	if err != nil {
		return nil
	}

	params := u.Query()
	hint := &dto.QRHint{
		Currency: strings.ToUpper(params.Get("cu")),
		Payee:    params.Get("pn"),
	}
	if am := params.Get("am"); am != "" {
		if v, err := strconv.ParseFloat(am, 64); err == nil && v > 0 {
			hint.Amount = v
		}
	}

	if hint.Amount == 0 && hint.Currency == "" && hint.Payee == "" {
		return nil
	}
	return hint
}
