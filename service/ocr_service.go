package service

import (
	"image"
	"image/png"
	"io"
	"log"
	"mime/multipart"
	"os"
	"strings"

	"github.com/Ingenium9/plum-assignment/client"
	"github.com/Ingenium9/plum-assignment/dto"
	"github.com/Ingenium9/plum-assignment/utils"
)

// OCRService turns an uploaded bill (image or PDF) into raw text plus a raw
// confidence score, and opportunistically decodes a UPI QR code when the
// upload is an image.
type OCRService struct {
	tesseractClient *client.TesseractClient
	pdfProcessor    PDFProcessor
	qrClient        *client.QRClient
}

func NewOCRService(
	tesseractClient *client.TesseractClient,
	pdfProcessor PDFProcessor,
	qrClient *client.QRClient,
) *OCRService {
	return &OCRService{
		tesseractClient: tesseractClient,
		pdfProcessor:    pdfProcessor,
		qrClient:        qrClient,
	}
}

// Extract runs OCR on the uploaded file. Returns dto.ErrNoAmountsFound when
// the document produced no numeric tokens at all; that status is terminal.
func (s *OCRService) Extract(fileHeader *multipart.FileHeader) (*dto.OCRResult, *dto.QRHint, error) {
	var (
		text   string
		conf   float64
		qrHint *dto.QRHint
	)

	isPDF := strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf")
	if isPDF {
		var err error
		text, conf, err = s.extractFromPDF(fileHeader)
		if err != nil {
			return nil, nil, err
		}
	} else {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, nil, err
		}
		tempFile, err := s.tesseractClient.CreateTempFile(f, fileHeader.Filename)
		f.Close()
		if err != nil {
			return nil, nil, err
		}
		defer os.Remove(tempFile)

		text, conf, err = s.tesseractClient.ExtractFromFile(tempFile)
		if err != nil {
			return nil, nil, err
		}

		// Best effort: a payment QR on the bill carries the exact amount
		if hint, qrErr := s.qrClient.DecodeFile(tempFile); qrErr == nil && hint != nil {
			log.Printf("[OCR] UPI QR hint found: amount=%.2f currency=%s", hint.Amount, hint.Currency)
			qrHint = hint
		}
	}

	rawTokens := utils.ExtractNumberRegex.FindAllString(text, -1)
	if len(rawTokens) == 0 {
		return nil, nil, dto.ErrNoAmountsFound
	}

	if conf == 0 {
		conf = 60.0
	}

	return &dto.OCRResult{
		RawText:    text,
		RawTokens:  rawTokens,
		Confidence: conf / 100.0,
	}, qrHint, nil
}

// extractFromPDF reads a text-based PDF directly and falls back to OCR over
// the embedded page images when the PDF is a scan.
func (s *OCRService) extractFromPDF(fileHeader *multipart.FileHeader) (string, float64, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	pdfData, err := io.ReadAll(f)
	if err != nil {
		return "", 0, err
	}

	text, err := s.pdfProcessor.ExtractText(pdfData)
	if err != nil {
		log.Printf("[OCR] PDF text extraction failed for %s: %v", fileHeader.Filename, err)
	}
	if len(strings.TrimSpace(text)) >= 20 {
		// Vector PDF, no OCR uncertainty
		return text, 100.0, nil
	}

	log.Printf("[OCR] PDF %s looks scanned, running OCR over page images", fileHeader.Filename)

	images, err := s.pdfProcessor.ExtractImages(pdfData)
	if err != nil || len(images) == 0 {
		return "", 0, dto.ErrNoAmountsFound
	}

	var combined strings.Builder
	var totalConf float64
	var pageCount int

	for _, img := range images {
		tempImgFile, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("[OCR] Failed to save page image: %v", err)
			continue
		}

		pageText, pageConf, ocrErr := s.tesseractClient.ExtractFromFile(tempImgFile)
		os.Remove(tempImgFile)
		if ocrErr != nil {
			log.Printf("[OCR] OCR failed for a page in %s: %v", fileHeader.Filename, ocrErr)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConf += pageConf
		pageCount++
	}

	if pageCount == 0 {
		return "", 0, dto.ErrNoAmountsFound
	}

	return combined.String(), totalConf / float64(pageCount), nil
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "bill-page-*.png")
	if err != nil {
		return "", err
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}

	return tempFile.Name(), nil
}
