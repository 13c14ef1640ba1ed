package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ingenium9/plum-assignment/dto"
)

// ExtractNumberRegex matches number-shaped tokens: optional currency prefix
// (₹, Rs., INR), digits with comma/space group separators, up to 2 decimal
// digits, optional trailing /- or %.
//
// Examples: "Rs 1200", "Rs. 1200/-", "INR 1200.50", "₹1,200", "10%", "1200"
var ExtractNumberRegex = regexp.MustCompile(`(?i)(?:₹|rs\.?\s*|inr\s*)?\s*(\d+(?:[,\s]\d+)*(?:\.\d{1,2})?)\s*(?:/-|%)?`)

// ocrDigitFixes maps characters tesseract commonly misreads inside numbers
// back to the digit they stand for.
var ocrDigitFixes = map[rune]rune{
	'O': '0', 'o': '0',
	'l': '1', 'L': '1', 'i': '1', 'I': '1',
	's': '5', 'S': '5',
	'b': '8', 'B': '8',
}

// NormalizeDigits repairs OCR-mangled characters in a numeric token and
// parses it. The confidence is a fixed additive heuristic: base 0.6, +0.2 if
// the token parsed to a non-negative number, +0.1 if an OCR fix fired, +0.05
// if the token carried a percent sign, capped at 0.95.
func NormalizeDigits(token string) dto.DigitNormalization {
	isPercent := strings.Contains(token, "%")

	hadOCRFix := false
	fixed := strings.Map(func(r rune) rune {
		if d, ok := ocrDigitFixes[r]; ok {
			hadOCRFix = true
			return d
		}
		return r
	}, token)

	cleaned := strings.NewReplacer(
		"₹", "", "$", "", "£", "", "€", "",
		",", "",
		"%", "",
	).Replace(fixed)
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "/-")
	cleaned = strings.Join(strings.Fields(cleaned), "")

	var numeric *float64
	if cleaned != "" {
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			numeric = &v
		}
	}
	isValid := numeric != nil && *numeric >= 0

	confidence := 0.6
	if isValid {
		confidence += 0.2
	}
	if hadOCRFix {
		confidence += 0.1
	}
	if isPercent {
		confidence += 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	return dto.DigitNormalization{
		Original:   token,
		Cleaned:    cleaned,
		Numeric:    numeric,
		IsPercent:  isPercent,
		HadOCRFix:  hadOCRFix,
		IsValid:    isValid,
		Confidence: confidence,
	}
}

// NormalizeText extracts every number-shaped token from the raw document
// text, normalizes each independently, and reports the arithmetic mean of
// the per-token confidences. A document with no tokens scores 0.0.
func NormalizeText(text string) dto.NormalizationResult {
	matches := ExtractNumberRegex.FindAllString(text, -1)

	tokens := make([]dto.NormalizedToken, 0, len(matches))
	var sum float64
	for _, raw := range matches {
		norm := NormalizeDigits(strings.TrimSpace(raw))

		var numeric float64
		if norm.Numeric != nil {
			numeric = *norm.Numeric
		}
		tokens = append(tokens, dto.NormalizedToken{
			Original:   norm.Original,
			Cleaned:    norm.Cleaned,
			Numeric:    numeric,
			IsPercent:  norm.IsPercent,
			HadOCRFix:  norm.HadOCRFix,
			Confidence: norm.Confidence,
		})
		sum += norm.Confidence
	}

	confidence := 0.0
	if len(tokens) > 0 {
		confidence = sum / float64(len(tokens))
	}

	return dto.NormalizationResult{Tokens: tokens, Confidence: confidence}
}
