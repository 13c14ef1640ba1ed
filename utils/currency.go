package utils

import (
	"strings"

	"github.com/Ingenium9/plum-assignment/dto"
)

// DetectCurrency scans the raw text for currency markers. Periods are
// stripped from table symbols before matching so OCR output like "Rs"
// still hits "rs.". Indian medical bills default to INR.
func DetectCurrency(text string) dto.CurrencyDetection {
	lower := strings.ToLower(text)

	for _, entry := range CurrencyTable {
		for _, sym := range entry.Symbols {
			if strings.Contains(lower, strings.ReplaceAll(sym, ".", "")) {
				return dto.CurrencyDetection{
					Code:       entry.Code,
					Symbol:     sym,
					Confidence: entry.Weight,
				}
			}
		}
	}

	return dto.CurrencyDetection{Code: "INR", Confidence: 0.6}
}
