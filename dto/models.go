package dto

type AmountKind string

const (
	KindTotalBill AmountKind = "total_bill"
	KindPaid      AmountKind = "paid"
	KindDue       AmountKind = "due"
	KindDiscount  AmountKind = "discount"
	KindTax       AmountKind = "tax"
	KindOther     AmountKind = "other"
)

// SourceInferred marks values computed by the reasoning stage rather than
// read off a document line.
const SourceInferred = "inferred"

// LabeledAmount is one extracted or inferred monetary fact. At most one
// survives per kind after classification; never mutated after guardrails.
type LabeledAmount struct {
	Kind       AmountKind `json:"type"`
	Value      float64    `json:"value"`
	Source     string     `json:"source"`
	Confidence float64    `json:"confidence"`
}

// FindAmount returns the entry for the given kind, or nil.
func FindAmount(amounts []LabeledAmount, kind AmountKind) *LabeledAmount {
	for i := range amounts {
		if amounts[i].Kind == kind {
			return &amounts[i]
		}
	}
	return nil
}

// DigitNormalization is the result of repairing and parsing a single token.
type DigitNormalization struct {
	Original   string
	Cleaned    string
	Numeric    *float64
	IsPercent  bool
	HadOCRFix  bool
	IsValid    bool
	Confidence float64
}

// NormalizedToken is the document-level view of one numeric token.
type NormalizedToken struct {
	Original   string  `json:"original"`
	Cleaned    string  `json:"cleaned"`
	Numeric    float64 `json:"numeric"`
	IsPercent  bool    `json:"is_percent"`
	HadOCRFix  bool    `json:"had_ocr_fix"`
	Confidence float64 `json:"confidence"`
}

// NormalizationResult aggregates all numeric tokens found in a document.
type NormalizationResult struct {
	Tokens     []NormalizedToken
	Confidence float64
}

// CurrencyDetection records the currency marker found in the raw text.
type CurrencyDetection struct {
	Code       string  `json:"code"`
	Symbol     string  `json:"symbol,omitempty"`
	Confidence float64 `json:"confidence"`
}

type ClassificationSource string

const (
	SourceRule ClassificationSource = "rule"
	SourceLLM  ClassificationSource = "llm"
)

// ClassificationResult is the arbitrated amount set with its provenance.
type ClassificationResult struct {
	Source     ClassificationSource `json:"source"`
	Amounts    []LabeledAmount      `json:"amounts"`
	Confidence float64              `json:"confidence"`
}

// ReasoningResult carries the amount set after gap-filling.
type ReasoningResult struct {
	Amounts    []LabeledAmount
	Confidence float64
}

// GuardrailResult is the validation verdict. Status and Reason are set only
// when IsValid is false.
type GuardrailResult struct {
	IsValid bool
	Status  string
	Reason  string
}

// OCRResult is the OCR collaborator output for one document.
type OCRResult struct {
	RawText    string
	RawTokens  []string
	Confidence float64
}

// QRHint is a best-effort payment hint decoded from a UPI QR code printed
// on the bill.
type QRHint struct {
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Payee    string  `json:"payee,omitempty"`
}
