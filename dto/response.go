package dto

// Status codes returned by the pipeline. All failures are terminal.
const (
	StatusOK             = "ok"
	StatusNoAmountsFound = "no_amounts_found"
	StatusMissingTotal   = "missing_total"
	StatusInvalidTotal   = "invalid_total"
	StatusInvalidPaid    = "invalid_paid"
	StatusInvalidDue     = "invalid_due"
	StatusBadRequest     = "bad_request"
	StatusError          = "error"
)

// AmountEntry is the public view of a LabeledAmount (confidence is reported
// only in the verbose breakdown, not per amount).
type AmountEntry struct {
	Kind   AmountKind `json:"type"`
	Value  float64    `json:"value"`
	Source string     `json:"source"`
}

// ConfidenceBreakdown exposes the four upstream signals behind the composite
// confidence.
type ConfidenceBreakdown struct {
	OCR            float64 `json:"ocr"`
	Classification float64 `json:"classification"`
	Normalization  float64 `json:"normalization"`
	Reasoning      float64 `json:"reasoning"`
}

// ProcessResponse is the success payload. Verbose fields are omitted unless
// requested.
type ProcessResponse struct {
	Status   string        `json:"status"`
	Currency string        `json:"currency"`
	Amounts  []AmountEntry `json:"amounts"`

	ClassificationSource ClassificationSource   `json:"classification_source,omitempty"`
	Confidence           float64                `json:"confidence,omitempty"`
	Breakdown            *ConfidenceBreakdown   `json:"confidence_breakdown,omitempty"`
	IntermediateSteps    map[string]interface{} `json:"intermediate_steps,omitempty"`
}

// ErrorResponse is returned for every non-ok status.
type ErrorResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
