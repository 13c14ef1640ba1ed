package service

import (
	"context"
	"math"

	"github.com/Ingenium9/plum-assignment/dto"
	"github.com/Ingenium9/plum-assignment/utils"
)

// Composite confidence weights over the four upstream signals.
const (
	weightReasoning      = 0.3
	weightOCR            = 0.2
	weightClassification = 0.3
	weightNormalization  = 0.2
)

// BillService runs the extraction pipeline over raw bill text:
// normalization and currency detection, arbitrated classification, gap
// inference, guardrails, composite confidence.
type BillService struct {
	classifier *ClassifierService
	reasoning  *ReasoningService
	guardrail  *GuardrailService
}

func NewBillService(
	classifier *ClassifierService,
	reasoning *ReasoningService,
	guardrail *GuardrailService,
) *BillService {
	return &BillService{
		classifier: classifier,
		reasoning:  reasoning,
		guardrail:  guardrail,
	}
}

// ProcessInput is the pipeline input after transport/OCR concerns are done.
type ProcessInput struct {
	RawText       string
	RawTokens     []string
	OCRConfidence float64
	QRHint        *dto.QRHint
	Verbose       bool
}

// Process runs the full pipeline. A non-nil ErrorResponse means a terminal
// validation failure; no partial results are ever returned as ok.
func (s *BillService) Process(ctx context.Context, input ProcessInput) (*dto.ProcessResponse, *dto.ErrorResponse) {
	steps := make(map[string]interface{})

	if input.Verbose {
		steps["step1_ocr"] = map[string]interface{}{
			"raw_tokens":    input.RawTokens,
			"currency_hint": "INR",
			"confidence":    round3(input.OCRConfidence),
		}
		if input.QRHint != nil {
			steps["step1_qr_hint"] = input.QRHint
		}
	}

	currency := utils.DetectCurrency(input.RawText)
	if input.QRHint != nil && input.QRHint.Currency != "" {
		// The QR payload states the currency outright
		currency = dto.CurrencyDetection{
			Code:       input.QRHint.Currency,
			Confidence: 0.95,
		}
	}

	normalization := utils.NormalizeText(input.RawText)
	if input.Verbose {
		values := make([]float64, 0, len(normalization.Tokens))
		for _, t := range normalization.Tokens {
			values = append(values, t.Numeric)
		}
		steps["step2_normalization"] = map[string]interface{}{
			"normalized_amounts":       values,
			"normalization_confidence": round3(normalization.Confidence),
		}
	}

	classification := s.classifier.Classify(ctx, input.RawText)
	if input.Verbose {
		kinds := make([]map[string]interface{}, 0, len(classification.Amounts))
		for _, a := range classification.Amounts {
			kinds = append(kinds, map[string]interface{}{
				"type":  a.Kind,
				"value": a.Value,
			})
		}
		steps["step3_classification"] = map[string]interface{}{
			"amounts":    kinds,
			"confidence": round3(classification.Confidence),
		}
	}

	reasoned := s.reasoning.Infer(classification.Amounts)

	verdict := s.guardrail.Validate(reasoned.Amounts)
	if !verdict.IsValid {
		return nil, &dto.ErrorResponse{Status: verdict.Status, Reason: verdict.Reason}
	}

	finalConfidence := round3(
		reasoned.Confidence*weightReasoning +
			input.OCRConfidence*weightOCR +
			classification.Confidence*weightClassification +
			normalization.Confidence*weightNormalization,
	)

	amounts := make([]dto.AmountEntry, 0, len(reasoned.Amounts))
	for _, a := range reasoned.Amounts {
		amounts = append(amounts, dto.AmountEntry{
			Kind:   a.Kind,
			Value:  a.Value,
			Source: a.Source,
		})
	}

	response := &dto.ProcessResponse{
		Status:   dto.StatusOK,
		Currency: currency.Code,
		Amounts:  amounts,
	}

	if input.Verbose {
		response.ClassificationSource = classification.Source
		response.Confidence = finalConfidence
		response.Breakdown = &dto.ConfidenceBreakdown{
			OCR:            round3(input.OCRConfidence),
			Classification: round3(classification.Confidence),
			Normalization:  round3(normalization.Confidence),
			Reasoning:      round3(reasoned.Confidence),
		}
		response.IntermediateSteps = steps
	}

	return response, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
