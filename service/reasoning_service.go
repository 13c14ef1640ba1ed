package service

import (
	"log"
	"regexp"
	"strconv"

	"github.com/Ingenium9/plum-assignment/dto"
)

var percentRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// ReasoningService fills at most one missing field among total/paid/due via
// exact paise arithmetic, and resolves percentage-form discounts against the
// total. All stages are pure; confidence is a fixed additive heuristic.
type ReasoningService struct{}

func NewReasoningService() *ReasoningService {
	return &ReasoningService{}
}

// Infer returns every known field, with source "inferred" on computed ones.
// Every emitted entry shares the final reasoning confidence.
func (s *ReasoningService) Infer(input []dto.LabeledAmount) dto.ReasoningResult {
	total := amountValue(input, dto.KindTotalBill)
	paid := amountValue(input, dto.KindPaid)
	due := amountValue(input, dto.KindDue)
	discount := amountValue(input, dto.KindDiscount)
	tax := amountValue(input, dto.KindTax)

	confidence := 0.7

	// A discount classified without a usable value but whose source line
	// reads like "10%" is resolved against the total before gap filling.
	discountItem := dto.FindAmount(input, dto.KindDiscount)
	if discountItem != nil && (discount == nil || *discount == 0) && total != nil {
		if m := percentRegex.FindStringSubmatch(discountItem.Source); m != nil {
			percent, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				resolved := percent / 100 * *total
				discount = &resolved
				confidence += 0.05
				log.Printf("[Reasoning] Resolved discount from %v%%: %v", percent, resolved)
			}
		}
	}

	tp := toPaisePtr(total)
	pp := toPaisePtr(paid)
	dp := toPaisePtr(due)
	discPaise := int64(0)
	if d := toPaisePtr(discount); d != nil {
		discPaise = *d
	}

	// A negative inference means the observed fields are inconsistent;
	// the value is discarded and guardrails judge the observed fields.
	inferredDue, inferredPaid, inferredTotal := false, false, false
	switch {
	case tp != nil && pp != nil && dp == nil:
		if v := *tp - *pp - discPaise; v >= 0 {
			due = fromPaise(v)
			inferredDue = true
			confidence += 0.1
			log.Printf("[Reasoning] Inferred due: %v", *due)
		} else {
			log.Printf("[Reasoning] Discarding negative inferred due: %v", float64(v)/100)
		}
	case tp != nil && dp != nil && pp == nil:
		if v := *tp - *dp - discPaise; v >= 0 {
			paid = fromPaise(v)
			inferredPaid = true
			confidence += 0.1
			log.Printf("[Reasoning] Inferred paid: %v", *paid)
		} else {
			log.Printf("[Reasoning] Discarding negative inferred paid: %v", float64(v)/100)
		}
	case pp != nil && dp != nil && tp == nil:
		v := *pp + *dp + discPaise
		total = fromPaise(v)
		inferredTotal = true
		confidence += 0.1
		log.Printf("[Reasoning] Inferred total: %v", *total)
	}

	var output []dto.LabeledAmount
	emit := func(kind dto.AmountKind, value *float64, inferred bool) {
		if value == nil {
			return
		}
		source := dto.SourceInferred
		if !inferred {
			source = amountSource(input, kind)
		}
		output = append(output, dto.LabeledAmount{
			Kind:       kind,
			Value:      *value,
			Source:     source,
			Confidence: confidence,
		})
	}

	emit(dto.KindTotalBill, total, inferredTotal)
	emit(dto.KindPaid, paid, inferredPaid)
	emit(dto.KindDue, due, inferredDue)

	if discount != nil && *discount > 0 {
		output = append(output, dto.LabeledAmount{
			Kind:       dto.KindDiscount,
			Value:      *discount,
			Source:     amountSource(input, dto.KindDiscount),
			Confidence: confidence,
		})
	}
	if tax != nil && *tax > 0 {
		output = append(output, dto.LabeledAmount{
			Kind:       dto.KindTax,
			Value:      *tax,
			Source:     amountSource(input, dto.KindTax),
			Confidence: confidence,
		})
	}

	return dto.ReasoningResult{Amounts: output, Confidence: confidence}
}

func amountValue(amounts []dto.LabeledAmount, kind dto.AmountKind) *float64 {
	if a := dto.FindAmount(amounts, kind); a != nil {
		v := a.Value
		return &v
	}
	return nil
}

func amountSource(amounts []dto.LabeledAmount, kind dto.AmountKind) string {
	if a := dto.FindAmount(amounts, kind); a != nil {
		return a.Source
	}
	return dto.SourceInferred
}

func toPaisePtr(v *float64) *int64 {
	if v == nil {
		return nil
	}
	p := toPaise(*v)
	return &p
}

func fromPaise(p int64) *float64 {
	v := float64(p) / 100
	return &v
}
