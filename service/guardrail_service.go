package service

import (
	"log"
	"math"

	"github.com/Ingenium9/plum-assignment/dto"
)

// GuardrailService applies the business-rule sanity checks. Ordered,
// short-circuit: the first failing check decides the status. Pure decision
// function, never mutates the amounts.
type GuardrailService struct{}

func NewGuardrailService() *GuardrailService {
	return &GuardrailService{}
}

func (s *GuardrailService) Validate(amounts []dto.LabeledAmount) dto.GuardrailResult {
	if len(amounts) == 0 {
		return dto.GuardrailResult{Status: dto.StatusNoAmountsFound, Reason: "document too noisy"}
	}

	total := amountValue(amounts, dto.KindTotalBill)
	paid := amountValue(amounts, dto.KindPaid)
	due := amountValue(amounts, dto.KindDue)

	if total == nil {
		return dto.GuardrailResult{Status: dto.StatusMissingTotal, Reason: "total amount missing"}
	}
	if *total < 0 {
		return dto.GuardrailResult{Status: dto.StatusInvalidTotal, Reason: "total cannot be negative"}
	}
	if paid != nil && *paid < 0 {
		return dto.GuardrailResult{Status: dto.StatusInvalidPaid, Reason: "paid cannot be negative"}
	}
	if due != nil && *due < 0 {
		return dto.GuardrailResult{Status: dto.StatusInvalidDue, Reason: "due cannot be negative"}
	}
	if paid != nil && *paid > *total {
		return dto.GuardrailResult{Status: dto.StatusInvalidPaid, Reason: "paid amount exceeds total"}
	}

	// Sum consistency only warns: a 1-unit tolerance absorbs rounding, and
	// anything beyond it still returns a valid result.
	if paid != nil && due != nil {
		if diff := math.Abs(*paid + *due - *total); diff > 1 {
			log.Printf("[Guardrail] Math inconsistency: total=%v paid=%v due=%v diff=%v",
				*total, *paid, *due, diff)
		}
	}

	return dto.GuardrailResult{IsValid: true}
}
