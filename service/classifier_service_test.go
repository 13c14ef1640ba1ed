package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Ingenium9/plum-assignment/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFallback records calls so tests can observe whether the network
// classifier was consulted.
type fakeFallback struct {
	amounts    []dto.LabeledAmount
	confidence float64
	err        error
	calls      int
}

func (f *fakeFallback) Classify(ctx context.Context, text string) ([]dto.LabeledAmount, float64, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.amounts, f.confidence, nil
}

func TestClassifyConfidentRuleSkipsFallback(t *testing.T) {
	fallback := &fakeFallback{}
	svc := NewClassifierService(fallback, NewFallbackState())

	result := svc.Classify(context.Background(), "Total: Rs 1200 Paid: 500")

	assert.Equal(t, dto.SourceRule, result.Source)
	assert.GreaterOrEqual(t, result.Confidence, 0.7)
	assert.Equal(t, 0, fallback.calls, "fallback must not be invoked when rules are confident")

	total := dto.FindAmount(result.Amounts, dto.KindTotalBill)
	require.NotNil(t, total)
	assert.Equal(t, 1200.0, total.Value)
}

func TestClassifyConsistencyBonus(t *testing.T) {
	svc := NewClassifierService(&fakeFallback{}, NewFallbackState())

	amounts := []dto.LabeledAmount{
		{Kind: dto.KindTotalBill, Value: 1200},
		{Kind: dto.KindPaid, Value: 500},
		{Kind: dto.KindDue, Value: 700},
	}

	// 0.4 + 0.3 + 0.3 + 0.1 consistency bonus, capped at 0.95
	assert.InDelta(t, 0.95, svc.computeRuleConfidence(amounts), 1e-9)
}

func TestClassifyCoverageScore(t *testing.T) {
	svc := NewClassifierService(&fakeFallback{}, NewFallbackState())

	assert.InDelta(t, 0.4, svc.computeRuleConfidence([]dto.LabeledAmount{
		{Kind: dto.KindTotalBill, Value: 1200},
	}), 1e-9)

	assert.InDelta(t, 0.7, svc.computeRuleConfidence([]dto.LabeledAmount{
		{Kind: dto.KindTotalBill, Value: 1200},
		{Kind: dto.KindPaid, Value: 500},
	}), 1e-9)

	// Tax and discount never contribute coverage
	assert.InDelta(t, 0.0, svc.computeRuleConfidence([]dto.LabeledAmount{
		{Kind: dto.KindTax, Value: 80},
		{Kind: dto.KindDiscount, Value: 100},
	}), 1e-9)
}

func TestClassifyWeakRulePrefersRicherFallback(t *testing.T) {
	fallback := &fakeFallback{
		amounts: []dto.LabeledAmount{
			{Kind: dto.KindTotalBill, Value: 1200, Source: "Bill Amount", Confidence: 0.9},
			{Kind: dto.KindPaid, Value: 500, Source: "Payment Done", Confidence: 0.9},
			{Kind: dto.KindDue, Value: 700, Source: "Pending", Confidence: 0.9},
		},
		confidence: 0.9,
	}
	svc := NewClassifierService(fallback, NewFallbackState())

	// Only a due keyword: rule confidence 0.3, below threshold
	result := svc.Classify(context.Background(), "Pending 700")

	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, dto.SourceLLM, result.Source)
	assert.Len(t, result.Amounts, 3)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestClassifyTieFavorsRule(t *testing.T) {
	fallback := &fakeFallback{
		amounts: []dto.LabeledAmount{
			{Kind: dto.KindDue, Value: 999, Source: "Pending", Confidence: 0.9},
		},
		confidence: 0.6,
	}
	svc := NewClassifierService(fallback, NewFallbackState())

	result := svc.Classify(context.Background(), "Pending 700")

	assert.Equal(t, dto.SourceRule, result.Source)
	due := dto.FindAmount(result.Amounts, dto.KindDue)
	require.NotNil(t, due)
	assert.Equal(t, 700.0, due.Value)
}

func TestClassifyEmptyFallbackKeepsDiscountedRule(t *testing.T) {
	fallback := &fakeFallback{confidence: 0.3}
	svc := NewClassifierService(fallback, NewFallbackState())

	result := svc.Classify(context.Background(), "Pending 700")

	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, dto.SourceRule, result.Source)
	require.Len(t, result.Amounts, 1)
	// rule confidence 0.3 discounted by 0.9
	assert.InDelta(t, 0.27, result.Confidence, 1e-9)
}

func TestClassifyFallbackErrorDegradesPermanently(t *testing.T) {
	fallback := &fakeFallback{err: errors.New("connection refused")}
	state := NewFallbackState()
	svc := NewClassifierService(fallback, state)

	first := svc.Classify(context.Background(), "Pending 700")
	assert.Equal(t, 1, fallback.calls)
	assert.True(t, state.Unavailable())
	assert.NotEmpty(t, first.Amounts)

	// Second request must not attempt the network call again
	svc.Classify(context.Background(), "Pending 700")
	assert.Equal(t, 1, fallback.calls)
}

func TestPatternFallbackExtract(t *testing.T) {
	patterns := newPatternFallback()

	amounts := patterns.extract("Invoice Total: Rs 1,200.00\nCash 500")

	total := dto.FindAmount(amounts, dto.KindTotalBill)
	require.NotNil(t, total)
	assert.Equal(t, 1200.0, total.Value)

	paid := dto.FindAmount(amounts, dto.KindPaid)
	require.NotNil(t, paid)
	assert.Equal(t, 500.0, paid.Value)
}

func TestPatternFallbackGenericAmountIsNotTotal(t *testing.T) {
	patterns := newPatternFallback()

	amounts := patterns.extract("Amount 200")

	assert.Nil(t, dto.FindAmount(amounts, dto.KindTotalBill))
}
