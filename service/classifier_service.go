package service

import (
	"context"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Ingenium9/plum-assignment/dto"
	"github.com/Ingenium9/plum-assignment/utils"
)

const (
	// ruleAcceptThreshold gates the fallback classifier: confident rule
	// results never pay the network cost. Coverage of two of the three
	// primary kinds (0.4 + 0.3) is enough to accept.
	ruleAcceptThreshold = 0.70

	// fallbackEmptyPenalty discounts a weak rule result that the fallback
	// could not improve on. A weak signal beats no signal.
	fallbackEmptyPenalty = 0.9
)

// FallbackClassifier is the generative collaborator consulted when the rule
// engine is weak. It may be slow, empty, or down.
type FallbackClassifier interface {
	Classify(ctx context.Context, text string) ([]dto.LabeledAmount, float64, error)
}

// FallbackState is the process-wide circuit breaker: once the fallback
// classifier fails, the service degrades to the internal pattern extractor
// until restart. Injected so tests can observe and reset it.
type FallbackState struct {
	unavailable atomic.Bool
}

func NewFallbackState() *FallbackState {
	return &FallbackState{}
}

func (s *FallbackState) MarkUnavailable() { s.unavailable.Store(true) }
func (s *FallbackState) Unavailable() bool { return s.unavailable.Load() }

// ClassifierService arbitrates between the rule engine and the fallback
// classifier, producing one amount set with a provenance tag.
type ClassifierService struct {
	ruleEngine *utils.RuleEngine
	fallback   FallbackClassifier
	state      *FallbackState
	patterns   *patternFallback
}

func NewClassifierService(fallback FallbackClassifier, state *FallbackState) *ClassifierService {
	return &ClassifierService{
		ruleEngine: utils.NewRuleEngine(),
		fallback:   fallback,
		state:      state,
		patterns:   newPatternFallback(),
	}
}

// computeRuleConfidence scores the rule result by coverage of the three
// primary kinds, with a bonus when the extracted numbers already add up.
func (s *ClassifierService) computeRuleConfidence(results []dto.LabeledAmount) float64 {
	score := 0.0

	total := dto.FindAmount(results, dto.KindTotalBill)
	paid := dto.FindAmount(results, dto.KindPaid)
	due := dto.FindAmount(results, dto.KindDue)

	if total != nil {
		score += 0.4
	}
	if paid != nil {
		score += 0.3
	}
	if due != nil {
		score += 0.3
	}

	if total != nil && paid != nil && due != nil &&
		toPaise(paid.Value)+toPaise(due.Value) == toPaise(total.Value) {
		score += 0.1
	}

	return math.Min(score, 0.95)
}

// Classify runs the rule engine and, only when its confidence is below the
// acceptance threshold, consults the fallback classifier.
func (s *ClassifierService) Classify(ctx context.Context, text string) dto.ClassificationResult {
	ruleResults := s.ruleEngine.Classify(text)
	ruleConfidence := s.computeRuleConfidence(ruleResults)

	if ruleConfidence >= ruleAcceptThreshold {
		return dto.ClassificationResult{
			Source:     dto.SourceRule,
			Amounts:    ruleResults,
			Confidence: ruleConfidence,
		}
	}

	log.Println("[Classifier] Rule result weak, consulting fallback")
	fbAmounts, fbConfidence := s.classifyFallback(ctx, text)

	if len(fbAmounts) == 0 {
		return dto.ClassificationResult{
			Source:     dto.SourceRule,
			Amounts:    ruleResults,
			Confidence: ruleConfidence * fallbackEmptyPenalty,
		}
	}

	// Prefer whichever classifier labeled at least as many distinct kinds;
	// ties go to the rule result for its auditable provenance.
	if len(ruleResults) > 0 && distinctKinds(ruleResults) >= distinctKinds(fbAmounts) {
		return dto.ClassificationResult{
			Source:     dto.SourceRule,
			Amounts:    ruleResults,
			Confidence: ruleConfidence,
		}
	}

	return dto.ClassificationResult{
		Source:     dto.SourceLLM,
		Amounts:    fbAmounts,
		Confidence: fbConfidence,
	}
}

// classifyFallback calls the generative classifier unless it already failed
// once in this process; any transport error trips the breaker and routes
// this and all later requests to the internal pattern extractor.
func (s *ClassifierService) classifyFallback(ctx context.Context, text string) ([]dto.LabeledAmount, float64) {
	if !s.state.Unavailable() {
		amounts, confidence, err := s.fallback.Classify(ctx, text)
		if err == nil {
			return amounts, confidence
		}
		log.Printf("[Classifier] Fallback unavailable, degrading permanently: %v", err)
		s.state.MarkUnavailable()
	}

	amounts := s.patterns.extract(text)
	confidence := 0.2
	switch {
	case len(amounts) >= 2:
		confidence = 0.75
	case len(amounts) == 1:
		confidence = 0.5
	}
	log.Printf("[Classifier] Internal pattern fallback extracted %d amounts", len(amounts))
	return amounts, confidence
}

func distinctKinds(amounts []dto.LabeledAmount) int {
	kinds := make(map[dto.AmountKind]bool, len(amounts))
	for _, a := range amounts {
		kinds[a.Kind] = true
	}
	return len(kinds)
}

func toPaise(v float64) int64 {
	return int64(math.Round(v * 100))
}

// patternFallback is the deterministic stand-in for the generative
// classifier, with its own independent pattern table.
type patternFallback struct {
	patterns []kindPatterns
}

type kindPatterns struct {
	kind    dto.AmountKind
	regexes []*regexp.Regexp
}

func newPatternFallback() *patternFallback {
	return &patternFallback{
		patterns: []kindPatterns{
			{
				kind: dto.KindTotalBill,
				regexes: []*regexp.Regexp{
					regexp.MustCompile(`(?i)(?:total|bill|payable|invoice|grand)[:\s]*(?:amount)?[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
					regexp.MustCompile(`(?i)(?:bill|invoice|grand)\s*(?:total|amount)[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
					regexp.MustCompile(`(?i)net\s*amount[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
				},
			},
			{
				kind: dto.KindPaid,
				regexes: []*regexp.Regexp{
					regexp.MustCompile(`(?i)(?:paid|payment|received|collected)[:\s]*(?:amount|done)?[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
					regexp.MustCompile(`(?i)amount\s*(?:paid|received)[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
					regexp.MustCompile(`(?i)(?:cash|advance)[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
				},
			},
			{
				kind: dto.KindDue,
				regexes: []*regexp.Regexp{
					regexp.MustCompile(`(?i)(?:balance|amount|pending|remaining|outstanding)[:\s]*(?:due|payable)?[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
					regexp.MustCompile(`(?i)due[:\s]*(?:amount)?[:\s]*(?:inr|rs\.?|₹)?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
				},
			},
		},
	}
}

func (p *patternFallback) extract(text string) []dto.LabeledAmount {
	normalized := strings.ToLower(text)

	var amounts []dto.LabeledAmount
	for _, kp := range p.patterns {
		for _, re := range kp.regexes {
			match := re.FindStringSubmatch(normalized)
			if len(match) < 2 {
				continue
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
			if err != nil {
				continue
			}
			amounts = append(amounts, dto.LabeledAmount{
				Kind:       kp.kind,
				Value:      value,
				Source:     match[0],
				Confidence: 0.8,
			})
			break
		}
	}
	return amounts
}
