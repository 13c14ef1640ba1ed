package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ingenium9/plum-assignment/dto"
)

// lineNumberRegex finds numeric substrings within a single line: digits with
// optional comma/space group separators and up to 2 decimal digits.
var lineNumberRegex = regexp.MustCompile(`\d+(?:[,\s]\d+)*(?:\.\d{1,2})?`)

const (
	variantPenalty  = 0.85 // keyword matched via an OCR-damaged spelling
	proximityBonus  = 0.05
	proximityWindow = 20 // max gap in bytes between keyword and number
	maxRuleScore    = 0.95
)

// RuleEngine classifies bill text into labeled amounts using the weighted
// keyword table. It is pure and deterministic: the first line that yields a
// candidate for a kind wins, later lines never override it.
type RuleEngine struct{}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

type lineCandidate struct {
	value float64
	score float64
}

// Classify scans the text line by line against the keyword table and emits
// at most one LabeledAmount per kind.
func (e *RuleEngine) Classify(text string) []dto.LabeledAmount {
	// Tabular OCR output uses pipes as column delimiters.
	normalized := strings.ReplaceAll(strings.ToLower(text), "|", "\n")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	var results []dto.LabeledAmount
	seen := make(map[dto.AmountKind]bool)

	for _, line := range lines {
		for _, kk := range AmountKeywords {
			if seen[kk.Kind] {
				continue
			}

			var best *lineCandidate
			for _, spec := range kk.Specs {
				if cand := e.matchSpec(line, spec); cand != nil {
					if best == nil || cand.score > best.score {
						best = cand
					}
				}
			}

			if best != nil {
				confidence := best.score
				if confidence > maxRuleScore {
					confidence = maxRuleScore
				}
				results = append(results, dto.LabeledAmount{
					Kind:       kk.Kind,
					Value:      best.value,
					Source:     line,
					Confidence: confidence,
				})
				seen[kk.Kind] = true
			}
		}
	}

	return results
}

// matchSpec tries one keyword spec against a line and returns the highest
// scoring numeric candidate, or nil if the keyword or a usable number is
// absent.
func (e *RuleEngine) matchSpec(line string, spec KeywordSpec) *lineCandidate {
	keyword := spec.Keyword
	viaVariant := false

	kwIdx := strings.Index(line, keyword)
	if kwIdx < 0 {
		for _, v := range spec.Variants {
			if idx := strings.Index(line, v); idx >= 0 {
				keyword, kwIdx, viaVariant = v, idx, true
				break
			}
		}
	}
	if kwIdx < 0 {
		return nil
	}

	// Bill lines put the label before the value, so numbers after the
	// keyword outrank numbers before it; the earlier high score wins ties.
	var bestAfter, bestBefore *lineCandidate
	for _, loc := range lineNumberRegex.FindAllStringIndex(line, -1) {
		numStr := line[loc[0]:loc[1]]
		cleaned := strings.Map(func(r rune) rune {
			if r == ',' || r == ' ' {
				return -1
			}
			return r
		}, numStr)

		numeric, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || numeric == 0 {
			continue
		}

		score := spec.Weight
		if viaVariant {
			score *= variantPenalty
		}
		if gap(kwIdx, kwIdx+len(keyword), loc[0], loc[1]) <= proximityWindow {
			score += proximityBonus
		}

		cand := &lineCandidate{value: numeric, score: score}
		if loc[0] >= kwIdx+len(keyword) {
			if bestAfter == nil || score > bestAfter.score {
				bestAfter = cand
			}
		} else if bestBefore == nil || score > bestBefore.score {
			bestBefore = cand
		}
	}

	if bestAfter != nil {
		return bestAfter
	}
	return bestBefore
}

// gap returns the distance between the nearest edges of the keyword span and
// the number span; 0 if they touch or overlap.
func gap(kwStart, kwEnd, numStart, numEnd int) int {
	if numStart >= kwEnd {
		return numStart - kwEnd
	}
	if kwStart >= numEnd {
		return kwStart - numEnd
	}
	return 0
}
