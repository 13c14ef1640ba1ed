package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ingenium9/plum-assignment/dto"
)

// OllamaClient asks a local generative model to label the amounts the rule
// engine could not classify confidently. It is slow and may be down; callers
// are expected to treat any returned error as "fallback unavailable".
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3:8b"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Classify sends the bill text to the model and parses the labeled amounts
// out of its reply. An empty amount slice with a nil error means the model
// answered but found nothing usable.
func (o *OllamaClient) Classify(ctx context.Context, text string) ([]dto.LabeledAmount, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	reqBody := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: buildClassifyPrompt(text),
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.1,
			"num_predict": 1024,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var generated ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return nil, 0, fmt.Errorf("decoding ollama response: %w", err)
	}

	amounts, outcome := ParseAmountsJSON(generated.Response)
	if outcome == ParseFailed {
		log.Println("[LLM] No parsable JSON in model output")
		return nil, 0.3, nil
	}
	if outcome == ParseRepaired {
		log.Println("[LLM] Model output was truncated, repaired JSON")
	}

	confidence := 0.3
	switch {
	case len(amounts) >= 2:
		confidence = 0.9
	case len(amounts) == 1:
		confidence = 0.6
	}

	log.Printf("[LLM] Extracted %d amounts via ollama", len(amounts))
	return amounts, confidence, nil
}

func buildClassifyPrompt(text string) string {
	return `Extract ALL financial amounts from this text and return as JSON.

TEXT: ` + text + `

Find every amount and classify each one:
- Words like "bill", "total", "amount" -> type: "total_bill"
- Words like "paid", "payment", "received" -> type: "paid"
- Words like "due", "pending", "balance", "remaining" -> type: "due"
- Words like "discount" -> type: "discount"
- Words like "tax", "gst" -> type: "tax"

Return this EXACT JSON format (complete all arrays, no truncation):

{
  "amounts": [
    {"type": "total_bill", "value": 1200, "source": "Bill Amount"},
    {"type": "paid", "value": 500, "source": "Payment Done"},
    {"type": "due", "value": 700, "source": "Pending"}
  ]
}

CRITICAL: Return the complete JSON with ALL amounts found. Do not truncate.

JSON:`
}

// ParseOutcome says how the model's JSON reply was recovered.
type ParseOutcome int

const (
	ParseOK ParseOutcome = iota
	ParseRepaired
	ParseFailed
)

type fallbackAmount struct {
	Kind   dto.AmountKind `json:"type"`
	Value  interface{}    `json:"value"`
	Source string         `json:"source"`
}

type fallbackPayload struct {
	Amounts []fallbackAmount `json:"amounts"`
}

// ParseAmountsJSON extracts labeled amounts from free-form model output.
// Markdown fences are stripped, the first {...} region is sliced out, and a
// truncated reply gets one bounded repair attempt (closing unbalanced
// braces/brackets) before giving up.
func ParseAmountsJSON(raw string) ([]dto.LabeledAmount, ParseOutcome) {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start < 0 {
		return nil, ParseFailed
	}
	end := strings.LastIndex(text, "}")
	if end > start {
		text = text[start : end+1]
	} else {
		text = text[start:]
	}

	var payload fallbackPayload
	outcome := ParseOK
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		repaired := repairJSON(text)
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, ParseFailed
		}
		outcome = ParseRepaired
	}

	amounts := make([]dto.LabeledAmount, 0, len(payload.Amounts))
	for _, a := range payload.Amounts {
		value, ok := coerceFloat(a.Value)
		if !ok {
			continue
		}
		amounts = append(amounts, dto.LabeledAmount{
			Kind:       a.Kind,
			Value:      value,
			Source:     a.Source,
			Confidence: 0.9,
		})
	}
	return amounts, outcome
}

// coerceFloat tolerates models quoting numeric values.
func coerceFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", ""), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// repairJSON closes unbalanced brackets and braces on a truncated reply.
func repairJSON(jsonStr string) string {
	openBraces := strings.Count(jsonStr, "{")
	closeBraces := strings.Count(jsonStr, "}")
	openBrackets := strings.Count(jsonStr, "[")
	closeBrackets := strings.Count(jsonStr, "]")

	repaired := strings.TrimRight(jsonStr, ", \n\t")
	repaired += strings.Repeat("]", max(openBrackets-closeBrackets, 0))
	repaired += strings.Repeat("}", max(openBraces-closeBraces, 0))
	return repaired
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
