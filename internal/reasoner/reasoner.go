// Package reasoner asks a chat-completion model for a narrative verdict on
// the evidence produced by an analysis.
package reasoner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/adwait1544/echo-guard/measure/heuristic"
	"github.com/adwait1544/echo-guard/stats/frequency"
	timestats "github.com/adwait1544/echo-guard/stats/time"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

// ErrEmptyResponse is returned when the model answers without content.
var ErrEmptyResponse = errors.New("reasoner: empty response")

// Evidence is everything the model is shown about one recording.
type Evidence struct {
	Name         string            `json:"name"`
	Duration     float64           `json:"duration_s"`
	Summary      heuristic.Summary `json:"summary"`
	Authenticity float64           `json:"authenticity"`
	Signal       timestats.Stats   `json:"signal"`
	Spectral     frequency.Stats   `json:"spectral"`
}

// Verdict is the model's judgment.
type Verdict struct {
	Label        string  `json:"label" yaml:"label"`
	Authenticity float64 `json:"authenticity" yaml:"authenticity"`
	Explanation  string  `json:"explanation" yaml:"explanation"`
	Model        string  `json:"model" yaml:"model"`
}

// Reasoner produces a verdict from evidence.
type Reasoner interface {
	Reason(ctx context.Context, ev Evidence) (Verdict, error)
}

// Config configures the OpenAI-compatible reasoner.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI is a Reasoner backed by the chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

const systemPrompt = `You review audio forensics evidence. The evidence is JSON with heuristic scores
computed from MFCC features: consistency (1 means no frame-to-frame drift),
anomaly_ratio (fraction of frames with implausible coefficient variance),
statistics with splice_candidates (frame indices with abnormal jumps), and
signal and spectral descriptors. Digital silence is always flagged as
anomalous by these heuristics; discount that case.
Reply with a JSON object: {"label": "authentic" | "suspicious" | "manipulated",
"authenticity": number in [0,1], "explanation": short paragraph}.`

// NewOpenAI returns an OpenAI reasoner. An API key is required.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("reasoner: missing api key")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

// Reason sends the evidence and parses the reply. A reply that is not the
// requested JSON object is kept whole as the explanation.
func (o *OpenAI) Reason(ctx context.Context, ev Evidence) (Verdict, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Verdict{}, fmt.Errorf("encode evidence: %w", err)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Verdict{}, ErrEmptyResponse
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return Verdict{}, fmt.Errorf("reasoner: refused: %s", msg.Refusal)
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return Verdict{}, ErrEmptyResponse
	}

	v := parseVerdict(content)
	v.Model = resp.Model
	if v.Model == "" {
		v.Model = o.model
	}

	return v, nil
}

func parseVerdict(content string) Verdict {
	var v Verdict
	if err := json.Unmarshal([]byte(content), &v); err != nil || v.Label == "" {
		return Verdict{Label: "unparsed", Explanation: content}
	}

	v.Label = strings.ToLower(strings.TrimSpace(v.Label))
	v.Authenticity = max(0, min(1, v.Authenticity))

	return v
}
