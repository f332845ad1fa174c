package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"roomservice/order"
)

const (
	// defaultModelID is the default model ID for Bedrock Claude.
	// It's an inference profile ID or ARN, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// Controls the maximum number of tokens the model can generate in one response.
	// 1k is plenty for a structured order.
	defaultMaxTokens = 1024

	// Low temperature keeps outputs more deterministic and consistent, which is better for structured extraction.
	defaultTemperature = 0.2

	// Low top_p keeps outputs more focused and less random, which is better for structured extraction.
	defaultTopP = 0.9
)

const systemPrompt = `You are a hotel room service order taker. Extract the order from the guest's message and respond with ONLY a JSON object of the form:
{"room": "<room number or empty string>", "items": [{"name": "<item name>", "quantity": <int>, "modifications": ["<mod>", ...]}]}
Do not invent items the guest did not ask for. If the guest named no items, respond with {"room": "", "items": []}.`

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type BedrockOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// Bedrock extracts orders with the Bedrock Converse API.
type Bedrock struct {
	brc  bedrockRuntimeClient
	opts BedrockOptions
}

func NewBedrock(brc bedrockRuntimeClient, opts BedrockOptions) *Bedrock {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Bedrock{
		brc:  brc,
		opts: opts,
	}
}

// Extract asks the model for a structured order and decodes it.
func (b *Bedrock) Extract(ctx context.Context, utterance string) (order.Candidate, error) {
	slog.Info("EXTRACT: Invoking model", "model_id", b.opts.ModelID, "utterance_len", len(utterance))

	in := &bedrockruntime.ConverseInput{
		ModelId: &b.opts.ModelID,
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: systemPrompt}},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: utterance}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(b.opts.MaxTokens),
			Temperature: aws.Float32(b.opts.Temperature),
			TopP:        aws.Float32(b.opts.TopP),
		},
	}
	out, err := b.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("EXTRACT: Bedrock Claude invoke failed", "error", err)
		return order.Candidate{}, err
	}

	slog.Info("EXTRACT: Bedrock Claude invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case "end_turn", "stop_sequence":
		// proceed
	case "max_tokens":
		return order.Candidate{}, fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens")
	default:
		return order.Candidate{}, fmt.Errorf("unexpected stop reason %q", out.StopReason)
	}

	text := textFromOutput(out)
	if text == "" {
		return order.Candidate{}, ErrNoOrder
	}

	var decoded struct {
		Room  string           `json:"room"`
		Items []order.LineItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return order.Candidate{}, fmt.Errorf("model output not valid JSON: %w", err)
	}
	if len(decoded.Items) == 0 {
		return order.Candidate{}, ErrNoOrder
	}

	slog.Info("EXTRACT: Extracted order", "room", decoded.Room, "items", len(decoded.Items))
	return order.NewCandidate(decoded.Room, decoded.Items), nil
}

// textFromOutput returns the assistant text, preferring the last block that
// looks like a single JSON object.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}

	for i := len(texts) - 1; i >= 0; i-- {
		s := strings.TrimSpace(texts[i])
		if len(s) > 1 && s[0] == '{' && s[len(s)-1] == '}' {
			return s
		}
	}
	if len(texts) > 0 {
		return strings.TrimSpace(strings.Join(texts, "\n"))
	}
	return ""
}
