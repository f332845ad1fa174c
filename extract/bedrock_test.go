package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBedrockClient struct {
	out *bedrockruntime.ConverseOutput
	err error
	in  *bedrockruntime.ConverseInput
}

func (f *fakeBedrockClient) Converse(ctx context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.in = in
	return f.out, f.err
}

func converseOutput(stopReason types.StopReason, texts ...string) *bedrockruntime.ConverseOutput {
	var content []types.ContentBlock
	for _, t := range texts {
		content = append(content, &types.ContentBlockMemberText{Value: t})
	}
	return &bedrockruntime.ConverseOutput{
		StopReason: stopReason,
		Output:     &types.ConverseOutputMemberMessage{Value: types.Message{Content: content}},
		Metrics:    &types.ConverseMetrics{LatencyMs: aws.Int64(42)},
		Usage:      &types.TokenUsage{InputTokens: aws.Int32(10), OutputTokens: aws.Int32(20)},
	}
}

func TestBedrockExtract(t *testing.T) {
	t.Run("decodes the model's order", func(t *testing.T) {
		client := &fakeBedrockClient{
			out: converseOutput(types.StopReasonEndTurn,
				`{"room": "312", "items": [{"name": "Club Sandwich", "quantity": 1, "modifications": ["extra bacon"]}]}`),
		}
		b := NewBedrock(client, BedrockOptions{ModelID: "test-model"})

		got, err := b.Extract(context.Background(), "a club sandwich with extra bacon to 312 please")
		require.NoError(t, err)

		assert.Equal(t, "312", got.Room)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Club Sandwich", got.Items[0].Name)
		assert.Equal(t, []string{"extra bacon"}, got.Items[0].Modifications)

		require.NotNil(t, client.in)
		assert.Equal(t, "test-model", *client.in.ModelId)
		require.Len(t, client.in.Messages, 1)
	})

	t.Run("prefers the last JSON block", func(t *testing.T) {
		client := &fakeBedrockClient{
			out: converseOutput(types.StopReasonEndTurn,
				"Let me write that up.",
				`{"room": "100", "items": [{"name": "Still Water", "quantity": 2}]}`),
		}
		b := NewBedrock(client, BedrockOptions{})

		got, err := b.Extract(context.Background(), "two waters for room 100")
		require.NoError(t, err)
		assert.Equal(t, "100", got.Room)
	})

	t.Run("no items means no order", func(t *testing.T) {
		client := &fakeBedrockClient{
			out: converseOutput(types.StopReasonEndTurn, `{"room": "", "items": []}`),
		}
		b := NewBedrock(client, BedrockOptions{})

		_, err := b.Extract(context.Background(), "what time is checkout?")
		assert.ErrorIs(t, err, ErrNoOrder)
	})

	t.Run("invalid JSON from the model", func(t *testing.T) {
		client := &fakeBedrockClient{
			out: converseOutput(types.StopReasonEndTurn, "I would love a sandwich too"),
		}
		b := NewBedrock(client, BedrockOptions{})

		_, err := b.Extract(context.Background(), "one sandwich")
		assert.ErrorContains(t, err, "not valid JSON")
	})

	t.Run("max tokens stop reason", func(t *testing.T) {
		client := &fakeBedrockClient{
			out: converseOutput(types.StopReasonMaxTokens, "{"),
		}
		b := NewBedrock(client, BedrockOptions{})

		_, err := b.Extract(context.Background(), "one sandwich")
		assert.ErrorContains(t, err, "MaxTokens")
	})

	t.Run("client error", func(t *testing.T) {
		boom := errors.New("throttled")
		client := &fakeBedrockClient{err: boom}
		b := NewBedrock(client, BedrockOptions{})

		_, err := b.Extract(context.Background(), "one sandwich")
		assert.ErrorIs(t, err, boom)
	})
}

func TestNewBedrockDefaults(t *testing.T) {
	b := NewBedrock(&fakeBedrockClient{}, BedrockOptions{})
	assert.Equal(t, defaultModelID, b.opts.ModelID)
	assert.Equal(t, int32(defaultMaxTokens), b.opts.MaxTokens)
	assert.Equal(t, float32(defaultTemperature), b.opts.Temperature)
	assert.Equal(t, float32(defaultTopP), b.opts.TopP)
}
