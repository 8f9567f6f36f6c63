// Package openai implements the vision provider on the OpenAI chat API.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prohair-dev/trichoscan/internal/config"
	"github.com/prohair-dev/trichoscan/internal/vision/norwood"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// Provider implements models.VisionProvider using OpenAI.
type Provider struct {
	client *openai.Client
	model  string
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Provider{client: &client, model: cfg.Model}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.GridJPEG)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(norwood.SystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(norwood.UserPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: openai: %v", norwood.ErrProviderUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return models.ClassificationResult{}, fmt.Errorf("%w: empty completion", norwood.ErrInvalidResponse)
	}

	return norwood.ParseResult(resp.Choices[0].Message.Content)
}

var _ models.VisionProvider = (*Provider)(nil)
