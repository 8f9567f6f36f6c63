// Package anthropic implements the vision provider on the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/prohair-dev/trichoscan/internal/config"
	"github.com/prohair-dev/trichoscan/internal/vision/norwood"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

const maxTokens = 1024

// Provider implements models.VisionProvider using Anthropic.
type Provider struct {
	client anthropic.Client
	model  string
}

func NewProvider(cfg config.AnthropicConfig) *Provider {
	return &Provider{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string { return "anthropic" }

func (p *Provider) Classify(ctx context.Context, req models.ClassificationRequest) (models.ClassificationResult, error) {
	b64 := base64.StdEncoding.EncodeToString(req.GridJPEG)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: norwood.SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/jpeg", b64),
				anthropic.NewTextBlock(norwood.UserPrompt),
			),
		},
	})
	if err != nil {
		return models.ClassificationResult{}, fmt.Errorf("%w: anthropic: %v", norwood.ErrProviderUnavailable, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return norwood.ParseResult(sb.String())
}

var _ models.VisionProvider = (*Provider)(nil)
