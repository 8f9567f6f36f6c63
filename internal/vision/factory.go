package vision

import (
	"fmt"

	"github.com/prohair-dev/trichoscan/internal/config"
	"github.com/prohair-dev/trichoscan/internal/vision/anthropic"
	"github.com/prohair-dev/trichoscan/internal/vision/heuristic"
	"github.com/prohair-dev/trichoscan/internal/vision/openai"
	"github.com/prohair-dev/trichoscan/pkg/models"
)

// NewProvider constructs the appropriate vision provider based on config.
// Called once at server startup.
func NewProvider(cfg config.VisionConfig) (models.VisionProvider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "heuristic":
		return heuristic.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown vision provider %q: must be one of openai, anthropic, heuristic", cfg.Provider)
	}
}
