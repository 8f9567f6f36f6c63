// Package norwood holds the wire contract shared by all vision providers:
// the prompts sent upstream, the expected JSON answer, and the
// score-to-stage table used by the local heuristic.
package norwood

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/prohair-dev/trichoscan/pkg/models"
)

// ErrInvalidResponse is returned when an upstream answer cannot be parsed as
// the expected structured record. The raw upstream content is attached for
// diagnosability.
var ErrInvalidResponse = errors.New("vision provider returned invalid response")

// ErrProviderUnavailable is returned when an upstream API cannot be reached
// or rejects the call at the transport level.
var ErrProviderUnavailable = errors.New("vision provider unavailable")

// SystemPrompt frames the model as a trichology assistant returning strict JSON.
const SystemPrompt = `You are a trichology assistant estimating hair loss on the Norwood scale. ` +
	`You receive a single image compositing four views of the same person's head: ` +
	`front (top-left), top (top-right), side (bottom-left), back (bottom-right). ` +
	`Answer with strict JSON only, no prose and no markdown.`

// UserPrompt describes the exact answer shape.
const UserPrompt = `Estimate the balding stage from the four views. Respond with a JSON object ` +
	`with exactly these keys: "stade" (Norwood stage, "1" to "7", optional letter suffix), ` +
	`"price_range" (an indicative treatment price range in euros), ` +
	`"details" (short description of the observed hair loss pattern), ` +
	`"evaluation" (short assessment of treatment options).`

const rawExcerptLimit = 500

// ParseResult turns a raw upstream answer into a ClassificationResult.
// Markdown code fences around the JSON are tolerated since several models
// insist on them despite the prompt.
func ParseResult(raw string) (models.ClassificationResult, error) {
	var result models.ClassificationResult

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, fmt.Errorf("%w: %s", ErrInvalidResponse, excerpt(raw))
	}
	if strings.TrimSpace(result.Stage) == "" {
		return result, fmt.Errorf("%w: missing stade key in %s", ErrInvalidResponse, excerpt(raw))
	}
	return result, nil
}

// excerpt truncates raw upstream content without splitting UTF-8 runes.
func excerpt(s string) string {
	if len(s) <= rawExcerptLimit {
		return s
	}
	end := rawExcerptLimit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "..."
}

// StageProfile is the canned description attached to a heuristically
// determined stage.
type StageProfile struct {
	Stage      string
	PriceRange string
	Details    string
	Evaluation string
}

// Thresholds on the scalp-exposure score, highest stage first. A score at or
// above the threshold selects the profile.
var stageTable = []struct {
	threshold float64
	profile   StageProfile
}{
	{0.86, StageProfile{"7", "4000-6000€", "Severe hair loss; only a horseshoe band of hair remains.", "Surgical restoration is the main option at this stage."}},
	{0.72, StageProfile{"6", "3500-5000€", "The bridge between frontal and vertex loss has disappeared.", "A transplant combined with medication can still give good density."}},
	{0.58, StageProfile{"5", "3000-4500€", "Frontal and vertex areas are merging; the separating band is thin.", "A transplant is commonly considered; medication slows progression."}},
	{0.44, StageProfile{"4", "2500-4000€", "Marked frontal recession with a bald vertex patch.", "Combined medical treatment and grafting give the best results."}},
	{0.30, StageProfile{"3", "1500-3000€", "Deepened temporal recession; first clinically significant stage.", "Medication is effective; grafting is an option for the hairline."}},
	{0.16, StageProfile{"2", "500-1500€", "Slight recession around the temples.", "Preventive medication can stabilize the hairline."}},
	{0, StageProfile{"1", "0-500€", "No significant recession of the hairline.", "No treatment needed; monitor annually."}},
}

// ProfileFromScore maps a scalp-exposure score in [0, 1] to one of the seven
// discrete stages. The mapping is deterministic so the heuristic provider can
// stand in for the paid model without changing any other contract.
func ProfileFromScore(score float64) StageProfile {
	for _, entry := range stageTable {
		if score >= entry.threshold {
			return entry.profile
		}
	}
	return stageTable[len(stageTable)-1].profile
}
