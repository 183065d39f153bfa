package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seo-optimizer/insights/errs"
)

const noInsights = "No actionable insights were provided by Perplexity."

// Result is the structured reading of one completion.
type Result struct {
	ActionableInsights []Item `json:"actionable_insights" yaml:"actionable_insights"`
}

// Item is one actionable recommendation.
type Item struct {
	Insight string `json:"insight" yaml:"insight"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ParseCompletion decodes a chat-completion body and splits the first choice's
// content into insights.
func ParseCompletion(body []byte) (*Result, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.UpstreamError(fmt.Sprintf("Invalid response from completion endpoint: %v", err), err)
	}
	if len(resp.Choices) == 0 {
		return nil, errs.UpstreamError(noInsights, nil)
	}
	return &Result{ActionableInsights: SplitInsights(resp.Choices[0].Message.Content)}, nil
}

// SplitInsights cuts content at blank lines, trims each piece and drops the
// empty ones. It depends on the model separating points with "\n\n".
func SplitInsights(content string) []Item {
	items := make([]Item, 0)
	for _, part := range strings.Split(content, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, Item{Insight: part})
	}
	return items
}
