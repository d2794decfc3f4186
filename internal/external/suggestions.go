package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SuggestionClient asks an external text provider for short planning
// suggestions. The provider is optional; callers fall back to a canned list
// when it is unconfigured or fails.
type SuggestionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type SuggestionConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type suggestionRequest struct {
	Category string  `json:"category"`
	Budget   float64 `json:"budget"`
	Limit    int     `json:"limit"`
}

type suggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

func NewSuggestionClient(cfg SuggestionConfig) *SuggestionClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &SuggestionClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether a provider is configured
func (sc *SuggestionClient) Enabled() bool {
	return sc.baseURL != "" && sc.apiKey != ""
}

// Suggest returns up to three short suggestions for the category and budget
func (sc *SuggestionClient) Suggest(category string, budget float64) ([]string, error) {
	body, err := json.Marshal(suggestionRequest{Category: category, Budget: budget, Limit: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, sc.baseURL+"/v1/suggestions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sc.apiKey)

	resp, err := sc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result suggestionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Suggestions) > 3 {
		result.Suggestions = result.Suggestions[:3]
	}

	return result.Suggestions, nil
}

// CannedSuggestions is the static fallback when no provider is available
func CannedSuggestions(category string, budget float64) []string {
	return []string{
		fmt.Sprintf("Recommended vendor for %s: local caterers (~$%.0f).", category, budget*0.3),
		fmt.Sprintf("Checklist item: book the venue early to stay under $%.0f.", budget),
		fmt.Sprintf("Tip: allocate 20%% of $%.0f for decorations in %s events.", budget, category),
	}
}
