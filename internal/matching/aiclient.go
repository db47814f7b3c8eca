// internal/matching/aiclient.go
// HTTP client for the external scoring service. Every call is
// best-effort: callers fall back to local computation on any error.

package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aura-collective/aura-backend/internal/assessment"
	"github.com/aura-collective/aura-backend/internal/political"
)

// AIClient talks to the external compatibility scorer.
type AIClient interface {
	CalculateScore(ctx context.Context, payloadA, payloadB *ProfilePayload) (*PairScore, error)
	DailyCandidates(ctx context.Context, userID int64, limit int) ([]*CandidateScore, error)
}

// ProfilePayload is the per-user document sent to the scorer.
type ProfilePayload struct {
	UserID      int64    `json:"user_id"`
	UserUUID    string   `json:"user_uuid"`
	DisplayName *string  `json:"display_name,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Interests   []string `json:"interests,omitempty"`

	Assessment *assessment.Profile `json:"assessment,omitempty"`
	Political  *political.Snapshot `json:"political,omitempty"`
}

// NewProfilePayload assembles the scorer document from the three data
// sources. Any of the sources may be nil.
func NewProfilePayload(user *UserSnapshot, prof *assessment.Profile, snap *political.Snapshot) *ProfilePayload {
	payload := &ProfilePayload{Assessment: prof, Political: snap}
	if user != nil {
		payload.UserID = user.ID
		payload.UserUUID = user.UUID
		payload.DisplayName = user.DisplayName
		payload.Gender = user.Gender
		payload.Age = user.Age
		payload.Interests = user.Interests
	}
	return payload
}

type httpAIClient struct {
	baseURL string
	client  *http.Client
}

// NewAIClient builds a client with its own timeout so a slow scorer
// cannot stall a match request past the configured budget.
func NewAIClient(baseURL string, timeout time.Duration) AIClient {
	return &httpAIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type calculateRequest struct {
	UserA *ProfilePayload `json:"user_a"`
	UserB *ProfilePayload `json:"user_b"`
}

type calculateResponse struct {
	PersonalityScore    float64 `json:"personality_score"`
	ValuesScore         float64 `json:"values_score"`
	LifestyleScore      float64 `json:"lifestyle_score"`
	AttractionScore     float64 `json:"attraction_score"`
	CircumstantialScore float64 `json:"circumstantial_score"`
	GrowthScore         float64 `json:"growth_score"`
	OverallScore        float64 `json:"overall_score"`
	EnemyScore          float64 `json:"enemy_score"`
	Explanation         *string `json:"explanation,omitempty"`
}

func (c *httpAIClient) CalculateScore(ctx context.Context, payloadA, payloadB *ProfilePayload) (*PairScore, error) {
	body, err := json.Marshal(&calculateRequest{UserA: payloadA, UserB: payloadB})
	if err != nil {
		return nil, fmt.Errorf("encoding score request: %w", err)
	}

	url := fmt.Sprintf("%s/match/calculate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var decoded calculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding score response: %w", err)
	}

	return &PairScore{
		PersonalityScore:    decoded.PersonalityScore,
		ValuesScore:         decoded.ValuesScore,
		LifestyleScore:      decoded.LifestyleScore,
		AttractionScore:     decoded.AttractionScore,
		CircumstantialScore: decoded.CircumstantialScore,
		GrowthScore:         decoded.GrowthScore,
		OverallScore:        decoded.OverallScore,
		EnemyScore:          decoded.EnemyScore,
		ExplanationJSON:     decoded.Explanation,
	}, nil
}

type dailyResponse struct {
	Matches []*CandidateScore `json:"matches"`
}

func (c *httpAIClient) DailyCandidates(ctx context.Context, userID int64, limit int) ([]*CandidateScore, error) {
	url := fmt.Sprintf("%s/match/daily?user_id=%d&limit=%d", c.baseURL, userID, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building daily request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var decoded dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding daily response: %w", err)
	}

	return decoded.Matches, nil
}
