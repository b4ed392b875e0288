package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Shift is one shift record as the scheduling source reports it.
type Shift struct {
	ProfessionalName string `json:"profissionalPlantaoNome"`
	ProfessionalCPF  string `json:"profissionalPlantaoCpf"`
	Hospital         string `json:"hospitalNome"`
}

type shiftsRequest struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

type shiftsResponse struct {
	Shifts []Shift `json:"plantoes"`
}

// Client fetches shift windows from the scheduling source. The source
// returns a whole window in one response; there is no pagination.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// NewClient creates a scheduling source client.
func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// FetchShifts requests every shift between from and to (inclusive dates).
// Any transport or decode failure is fatal to the aggregation: the caller
// gets no partial data.
func (c *Client) FetchShifts(ctx context.Context, from, to time.Time) ([]Shift, error) {
	body, err := json.Marshal(shiftsRequest{
		Start: from.Format("2006-01-02"),
		End:   to.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("encode shift window: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build shift request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch shifts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch shifts: scheduling source answered status %d", resp.StatusCode)
	}

	var payload shiftsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode shifts: %w", err)
	}
	return payload.Shifts, nil
}
