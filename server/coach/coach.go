// Package coach talks to the external coaching API: it ships a hand (raw
// text plus the parsed replayer state) and gets back a GTO strategy, an
// exploit deviation and leak tags.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client posts hands to the coach endpoint. The zero value is not usable;
// construct with New or NewFromEnv.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// The coach runs a multi-agent review per hand; generous timeout.
const defaultTimeout = 180 * time.Second

func New(url, token string) *Client {
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: defaultTimeout},
	}
}

// NewFromEnv reads COACH_API_URL and COACH_API_TOKEN. Both are required:
// without them the coaching stage cannot run at all.
func NewFromEnv() (*Client, error) {
	url := strings.TrimSpace(os.Getenv("COACH_API_URL"))
	token := strings.TrimSpace(os.Getenv("COACH_API_TOKEN"))
	if url == "" || token == "" {
		return nil, errors.New("COACH_API_URL or COACH_API_TOKEN not set")
	}
	return New(url, token), nil
}

// Request is the coach API payload. Parsed and ReplayerData are optional
// accuracy hints; RawText should already carry position annotations.
type Request struct {
	HandID       string          `json:"hand_id"`
	RawText      string          `json:"raw_text"`
	Parsed       map[string]any  `json:"parsed,omitempty"`
	ReplayerData json.RawMessage `json:"replayer_data,omitempty"`
}

// Result is the coach's review of one hand.
type Result struct {
	GTOStrategy      string          `json:"gto_strategy"`
	ExploitDeviation string          `json:"exploit_deviation"`
	LearningTags     TagList         `json:"learning_tag"`
	HeroPosition     string          `json:"hero_position"`
	ExploitSignals   json.RawMessage `json:"exploit_signals"`
}

// TagList accepts both a bare string and a list of strings; the coach model
// emits either shape depending on how many leaks it found.
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if strings.TrimSpace(one) == "" {
			*t = nil
		} else {
			*t = TagList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	var out TagList
	for _, s := range many {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	*t = out
	return nil
}

// Review posts one hand and decodes the coach's response.
func (c *Client) Review(ctx context.Context, r Request) (*Result, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	body := buf.Bytes()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("coach http %d: %s", resp.StatusCode, truncate(string(body), 800))
	}

	var out Result
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("coach response decode: %w", err)
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
