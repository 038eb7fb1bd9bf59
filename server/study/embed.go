package study

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

// Embedder calls the embeddings endpoint of an OpenAI-compatible API.
type Embedder struct {
	base  string
	key   string
	model string
	http  *http.Client
}

// NewEmbedderFromEnv reads OPENAI_API_KEY (required), OPENAI_API_BASE and
// EMBEDDING_MODEL.
func NewEmbedderFromEnv() (*Embedder, error) {
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	base := strings.TrimSpace(os.Getenv("OPENAI_API_BASE"))
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(os.Getenv("EMBEDDING_MODEL"))
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Embedder{
		base:  strings.TrimRight(base, "/"),
		key:   key,
		model: model,
		http:  &http.Client{Timeout: 45 * time.Second},
	}, nil
}

// Embed returns the embedding vector for one text chunk.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	payload := map[string]any{
		"model": e.model,
		"input": text,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.key)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	body := buf.Bytes()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings http %d: %s", resp.StatusCode, truncate(string(body), 800))
	}

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return out.Data[0].Embedding, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
