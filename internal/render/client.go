package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contracts "autotube/internal/contracts/renderer/v0"
)

// Client talks to the external render service.
type Client interface {
	Render(ctx context.Context, spec contracts.RenderSpec) (*contracts.RenderResult, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (c *HTTPClient) Render(ctx context.Context, spec contracts.RenderSpec) (*contracts.RenderResult, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("renderer http %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out contracts.RenderResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode renderer response: %w", err)
	}
	if out.VideoObjectKey == "" {
		out.VideoObjectKey = spec.Output.VideoObjectKey
	}
	return &out, nil
}
