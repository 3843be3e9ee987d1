// Package client is a typed HTTP client for the autotube API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"autotube/internal/httpkit"
	"autotube/internal/jobs"
	"autotube/internal/models"
)

// APIError is a non-2xx answer decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. Steps can take minutes, so the timeout is generous.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Minute},
	}
}

func (c *Client) Generate(ctx context.Context, req jobs.GenerateRequest) (*models.VideoJob, error) {
	var out struct {
		ID  string           `json:"id"`
		Job *models.VideoJob `json:"job"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/generate", req, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

func (c *Client) List(ctx context.Context, limit int) ([]models.VideoJob, error) {
	path := "/api/jobs"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var out struct {
		Items []models.VideoJob `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	var out struct {
		Job *models.VideoJob `json:"job"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

func (c *Client) TTS(ctx context.Context, req jobs.TTSRequest) (*jobs.TTSResult, error) {
	var out jobs.TTSResult
	if err := c.do(ctx, http.MethodPost, "/api/tts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Thumbnail(ctx context.Context, req jobs.ThumbnailRequest) (*jobs.ThumbnailResult, error) {
	var out jobs.ThumbnailResult
	if err := c.do(ctx, http.MethodPost, "/api/thumbnail", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Upload(ctx context.Context, req jobs.UploadRequest) (*jobs.UploadResult, error) {
	var out jobs.UploadResult
	if err := c.do(ctx, http.MethodPost, "/api/upload", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Run drives one job through every step and returns the final upload outcome.
// Progress is reported through step after each call.
func (c *Client) Run(ctx context.Context, gen jobs.GenerateRequest, privacy string, step func(name string, v any)) (*jobs.UploadResult, error) {
	if step == nil {
		step = func(string, any) {}
	}

	job, err := c.Generate(ctx, gen)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	step("generate", job)

	tts, err := c.TTS(ctx, jobs.TTSRequest{JobID: job.ID})
	if err != nil {
		return nil, fmt.Errorf("tts: %w", err)
	}
	step("tts", tts)

	thumb, err := c.Thumbnail(ctx, jobs.ThumbnailRequest{JobID: job.ID})
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	step("thumbnail", thumb)

	res, err := c.Upload(ctx, jobs.UploadRequest{JobID: job.ID, PrivacyStatus: privacy})
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	step("upload", res)
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		apiErr := &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
		var env httpkit.ErrorEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Error.Code != "" {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
