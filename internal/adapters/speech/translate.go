// Package speech provides the voice-over engines: the public translate_tts endpoint and
// an external command.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"autotube/internal/ports"
)

// maxChunk is the longest text the translate_tts endpoint accepts per request.
const maxChunk = 200

// Translate synthesizes speech through the translate_tts endpoint, one request per chunk,
// concatenating the MP3 frames.
type Translate struct {
	baseURL string
	client  *http.Client
}

func NewTranslate(baseURL string) *Translate {
	return &Translate{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *Translate) Engine() string { return "translate" }

func (t *Translate) Synthesize(ctx context.Context, req ports.SpeechRequest) ([]byte, error) {
	chunks := Chunk(req.Text, maxChunk)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to speak")
	}

	speed := "1"
	if req.Slow {
		speed = "0.3"
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		q := url.Values{}
		q.Set("ie", "UTF-8")
		q.Set("q", chunk)
		q.Set("tl", req.Lang)
		q.Set("client", "tw-ob")
		q.Set("ttsspeed", speed)
		q.Set("total", strconv.Itoa(len(chunks)))
		q.Set("idx", strconv.Itoa(i))
		q.Set("textlen", strconv.Itoa(len([]rune(chunk))))

		if err := t.fetch(ctx, q, &out); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return out.Bytes(), nil
}

func (t *Translate) fetch(ctx context.Context, q url.Values, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (autotube)")
	req.Header.Set("Referer", t.baseURL+"/")

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("translate_tts http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	n, err := io.Copy(dst, res.Body)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("translate_tts returned no audio")
	}
	return nil
}

// Chunk splits text into pieces of at most limit runes, breaking on whitespace where possible.
// Words longer than limit are cut.
func Chunk(text string, limit int) []string {
	var chunks []string
	var cur []rune

	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}

	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}
		if len(cur) > 0 && len(cur)+1+len(w) > limit {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	flush()
	return chunks
}
