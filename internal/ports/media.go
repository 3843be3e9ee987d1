package ports

import (
	"context"
	"io"
)

type SpeechRequest struct {
	Text string
	Lang string
	Slow bool
}

// Synthesizer turns a script into MP3 audio.
type Synthesizer interface {
	Engine() string
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

type ThumbnailRequest struct {
	Title    string
	Style    string
	Duration int
}

// ThumbnailRenderer draws a 1280x720 JPEG title card.
type ThumbnailRenderer interface {
	Render(ctx context.Context, req ThumbnailRequest) ([]byte, error)
}

type RenderRequest struct {
	JobID    string
	AudioKey string
	ImageKey string
}

// RenderedVideo is a local MP4 ready for upload. Release removes it and its workspace.
type RenderedVideo struct {
	Path    string
	Release func()
}

// VideoRenderer muxes a still image and an audio track into a single-frame video
// lasting as long as the audio.
type VideoRenderer interface {
	Engine() string
	Render(ctx context.Context, req RenderRequest) (*RenderedVideo, error)
}

type UploadRequest struct {
	VideoPath   string
	Title       string
	Description string
	Tags        []string
	Privacy     string
}

// Uploader publishes rendered videos. Missing credentials are a normal state, reported by
// CredentialsAvailable rather than as an error.
type Uploader interface {
	CredentialsAvailable() bool
	Upload(ctx context.Context, req UploadRequest) (videoID string, err error)
	SetThumbnail(ctx context.Context, videoID string, image io.Reader) error
}
