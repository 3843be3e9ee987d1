// Package jobs drives a VideoJob through generation, voice-over, thumbnail and upload.
// Each step checks its preconditions on the stored fields, calls one collaborator, and
// persists only the fields it owns.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"autotube/internal/content"
	"autotube/internal/models"
	"autotube/internal/pkg/errors"
	"autotube/internal/pkg/logger"
	"autotube/internal/ports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	maxDescription   = 4000
	maxStatusDetail  = 120
	defaultLang      = "id"
	fallbackTitle    = "Video"
	fallbackUpload   = "AI Agent Video"
	thumbDurationDef = 60

	credentialsDetail = "Google OAuth credentials not found. Provide client_secret.json and token.json."
)

type Deps struct {
	Store      ports.JobStore
	Storage    ports.StorageProvider
	Speech     ports.Synthesizer
	Thumbnails ports.ThumbnailRenderer
	Renderer   ports.VideoRenderer
	Uploader   ports.Uploader
	// Archive optionally mirrors rendered videos. Nil disables it.
	Archive ports.StorageProvider
	Paths   Paths
	Log     *logger.Logger
}

type Service struct {
	store      ports.JobStore
	storage    ports.StorageProvider
	speech     ports.Synthesizer
	thumbnails ports.ThumbnailRenderer
	renderer   ports.VideoRenderer
	uploader   ports.Uploader
	archive    ports.StorageProvider
	paths      Paths
	log        *logger.Logger
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Paths == (Paths{}) {
		d.Paths = DefaultPaths()
	}
	return &Service{
		store:      d.Store,
		storage:    d.Storage,
		speech:     d.Speech,
		thumbnails: d.Thumbnails,
		renderer:   d.Renderer,
		uploader:   d.Uploader,
		archive:    d.Archive,
		paths:      d.Paths,
		log:        d.Log.WithComponent("jobs"),
	}
}

type GenerateRequest struct {
	Niche    string   `json:"niche"`
	Style    string   `json:"style,omitempty"`
	Duration int      `json:"duration,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Generate creates a job from templated content with status generated.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*models.VideoJob, error) {
	c, err := content.Generate(content.Input{
		Niche:    req.Niche,
		Style:    req.Style,
		Duration: req.Duration,
		Keywords: req.Keywords,
	})
	if err != nil {
		return nil, err
	}

	job := &models.VideoJob{
		Niche:    c.Niche,
		Title:    c.Title,
		Keywords: c.Keywords,
		Style:    c.Style,
		Duration: c.Duration,
		Outline:  c.Outline,
		Script:   c.Script,
		Status:   models.StatusGenerated,
	}

	id, err := s.store.Create(ctx, job)
	if err != nil {
		return nil, errors.Wrap(err, "jobs.generate", "failed to save job")
	}
	job.ID = id

	s.log.FromContext(ctx).WithJobID(id).WithStep("generate").Info("job generated",
		"niche", job.Niche,
		"style", job.Style,
		"duration", job.Duration,
	)
	return job, nil
}

// List returns the newest jobs. limit <= 0 means the default page, and it never exceeds 100.
func (s *Service) List(ctx context.Context, limit int) ([]models.VideoJob, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	items, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "jobs.list", "failed to list jobs")
	}
	if items == nil {
		items = []models.VideoJob{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	return s.load(ctx, "jobs.get", id)
}

type TTSRequest struct {
	JobID string `json:"job_id"`
	Lang  string `json:"lang,omitempty"`
	Slow  bool   `json:"slow,omitempty"`
}

type TTSResult struct {
	AudioURL string `json:"audio_url"`
	Status   string `json:"status"`
}

// TTS renders the job script to audio/{id}.mp3. On failure the job is left untouched.
func (s *Service) TTS(ctx context.Context, req TTSRequest) (*TTSResult, error) {
	const op = "jobs.tts"

	job, err := s.load(ctx, op, req.JobID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(job.Script) == "" {
		return nil, errors.Validation("Script is empty for this job")
	}

	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = defaultLang
	}

	log := s.log.FromContext(ctx).WithJobID(job.ID).WithStep("tts")
	log.Info("synthesizing voice-over", "engine", s.speech.Engine(), "lang", lang, "slow", req.Slow)

	audio, err := s.speech.Synthesize(ctx, ports.SpeechRequest{Text: job.Script, Lang: lang, Slow: req.Slow})
	if err != nil {
		log.Error("speech synthesis failed", "error", err.Error())
		return nil, errors.External(op, "TTS", err)
	}

	key := s.paths.AudioKey(job.ID)
	if err := s.put(ctx, key, "audio/mpeg", audio); err != nil {
		log.Error("storing audio failed", "key", key, "error", err.Error())
		return nil, errors.External(op, "TTS", err)
	}

	url := s.paths.PublicURL(key)
	status := models.AdvanceStatus(job.Status, models.StatusTTSReady)
	if err := s.store.Update(ctx, job.ID, models.JobUpdate{AudioURL: &url, Status: &status}); err != nil {
		return nil, errors.Wrap(err, op, "failed to save job")
	}

	log.Info("voice-over ready", "audio_url", url, "bytes", len(audio))
	return &TTSResult{AudioURL: url, Status: status}, nil
}

type ThumbnailRequest struct {
	JobID string `json:"job_id"`
}

type ThumbnailResult struct {
	ThumbnailURL string `json:"thumbnail_url"`
	Status       string `json:"status"`
}

// Thumbnail draws the title card to thumbnails/{id}.jpg. On failure the job is left untouched.
func (s *Service) Thumbnail(ctx context.Context, req ThumbnailRequest) (*ThumbnailResult, error) {
	const op = "jobs.thumbnail"

	job, err := s.load(ctx, op, req.JobID)
	if err != nil {
		return nil, err
	}

	title := firstNonEmpty(job.Title, job.Niche, fallbackTitle)
	style := firstNonEmpty(job.Style, models.DefaultStyle)
	duration := job.Duration
	if duration == 0 {
		duration = thumbDurationDef
	}

	log := s.log.FromContext(ctx).WithJobID(job.ID).WithStep("thumbnail")
	log.Info("rendering thumbnail", "title", title)

	img, err := s.thumbnails.Render(ctx, ports.ThumbnailRequest{Title: title, Style: style, Duration: duration})
	if err != nil {
		log.Error("thumbnail render failed", "error", err.Error())
		return nil, errors.External(op, "Thumbnail", err)
	}

	key := s.paths.ThumbnailKey(job.ID)
	if err := s.put(ctx, key, "image/jpeg", img); err != nil {
		log.Error("storing thumbnail failed", "key", key, "error", err.Error())
		return nil, errors.External(op, "Thumbnail", err)
	}

	url := s.paths.PublicURL(key)
	status := models.AdvanceStatus(job.Status, models.StatusThumbReady)
	if err := s.store.Update(ctx, job.ID, models.JobUpdate{ThumbnailURL: &url, Status: &status}); err != nil {
		return nil, errors.Wrap(err, op, "failed to save job")
	}

	log.Info("thumbnail ready", "thumbnail_url", url, "bytes", len(img))
	return &ThumbnailResult{ThumbnailURL: url, Status: status}, nil
}

type UploadRequest struct {
	JobID         string `json:"job_id"`
	PrivacyStatus string `json:"privacy_status,omitempty"`
}

// UploadResult is returned for every non-error outcome: uploaded, requires_credentials and
// render_failed. Only upload failures are errors.
type UploadResult struct {
	Status           string `json:"status"`
	YouTubeURL       string `json:"youtube_url,omitempty"`
	Detail           string `json:"detail,omitempty"`
	ThumbnailWarning string `json:"thumbnail_warning,omitempty"`
}

// Upload renders the job into a video and publishes it.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	const op = "jobs.upload"

	job, err := s.load(ctx, op, req.JobID)
	if err != nil {
		return nil, err
	}

	if job.AudioURL == nil || *job.AudioURL == "" {
		return nil, errors.Validation("Audio not found. Generate TTS first.")
	}

	privacy := strings.TrimSpace(req.PrivacyStatus)
	if privacy == "" {
		privacy = models.PrivacyUnlisted
	}
	if !models.ValidPrivacy(privacy) {
		return nil, errors.ValidationField("privacy_status", "privacy_status must be one of public, unlisted, private")
	}

	log := s.log.FromContext(ctx).WithJobID(job.ID).WithStep("upload")

	if !s.uploader.CredentialsAvailable() {
		log.Warn("upload credentials missing")
		if err := s.setUploadStatus(ctx, job.ID, models.UploadStatusRequiresCredentials); err != nil {
			return nil, errors.Wrap(err, op, "failed to save job")
		}
		return &UploadResult{Status: models.UploadStatusRequiresCredentials, Detail: credentialsDetail}, nil
	}

	if job.ThumbnailURL == nil || *job.ThumbnailURL == "" {
		return nil, errors.Validation("Thumbnail image required to produce a video. Generate thumbnail first.")
	}

	video, err := s.render(ctx, job)
	if err != nil {
		log.Error("video render failed", "engine", s.renderer.Engine(), "error", err.Error())
		detail := err.Error()
		stored := models.UploadStatusRenderFailed + ": " + errors.Truncate(detail, maxStatusDetail)
		if err := s.setUploadStatus(ctx, job.ID, stored); err != nil {
			return nil, errors.Wrap(err, op, "failed to save job")
		}
		return &UploadResult{
			Status: models.UploadStatusRenderFailed,
			Detail: errors.Truncate(detail, errors.MaxExternalMessage),
		}, nil
	}
	defer video.Release()

	s.archiveVideo(ctx, log, job.ID, video.Path)

	var tags []string
	if len(job.Keywords) > 0 {
		tags = job.Keywords
	}

	log.Info("uploading video", "privacy", privacy)
	videoID, err := s.uploader.Upload(ctx, ports.UploadRequest{
		VideoPath:   video.Path,
		Title:       firstNonEmpty(job.Title, job.Niche, fallbackUpload),
		Description: errors.Truncate(job.Script, maxDescription),
		Tags:        tags,
		Privacy:     privacy,
	})
	if err != nil {
		log.Error("upload failed", "error", err.Error())
		stored := models.UploadStatusUploadFailed + ": " + errors.Truncate(err.Error(), maxStatusDetail)
		if serr := s.setUploadStatus(ctx, job.ID, stored); serr != nil {
			log.Error("failed to record upload failure", "error", serr.Error())
		}
		return nil, errors.External(op, "Upload", err)
	}

	url := "https://www.youtube.com/watch?v=" + videoID
	uploaded := models.UploadStatusUploaded
	status := models.AdvanceStatus(job.Status, models.StatusUploaded)
	if err := s.store.Update(ctx, job.ID, models.JobUpdate{
		YouTubeURL:   &url,
		UploadStatus: &uploaded,
		Status:       &status,
	}); err != nil {
		return nil, errors.Wrap(err, op, "failed to save job")
	}
	log.Info("video uploaded", "youtube_url", url)

	result := &UploadResult{Status: models.UploadStatusUploaded, YouTubeURL: url}
	if err := s.setRemoteThumbnail(ctx, videoID, *job.ThumbnailURL); err != nil {
		log.Warn("setting remote thumbnail failed", "video_id", videoID, "error", err.Error())
		result.ThumbnailWarning = errors.Truncate(err.Error(), errors.MaxExternalMessage)
	}
	return result, nil
}

func (s *Service) render(ctx context.Context, job *models.VideoJob) (*ports.RenderedVideo, error) {
	audioKey, ok := s.paths.KeyFromURL(*job.AudioURL)
	if !ok {
		return nil, fmt.Errorf("audio %q is not a stored artifact", *job.AudioURL)
	}
	imageKey, ok := s.paths.KeyFromURL(*job.ThumbnailURL)
	if !ok {
		return nil, fmt.Errorf("thumbnail %q is not a stored artifact", *job.ThumbnailURL)
	}
	return s.renderer.Render(ctx, ports.RenderRequest{JobID: job.ID, AudioKey: audioKey, ImageKey: imageKey})
}

// archiveVideo mirrors the rendered file. Failures never affect the upload.
func (s *Service) archiveVideo(ctx context.Context, log *logger.Logger, jobID, videoPath string) {
	if s.archive == nil {
		return
	}
	f, err := os.Open(videoPath)
	if err != nil {
		log.Warn("archive skipped", "error", err.Error())
		return
	}
	defer f.Close()

	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}

	out, err := s.archive.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   s.paths.VideoKey(jobID),
		ContentType: "video/mp4",
		Reader:      f,
		Size:        size,
	})
	if err != nil {
		log.Warn("archiving video failed", "provider", s.archive.Provider(), "error", err.Error())
		return
	}
	log.Info("video archived", "provider", s.archive.Provider(), "object_key", out.ObjectKey)
}

func (s *Service) setRemoteThumbnail(ctx context.Context, videoID, thumbnailURL string) error {
	key, ok := s.paths.KeyFromURL(thumbnailURL)
	if !ok {
		return fmt.Errorf("thumbnail %q is not a stored artifact", thumbnailURL)
	}
	rc, _, _, err := s.storage.GetObject(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()
	return s.uploader.SetThumbnail(ctx, videoID, rc)
}

func (s *Service) setUploadStatus(ctx context.Context, id, status string) error {
	return s.store.Update(ctx, id, models.JobUpdate{UploadStatus: &status})
}

func (s *Service) load(ctx context.Context, op, id string) (*models.VideoJob, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.ValidationField("job_id", "job_id is required")
	}
	job, err := s.store.Get(ctx, id)
	if errors.Is(err, ports.ErrJobNotFound) {
		return nil, errors.NotFound("Job", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, op, "failed to load job")
	}
	return job, nil
}

func (s *Service) put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.storage.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   key,
		ContentType: contentType,
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
