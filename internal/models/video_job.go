package models

import "time"

// Job statuses. tts_ready and thumb_ready share a rank, so either may follow the other.
const (
	StatusGenerated  = "generated"
	StatusTTSReady   = "tts_ready"
	StatusThumbReady = "thumb_ready"
	StatusUploaded   = "uploaded"
)

// Upload outcomes stored in UploadStatus. Failures carry a ": <detail>" suffix.
const (
	UploadStatusUploaded            = "uploaded"
	UploadStatusRequiresCredentials = "requires_credentials"
	UploadStatusRenderFailed        = "render_failed"
	UploadStatusUploadFailed        = "upload_failed"
)

// Privacy values accepted by the upload step.
const (
	PrivacyPublic   = "public"
	PrivacyUnlisted = "unlisted"
	PrivacyPrivate  = "private"
)

// Duration bounds in seconds.
const (
	MinDuration     = 30
	MaxDuration     = 900
	DefaultDuration = 120
	DefaultStyle    = "educational"
)

type VideoJob struct {
	ID           string    `json:"id" bson:"-"`
	Niche        string    `json:"niche" bson:"niche"`
	Title        string    `json:"title" bson:"title"`
	Keywords     []string  `json:"keywords" bson:"keywords"`
	Style        string    `json:"style" bson:"style"`
	Duration     int       `json:"duration" bson:"duration"`
	Outline      []string  `json:"outline" bson:"outline"`
	Script       string    `json:"script" bson:"script"`
	Status       string    `json:"status" bson:"status"`
	AudioURL     *string   `json:"audio_url" bson:"audio_url,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url" bson:"thumbnail_url,omitempty"`
	YouTubeURL   *string   `json:"youtube_url" bson:"youtube_url,omitempty"`
	UploadStatus *string   `json:"upload_status" bson:"upload_status,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// JobUpdate is a field-level patch. Nil fields are left untouched by the store.
type JobUpdate struct {
	Status       *string
	AudioURL     *string
	ThumbnailURL *string
	YouTubeURL   *string
	UploadStatus *string
}

// IsEmpty reports whether the patch would change nothing.
func (u JobUpdate) IsEmpty() bool {
	return u.Status == nil && u.AudioURL == nil && u.ThumbnailURL == nil &&
		u.YouTubeURL == nil && u.UploadStatus == nil
}

// Apply writes the non-nil fields of u onto j.
func (u JobUpdate) Apply(j *VideoJob) {
	if u.Status != nil {
		j.Status = *u.Status
	}
	if u.AudioURL != nil {
		j.AudioURL = u.AudioURL
	}
	if u.ThumbnailURL != nil {
		j.ThumbnailURL = u.ThumbnailURL
	}
	if u.YouTubeURL != nil {
		j.YouTubeURL = u.YouTubeURL
	}
	if u.UploadStatus != nil {
		j.UploadStatus = u.UploadStatus
	}
}

func statusRank(s string) int {
	switch s {
	case StatusGenerated:
		return 0
	case StatusTTSReady, StatusThumbReady:
		return 1
	case StatusUploaded:
		return 2
	default:
		return -1
	}
}

// AdvanceStatus returns the status a job should hold after a step reaching next completes.
// Status never moves backwards: once uploaded, a re-run of tts or thumbnail keeps uploaded.
func AdvanceStatus(current, next string) string {
	if statusRank(next) < statusRank(current) {
		return current
	}
	return next
}

// ValidPrivacy reports whether p is an accepted privacy value.
func ValidPrivacy(p string) bool {
	switch p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyPrivate:
		return true
	}
	return false
}

// ClampDuration bounds d to [MinDuration, MaxDuration].
func ClampDuration(d int) int {
	return max(MinDuration, min(d, MaxDuration))
}

// Ptr returns a pointer to s.
func Ptr(s string) *string { return &s }
