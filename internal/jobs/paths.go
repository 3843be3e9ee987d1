package jobs

import (
	"path"
	"strings"
)

// Paths maps job ids to storage object keys and the public URLs they are served under.
// Object keys are relative to the storage root, which GET /static serves.
type Paths struct {
	PublicBase   string
	AudioDir     string
	ThumbnailDir string
	VideoDir     string
}

func DefaultPaths() Paths {
	return Paths{
		PublicBase:   "/static",
		AudioDir:     "audio",
		ThumbnailDir: "thumbnails",
		VideoDir:     "videos",
	}
}

func (p Paths) AudioKey(jobID string) string {
	return path.Join(p.AudioDir, jobID+".mp3")
}

func (p Paths) ThumbnailKey(jobID string) string {
	return path.Join(p.ThumbnailDir, jobID+".jpg")
}

func (p Paths) VideoKey(jobID string) string {
	return path.Join(p.VideoDir, jobID+".mp4")
}

// PublicURL is the URL a client fetches key from.
func (p Paths) PublicURL(key string) string {
	return strings.TrimRight(p.PublicBase, "/") + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL reverses PublicURL. URLs outside the public base are not ours to read.
func (p Paths) KeyFromURL(url string) (string, bool) {
	prefix := strings.TrimRight(p.PublicBase, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
