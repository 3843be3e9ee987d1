package models

import "testing"

func TestAdvanceStatus(t *testing.T) {
	tests := []struct {
		current, next, want string
	}{
		{StatusGenerated, StatusTTSReady, StatusTTSReady},
		{StatusGenerated, StatusThumbReady, StatusThumbReady},
		{StatusTTSReady, StatusThumbReady, StatusThumbReady},
		{StatusThumbReady, StatusTTSReady, StatusTTSReady},
		{StatusTTSReady, StatusTTSReady, StatusTTSReady},
		{StatusThumbReady, StatusUploaded, StatusUploaded},
		{StatusUploaded, StatusTTSReady, StatusUploaded},
		{StatusUploaded, StatusThumbReady, StatusUploaded},
		{"", StatusTTSReady, StatusTTSReady},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.next, func(t *testing.T) {
			if got := AdvanceStatus(tt.current, tt.next); got != tt.want {
				t.Errorf("AdvanceStatus(%q, %q) = %q, want %q", tt.current, tt.next, got, tt.want)
			}
		})
	}
}

func TestClampDuration(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, 30},
		{30, 30},
		{120, 120},
		{900, 900},
		{10000, 900},
		{-5, 30},
	}
	for _, tt := range tests {
		if got := ClampDuration(tt.in); got != tt.want {
			t.Errorf("ClampDuration(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidPrivacy(t *testing.T) {
	for _, p := range []string{"public", "unlisted", "private"} {
		if !ValidPrivacy(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range []string{"", "Public", "friends"} {
		if ValidPrivacy(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestJobUpdateApply(t *testing.T) {
	job := VideoJob{Status: StatusGenerated, AudioURL: Ptr("/static/audio/a.mp3")}

	JobUpdate{ThumbnailURL: Ptr("/static/thumbnails/a.jpg")}.Apply(&job)

	if job.Status != StatusGenerated {
		t.Errorf("status should be untouched, got %q", job.Status)
	}
	if job.AudioURL == nil || *job.AudioURL != "/static/audio/a.mp3" {
		t.Errorf("audio_url should be untouched, got %v", job.AudioURL)
	}
	if job.ThumbnailURL == nil || *job.ThumbnailURL != "/static/thumbnails/a.jpg" {
		t.Errorf("thumbnail_url not applied, got %v", job.ThumbnailURL)
	}
	if !(JobUpdate{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
}
