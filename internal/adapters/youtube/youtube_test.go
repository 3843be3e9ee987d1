package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"autotube/internal/config"
	"autotube/internal/ports"
)

const clientSecret = `{"installed":{"client_id":"cid","client_secret":"csecret",` +
	`"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",` +
	`"redirect_uris":["http://localhost"]}}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func credentials(t *testing.T) config.YouTubeConfig {
	t.Helper()
	dir := t.TempDir()
	tok := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.Now().Add(time.Hour)}
	tokenPath := filepath.Join(dir, "token.json")
	if err := SaveToken(tokenPath, tok); err != nil {
		t.Fatal(err)
	}
	return config.YouTubeConfig{
		ClientSecretsFile: writeFile(t, dir, "client_secret.json", clientSecret),
		TokenFile:         tokenPath,
	}
}

func TestCredentialsAvailable(t *testing.T) {
	dir := t.TempDir()
	secrets := writeFile(t, dir, "client_secret.json", clientSecret)
	token := filepath.Join(dir, "token.json")

	u := New(config.YouTubeConfig{ClientSecretsFile: secrets, TokenFile: token})
	if u.CredentialsAvailable() {
		t.Fatal("expected unavailable without token.json")
	}

	writeFile(t, dir, "token.json", `{"refresh_token":"rt"}`)
	if !u.CredentialsAvailable() {
		t.Fatal("expected available once both files exist")
	}

	if New(config.YouTubeConfig{ClientSecretsFile: dir, TokenFile: token}).CredentialsAvailable() {
		t.Error("a directory is not a client secrets file")
	}
}

func TestLoadToken(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		body    string
		access  string
		refresh string
		wantErr bool
	}{
		{"oauth2 layout", `{"access_token":"at","token_type":"Bearer","refresh_token":"rt","expiry":"2030-01-02T15:04:05Z"}`, "at", "rt", false},
		{"authorized_user layout", `{"token":"at2","refresh_token":"rt2","client_id":"c","type":"authorized_user","expiry":"2030-01-02T15:04:05.123456"}`, "at2", "rt2", false},
		{"refresh only", `{"refresh_token":"rt3"}`, "", "rt3", false},
		{"empty", `{}`, "", "", true},
		{"garbage", `not json`, "", "", true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, "tok"+string(rune('a'+i))+".json", tt.body)
			tok, err := LoadToken(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tok.AccessToken != tt.access || tok.RefreshToken != tt.refresh {
				t.Errorf("got access=%q refresh=%q", tok.AccessToken, tok.RefreshToken)
			}
		})
	}
}

func TestLoadTokenParsesExpiry(t *testing.T) {
	p := writeFile(t, t.TempDir(), "token.json", `{"token":"at","expiry":"2030-01-02T15:04:05.123456"}`)
	tok, err := LoadToken(p)
	if err != nil {
		t.Fatal(err)
	}
	if tok.Expiry.Year() != 2030 {
		t.Errorf("expected expiry in 2030, got %v", tok.Expiry)
	}
}

func TestUpload(t *testing.T) {
	var metadata string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/videos") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := strings.Join(r.URL.Query()["part"], ","); !strings.Contains(got, "snippet") || !strings.Contains(got, "status") {
			t.Errorf("unexpected part %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		metadata = string(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "vid123"})
	}))
	defer srv.Close()

	video := writeFile(t, t.TempDir(), "video.mp4", "mp4 bytes")
	u := New(credentials(t), option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))

	id, err := u.Upload(context.Background(), ports.UploadRequest{
		VideoPath:   video,
		Title:       "Judul",
		Description: "Deskripsi",
		Tags:        []string{"a", "b"},
		Privacy:     "unlisted",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if id != "vid123" {
		t.Errorf("expected vid123, got %q", id)
	}
	for _, want := range []string{`"title":"Judul"`, `"categoryId":"22"`, `"privacyStatus":"unlisted"`, "mp4 bytes"} {
		if !strings.Contains(metadata, want) {
			t.Errorf("expected %s in request body", want)
		}
	}
}

func TestUploadAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	video := writeFile(t, t.TempDir(), "video.mp4", "mp4")
	u := New(credentials(t), option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))

	_, err := u.Upload(context.Background(), ports.UploadRequest{VideoPath: video, Title: "x", Privacy: "private"})
	if err == nil || !strings.Contains(err.Error(), "quotaExceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestSetThumbnail(t *testing.T) {
	var videoID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/thumbnails/set") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		videoID = r.URL.Query().Get("videoId")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	u := New(credentials(t), option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))
	if err := u.SetThumbnail(context.Background(), "vid123", strings.NewReader("jpg")); err != nil {
		t.Fatalf("set thumbnail: %v", err)
	}
	if videoID != "vid123" {
		t.Errorf("expected videoId vid123, got %q", videoID)
	}
}

func TestUploadWithoutCredentials(t *testing.T) {
	u := New(config.YouTubeConfig{ClientSecretsFile: "/nonexistent/cs.json", TokenFile: "/nonexistent/t.json"})
	if _, err := u.Upload(context.Background(), ports.UploadRequest{}); err == nil {
		t.Fatal("expected error without credentials")
	}
}
