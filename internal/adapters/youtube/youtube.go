// Package youtube publishes rendered videos with the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"autotube/internal/config"
	"autotube/internal/ports"
)

// Scopes requested by cmd/youtube-auth and used when loading the token.
var Scopes = []string{youtube.YoutubeUploadScope, youtube.YoutubeScope}

// Uploader reads client_secret.json and token.json on every call, so credentials can be
// dropped in while the server is running.
type Uploader struct {
	secretsFile string
	tokenFile   string
	categoryID  string
	opts        []option.ClientOption
}

func New(cfg config.YouTubeConfig, opts ...option.ClientOption) *Uploader {
	category := cfg.CategoryID
	if category == "" {
		category = "22"
	}
	return &Uploader{
		secretsFile: cfg.ClientSecretsFile,
		tokenFile:   cfg.TokenFile,
		categoryID:  category,
		opts:        opts,
	}
}

func (u *Uploader) CredentialsAvailable() bool {
	return isFile(u.secretsFile) && isFile(u.tokenFile)
}

func (u *Uploader) Upload(ctx context.Context, req ports.UploadRequest) (string, error) {
	svc, err := u.service(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.Open(req.VideoPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryId:  u.categoryID,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: req.Privacy},
	}

	res, err := svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(f).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}
	if res.Id == "" {
		return "", fmt.Errorf("youtube upload: empty video id")
	}
	return res.Id, nil
}

func (u *Uploader) SetThumbnail(ctx context.Context, videoID string, image io.Reader) error {
	svc, err := u.service(ctx)
	if err != nil {
		return err
	}
	if _, err := svc.Thumbnails.Set(videoID).Media(image).Context(ctx).Do(); err != nil {
		return fmt.Errorf("youtube thumbnail: %w", err)
	}
	return nil
}

func (u *Uploader) service(ctx context.Context) (*youtube.Service, error) {
	secrets, err := os.ReadFile(u.secretsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	conf, err := google.ConfigFromJSON(secrets, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	tok, err := LoadToken(u.tokenFile)
	if err != nil {
		return nil, err
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(conf.Client(ctx, tok))}, u.opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}

// tokenFile covers both the oauth2.Token layout written by cmd/youtube-auth and the
// "authorized_user" layout written by google-auth tooling.
type tokenFile struct {
	AccessToken  string `json:"access_token"`
	Token        string `json:"token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry"`
}

// LoadToken reads an OAuth token file.
func LoadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken:  firstNonEmpty(tf.AccessToken, tf.Token),
		TokenType:    tf.TokenType,
		RefreshToken: tf.RefreshToken,
	}
	if tf.Expiry != "" {
		if t, err := parseExpiry(tf.Expiry); err == nil {
			tok.Expiry = t
		}
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("token file %s has neither an access nor a refresh token", path)
	}
	return tok, nil
}

// SaveToken writes tok as JSON with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	b, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func parseExpiry(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized expiry %q", s)
}

func isFile(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
