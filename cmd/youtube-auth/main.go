// Command youtube-auth runs the OAuth consent flow once and writes token.json, which the
// API uses to upload videos. The printed refresh token also serves GDRIVE_REFRESH_TOKEN.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"

	"autotube/internal/adapters/youtube"
	"autotube/internal/config"
	"autotube/internal/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Level: "info", Format: "text", ServiceName: "youtube-auth"})

	cfg, err := config.Load()
	if err != nil {
		log.LogFatal("invalid configuration", err)
	}

	secrets, err := os.ReadFile(cfg.YouTube.ClientSecretsFile)
	if err != nil {
		log.LogFatal("cannot read client secrets", err, "path", cfg.YouTube.ClientSecretsFile)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.LogFatal("cannot open callback listener", err)
	}
	defer ln.Close()

	scopes := append([]string{drive.DriveFileScope}, youtube.Scopes...)
	conf, err := google.ConfigFromJSON(secrets, scopes...)
	if err != nil {
		log.LogFatal("invalid client secrets", err)
	}
	conf.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/callback", ln.Addr().(*net.TCPAddr).Port)

	state := randomState()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "invalid state", http.StatusBadRequest)
			errCh <- fmt.Errorf("invalid state")
		case q.Get("error") != "":
			http.Error(w, "auth error: "+q.Get("error"), http.StatusBadRequest)
			errCh <- fmt.Errorf("auth error: %s", q.Get("error"))
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- fmt.Errorf("missing code")
		default:
			fmt.Fprintln(w, "Authorized. You can close this window and return to the terminal.")
			codeCh <- q.Get("code")
		}
	})

	srv := &http.Server{Handler: mux, ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	// offline access with forced consent, so Google returns a refresh token
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("\nOpen this URL in your browser:\n\n%s\n\nWaiting for authorization on %s\n", authURL, conf.RedirectURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		_ = srv.Close()
		log.LogFatal("authorization failed", err)
	case <-time.After(3 * time.Minute):
		_ = srv.Close()
		log.LogFatal("authorization failed", fmt.Errorf("timed out waiting for the callback"))
	}
	_ = srv.Close()

	tok, err := conf.Exchange(context.Background(), code)
	if err != nil {
		log.LogFatal("token exchange failed", err)
	}

	if err := youtube.SaveToken(cfg.YouTube.TokenFile, tok); err != nil {
		log.LogFatal("cannot write token file", err, "path", cfg.YouTube.TokenFile)
	}
	log.Info("token saved", "path", cfg.YouTube.TokenFile)

	if strings.TrimSpace(tok.RefreshToken) == "" {
		fmt.Println("\nNo refresh_token was returned. Revoke the app's previous access at")
		fmt.Println("https://myaccount.google.com/permissions and run this command again.")
		return
	}
	fmt.Printf("\nREFRESH TOKEN:\n\n%s\n", tok.RefreshToken)
}

func randomState() string {
	b := make([]byte, 18)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
