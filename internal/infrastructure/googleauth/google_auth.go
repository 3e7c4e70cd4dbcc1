// Package googleauth handles the OAuth flow and Google API service
// construction for the email and upload pipelines.
package googleauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

const authTimeout = 5 * time.Minute

// Authenticator wraps the oauth2 configuration and token persistence.
type Authenticator struct {
	config    *oauth2.Config
	tokenPath string
}

// New reads the OAuth client secret from credentialsPath. The token is
// cached at tokenPath after the interactive flow.
func New(credentialsPath, tokenPath string) (*Authenticator, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read client secret file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret file: %w", err)
	}
	if config.RedirectURL == "" {
		config.RedirectURL = "http://localhost:8080/auth/google/callback"
	}
	return &Authenticator{config: config, tokenPath: tokenPath}, nil
}

// ObtainTokenInteractive runs the loopback OAuth flow: it starts a
// temporary local HTTP server, prints the consent URL, captures the auth
// code on the callback and persists the exchanged token.
func (a *Authenticator) ObtainTokenInteractive(ctx context.Context) error {
	ln, err := net.Listen("tcp", "127.0.0.1:8080")
	if err != nil {
		return fmt.Errorf("listen 127.0.0.1:8080: %w", err)
	}
	defer ln.Close()

	host := os.Getenv("GOOGLE_LOOPBACK_HOST")
	if host == "" {
		host = "localhost"
	}
	callbackPath := "/auth/google/callback"
	a.config.RedirectURL = fmt.Sprintf("http://%s:8080%s", host, callbackPath)

	state, err := randomState()
	if err != nil {
		return err
	}

	url := a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Open this URL to authorize:\n%s\n", url)

	codeCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "code missing", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "Authorization received. You can close this tab.")
		codeCh <- code
	})
	srv := &http.Server{Handler: mux}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	var code string
	select {
	case code = <-codeCh:
	case <-time.After(authTimeout):
		return fmt.Errorf("authorization timeout")
	case <-ctx.Done():
		return ctx.Err()
	}

	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}
	return a.saveToken(tok)
}

func randomState() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return "st-" + hex.EncodeToString(b[:]), nil
}

func (a *Authenticator) saveToken(token *oauth2.Token) error {
	if dir := filepath.Dir(a.tokenPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}
	f, err := os.OpenFile(a.tokenPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("cache oauth token: %w", err)
	}
	defer f.Close()
	logger.Info("oauth token saved", "path", a.tokenPath)
	return json.NewEncoder(f).Encode(token)
}

func (a *Authenticator) token() (*oauth2.Token, error) {
	f, err := os.Open(a.tokenPath)
	if err != nil {
		return nil, fmt.Errorf("open cached token (run `nl2audio init` to authorize): %w", err)
	}
	defer f.Close()
	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode cached token: %w", err)
	}
	return &tok, nil
}

// HasToken reports whether a cached token file exists.
func (a *Authenticator) HasToken() bool {
	_, err := os.Stat(a.tokenPath)
	return err == nil
}

func (a *Authenticator) client(ctx context.Context) (*http.Client, error) {
	tok, err := a.token()
	if err != nil {
		return nil, err
	}
	client := a.config.Client(ctx, tok)
	if os.Getenv("NL2AUDIO_DEBUG_HTTP") != "" {
		client.Transport = &loggingTransport{base: client.Transport}
	}
	return client, nil
}

// GmailService builds a Gmail API service from the cached token.
func (a *Authenticator) GmailService(ctx context.Context) (*gmail.Service, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	return gmail.NewService(ctx, option.WithHTTPClient(client))
}

// DriveService builds a Drive API service from the cached token.
func (a *Authenticator) DriveService(ctx context.Context) (*drive.Service, error) {
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	return drive.NewService(ctx, option.WithHTTPClient(client))
}
