package commands

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"agenda/internal/backend/googletasks"
	"agenda/internal/exitcode"
	"agenda/internal/session"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

// runGoogleLogin runs the PKCE loopback flow and stores the resulting token
// as the session credential.
func runGoogleLogin(ctx context.Context, env *Env, out, errOut io.Writer) int {
	cfg := env.Config
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
		fmt.Fprintln(errOut, "To use the Google Tasks backend, you need OAuth credentials:")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
		fmt.Fprintln(errOut, "2. Enable the Google Tasks API for your project")
		fmt.Fprintln(errOut, "3. Create an OAuth client ID of type 'Desktop app' and download the JSON file")
		fmt.Fprintln(errOut, "4. Save it as:")
		fmt.Fprintf(errOut, "   %s/oauth_client.json\n", cfg.Dir)
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Then run 'agenda login --google' again.")
		return exitcode.AuthError
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	port, listener, err := findAvailablePort()
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- fmt.Errorf("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Signed in</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case <-time.After(oauthCallbackTimeout):
		fmt.Fprintln(errOut, "error: oauth callback timed out")
		return exitcode.AuthError
	case <-ctx.Done():
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.AuthError
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)

	exchangeCtx, cancelExchange := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancelExchange()

	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	cred := session.Credential{
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		cred.Expiry = &expiry
	}
	return finishLogin(env, cred, out, errOut)
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}
