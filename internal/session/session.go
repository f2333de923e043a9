// Package session holds the signed-in user's credential and attaches it to
// outbound requests.
package session

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"agenda/internal/nav"
	"agenda/internal/store"
)

// ErrNoCredential is returned for requests made without a signed-in user.
var ErrNoCredential = errors.New("not logged in")

// Credential is the persisted user data returned by signin.
type Credential struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	// Set only by the Google backend login.
	RefreshToken string     `json:"refresh_token,omitempty"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}

// OAuthToken converts the credential to an oauth2 bearer token.
func (c Credential) OAuthToken() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.Token,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
	}
	if c.Expiry != nil {
		tok.Expiry = *c.Expiry
	}
	return tok
}

// Session is the credential currently attached to outbound requests.
// It implements oauth2.TokenSource so HTTP clients can read it per request.
type Session struct {
	mu   sync.RWMutex
	cred *Credential
}

// New returns a session with no credential attached.
func New() *Session {
	return &Session{}
}

// Attach makes cred the credential sent with every subsequent request.
func (s *Session) Attach(cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
}

// Detach drops the attached credential.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
}

// Credential returns the attached credential.
func (s *Session) Credential() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	cred, ok := s.Credential()
	if !ok {
		return nil, ErrNoCredential
	}
	return cred.OAuthToken(), nil
}

// Transport wraps base so each request carries the attached credential as a
// bearer token. Requests fail with ErrNoCredential when none is attached.
// The token is read on every request; it is never cached.
func (s *Session) Transport(base http.RoundTripper) http.RoundTripper {
	return &oauth2.Transport{Source: s, Base: base}
}

// Client returns an HTTP client using Transport over the default transport.
func (s *Session) Client() *http.Client {
	return &http.Client{Transport: s.Transport(http.DefaultTransport)}
}

// Load reads the persisted credential.
// A missing blob, a corrupt blob or one without a token is reported as absent.
func Load(st *store.Store) (Credential, bool) {
	var cred Credential
	if !st.ReadJSON(store.UserDataKey, &cred) {
		return Credential{}, false
	}
	if strings.TrimSpace(cred.Token) == "" {
		return Credential{}, false
	}
	return cred, true
}

// Bootstrap resolves the start route from the persisted credential.
// With a token it attaches the credential and navigates Home forwarding the
// credential as params; otherwise it navigates to Auth.
func Bootstrap(st *store.Store, s *Session, n nav.Navigator) nav.Route {
	cred, ok := Load(st)
	if !ok {
		n.Navigate(nav.RouteAuth, nil)
		return nav.RouteAuth
	}
	s.Attach(cred)
	n.Navigate(nav.RouteHome, cred)
	return nav.RouteHome
}

// Login persists cred and attaches it to the session.
func Login(st *store.Store, s *Session, cred Credential) error {
	if strings.TrimSpace(cred.Token) == "" {
		return errors.New("signin response has no token")
	}
	if err := st.WriteJSON(store.UserDataKey, cred); err != nil {
		return err
	}
	s.Attach(cred)
	return nil
}

// Logout detaches the credential and removes the persisted copy.
// A failed removal is logged and otherwise ignored.
func Logout(st *store.Store, s *Session, log *slog.Logger) {
	s.Detach()
	if err := st.RemoveItem(store.UserDataKey); err != nil && log != nil {
		log.Debug("remove persisted credential", "err", err)
	}
}
