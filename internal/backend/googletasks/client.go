// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"agenda/internal/config"
	"agenda/internal/service"
	"agenda/internal/session"
	"agenda/internal/store"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
// Every task lives in the user's default list.
type Client struct {
	svc    *tasks.Service
	listID string
}

// OAuthConfig reads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}
	return oauthConfig, nil
}

// New creates a Google Tasks client authenticated by the credential attached
// to sess. Expired access tokens are refreshed and the refreshed credential
// is persisted to st.
func New(ctx context.Context, cfg *config.Config, sess *session.Session, st *store.Store) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	src := &sessionSource{ctx: ctx, conf: oauthConfig, sess: sess, st: st}
	httpClient := &http.Client{Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport}}
	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, listID: DefaultListID}, nil
}

// ListTasks implements service.Service. Tasks are fetched across all pages,
// completed and hidden ones included.
func (c *Client) ListTasks(ctx context.Context, until time.Time) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		DueMax(until.Format(time.RFC3339)).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				result = append(result, toTask(item))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTask implements service.Service. Google Tasks keeps only the date
// portion of the due time.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title: task.Desc,
		Due:   formatDue(task.EstimateAt),
	}).Context(ctx).Do()
	return wrapError(err)
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	current, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}

	patch := &tasks.Task{Status: statusCompleted}
	if current.Status == statusCompleted {
		patch = &tasks.Task{Status: statusNeedsAction, NullFields: []string{"Completed"}}
	}
	_, err = c.svc.Tasks.Patch(c.listID, id, patch).Context(ctx).Do()
	return wrapError(err)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return wrapError(c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do())
}

func toTask(item *tasks.Task) service.Task {
	task := service.Task{ID: item.Id, Desc: item.Title}
	if due, err := time.Parse(time.RFC3339, item.Due); err == nil {
		task.EstimateAt = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.Local)
	}
	if item.Completed != nil {
		if done, err := time.Parse(time.RFC3339, *item.Completed); err == nil {
			task.DoneAt = &done
		}
	}
	if task.DoneAt == nil && item.Status == statusCompleted {
		done, err := time.Parse(time.RFC3339, item.Updated)
		if err != nil {
			done = task.EstimateAt
		}
		task.DoneAt = &done
	}
	return task
}

func formatDue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

// wrapError maps API errors onto the service sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, session.ErrNoCredential) {
		return session.ErrNoCredential
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.ErrUnauthorized
		case http.StatusNotFound:
			return service.ErrNotFound
		}
	}
	return err
}

// sessionSource reads the session credential on every request and refreshes
// it through the OAuth config once expired.
type sessionSource struct {
	ctx  context.Context
	conf *oauth2.Config
	sess *session.Session
	st   *store.Store
}

func (s *sessionSource) Token() (*oauth2.Token, error) {
	cred, ok := s.sess.Credential()
	if !ok {
		return nil, session.ErrNoCredential
	}
	tok := cred.OAuthToken()
	if tok.Valid() || tok.RefreshToken == "" {
		return tok, nil
	}

	fresh, err := s.conf.TokenSource(s.ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	cred.Token = fresh.AccessToken
	if fresh.RefreshToken != "" {
		cred.RefreshToken = fresh.RefreshToken
	}
	expiry := fresh.Expiry
	cred.Expiry = &expiry
	if err := session.Login(s.st, s.sess, cred); err != nil {
		s.sess.Attach(cred)
	}
	return fresh, nil
}
