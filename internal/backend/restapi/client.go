// Package restapi implements the service.Service interface against the
// to-do HTTP server.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agenda/internal/service"
	"agenda/internal/session"
)

const (
	// maxErrorBody limits how much of an error response is kept.
	maxErrorBody = 512

	// timestampLayout is how estimateAt is sent.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"

	// dateLayout is the format of the upper bound in GET /tasks?date=.
	dateLayout = "2006-01-02 15:04:05"
)

// ErrBadCredentials is returned by Signin when the server rejects the
// email or password.
var ErrBadCredentials = errors.New("invalid email or password")

// APIError is a non-2xx response not covered by a sentinel error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	authed  *http.Client
	anon    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the base transport under the session credential.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.anon = &http.Client{Transport: rt}
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the server at baseURL. Task requests carry the
// credential attached to sess at the time of each request.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anon:    &http.Client{Transport: http.DefaultTransport},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.authed = &http.Client{Transport: sess.Transport(c.anon.Transport)}
	return c
}

type taskJSON struct {
	ID         json.RawMessage `json:"id"`
	Desc       string          `json:"desc"`
	EstimateAt *string         `json:"estimateAt"`
	DoneAt     *string         `json:"doneAt"`
}

type newTaskJSON struct {
	Desc       string `json:"desc"`
	EstimateAt string `json:"estimateAt"`
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, until time.Time) ([]service.Task, error) {
	q := url.Values{}
	q.Set("date", until.Format(dateLayout))

	var raw []taskJSON
	if err := c.do(ctx, c.authed, http.MethodGet, "/tasks", q, nil, &raw); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(raw))
	for _, t := range raw {
		task, err := t.toTask()
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) error {
	body := newTaskJSON{
		Desc:       task.Desc,
		EstimateAt: task.EstimateAt.UTC().Format(timestampLayout),
	}
	return c.do(ctx, c.authed, http.MethodPost, "/tasks", nil, body, nil)
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, id string) error {
	return c.do(ctx, c.authed, http.MethodPut, "/tasks/"+url.PathEscape(id)+"/toggle", nil, nil, nil)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// Signin exchanges email and password for a credential. The request is
// sent without any attached credential.
func (c *Client) Signin(ctx context.Context, email, password string) (session.Credential, error) {
	body := map[string]string{"email": email, "password": password}

	var cred session.Credential
	err := c.do(ctx, c.anon, http.MethodPost, "/signin", nil, body, &cred)
	var apiErr *APIError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return session.Credential{}, ErrBadCredentials
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest:
		return session.Credential{}, ErrBadCredentials
	case err != nil:
		return session.Credential{}, err
	}
	if cred.Email == "" {
		cred.Email = email
	}
	return cred, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, c.anon, http.MethodPost, "/signup", nil, body, nil)
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("request", "method", method, "url", u)
	resp, err := client.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()
	c.log.Debug("response", "method", method, "url", u, "status", resp.StatusCode)

	if err := checkResponse(resp); err != nil {
		return err
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkResponse maps non-2xx responses to errors.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return service.ErrUnauthorized
	case http.StatusNotFound:
		return service.ErrNotFound
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, session.ErrNoCredential) {
		return session.ErrNoCredential
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

func (t taskJSON) toTask() (service.Task, error) {
	task := service.Task{
		ID:   strings.Trim(string(t.ID), `"`),
		Desc: t.Desc,
	}
	if t.EstimateAt != nil {
		ts, err := parseTimestamp(*t.EstimateAt)
		if err != nil {
			return service.Task{}, fmt.Errorf("task %s: estimateAt: %w", task.ID, err)
		}
		task.EstimateAt = ts
	}
	if t.DoneAt != nil {
		ts, err := parseTimestamp(*t.DoneAt)
		if err != nil {
			return service.Task{}, fmt.Errorf("task %s: doneAt: %w", task.ID, err)
		}
		task.DoneAt = &ts
	}
	return task, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
