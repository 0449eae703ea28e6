// Package hosted implements service.Store against a hosted REST store
// with token-based auth (a PostgREST/GoTrue-style API).
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/dates"
	"taskdeck/internal/service"
)

const (
	// APITimeout is the timeout for store calls.
	APITimeout = 5 * time.Second

	authPath = "/auth/v1"
	restPath = "/rest/v1"

	// tasksTable is the single record collection this client uses.
	tasksTable = "tasks"

	// taskOrder is the canonical fetch order: due date ascending with
	// unscheduled rows last, ties by creation descending.
	taskOrder = "due_date.asc.nullslast,created_at.desc"
)

// Client implements service.Store over HTTP.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
	cfg    *config.Config
	log    *log.Logger

	mu      sync.Mutex
	session *storedSession
	source  oauth2.TokenSource
}

// storedSession is the session.json shape: the oauth2 token pair plus
// the identity it belongs to.
type storedSession struct {
	Token  oauth2.Token `json:"token"`
	UserID string       `json:"user_id"`
	Email  string       `json:"email"`
}

// New creates a client from store.toml, loading the persisted session
// if one exists. A session is not required: sign-in and sign-up work
// unauthenticated with just the API key.
func New(cfg *config.Config, logger *log.Logger) (*Client, error) {
	sc, err := cfg.LoadStore()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Client{
		base:   sc.URL,
		apiKey: sc.APIKey,
		http:   &http.Client{},
		cfg:    cfg,
		log:    logger,
	}
	if sess, err := loadSession(cfg.SessionPath()); err == nil {
		c.setSession(sess)
	}
	return c, nil
}

// NewWithHTTPClient creates a client against base with a custom HTTP
// client (for testing).
func NewWithHTTPClient(base, apiKey string, cfg *config.Config, httpClient *http.Client) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		http:   httpClient,
		cfg:    cfg,
		log:    log.Default(),
	}
}

// authResponse is the token grant shape shared by sign-in, sign-up
// and refresh.
type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn implements service.Store.
func (c *Client) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	return c.grant(ctx, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignUp implements service.Store. The store is configured without
// email confirmation, so a successful sign-up returns a live session.
func (c *Client) SignUp(ctx context.Context, email, password string) (service.Session, error) {
	return c.grant(ctx, "/signup", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) grant(ctx context.Context, path string, body map[string]string) (service.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, authPath+path, nil, body, &resp, false); err != nil {
		return service.Session{}, err
	}
	sess := sessionFromGrant(resp)
	c.setSession(sess)
	c.persistSession(sess)
	return service.Session{UserID: sess.UserID, Email: sess.Email, ExpiresAt: sess.Token.Expiry}, nil
}

// SignOut implements service.Store. A remote "session not found" is
// normalized to success, and the local session file is removed either
// way: the user ends up signed out.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.do(ctx, http.MethodPost, authPath+"/logout", nil, nil, nil, true)
	if err != nil && isSessionNotFound(err) {
		c.log.Debug("remote session already gone, treating sign-out as success")
		err = nil
	}

	c.mu.Lock()
	c.session = nil
	c.source = nil
	c.mu.Unlock()
	if c.cfg != nil {
		_ = c.cfg.RemoveSession()
	}
	return err
}

// CurrentSession implements service.Store. The token is refreshed
// through the oauth2 source when expired.
func (c *Client) CurrentSession(ctx context.Context) (service.Session, error) {
	c.mu.Lock()
	sess := c.session
	source := c.source
	c.mu.Unlock()
	if sess == nil {
		return service.Session{}, &service.AuthSessionError{Reason: "not signed in"}
	}
	tok, err := source.Token()
	if err != nil {
		return service.Session{}, &service.AuthSessionError{Reason: fmt.Sprintf("session expired: %v", err)}
	}
	return service.Session{UserID: sess.UserID, Email: sess.Email, ExpiresAt: tok.Expiry}, nil
}

// taskRow is the wire shape of a tasks row.
type taskRow struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (r taskRow) toTask() (service.Task, error) {
	t := service.Task{
		ID:        r.ID,
		Owner:     r.UserID,
		Title:     r.Title,
		Priority:  service.Priority(r.Priority),
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.DueDate != nil && *r.DueDate != "" {
		d, err := dates.Parse(*r.DueDate)
		if err != nil {
			return service.Task{}, fmt.Errorf("row %s: %w", r.ID, err)
		}
		t.DueDate = d
	}
	return t, nil
}

// QueryTasks implements service.Store.
func (c *Client) QueryTasks(ctx context.Context, owner string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+owner)
	q.Set("order", taskOrder)

	var rows []taskRow
	if err := c.do(ctx, http.MethodGet, restPath+"/"+tasksTable, q, nil, &rows, true); err != nil {
		return nil, err
	}
	out := make([]service.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toTask()
		if err != nil {
			return nil, &service.RemoteError{Message: err.Error()}
		}
		out = append(out, t)
	}
	return out, nil
}

// InsertTask implements service.Store.
func (c *Client) InsertTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	row := taskRow{
		UserID:    t.Owner,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Completed: false,
	}
	if t.Description != "" {
		row.Description = &t.Description
	}
	if !t.DueDate.IsZero() {
		s := t.DueDate.String()
		row.DueDate = &s
	}

	var rows []taskRow
	if err := c.do(ctx, http.MethodPost, restPath+"/"+tasksTable, nil, row, &rows, true); err != nil {
		return service.Task{}, err
	}
	return singleRow(rows)
}

// UpdateTask implements service.Store. Both id and owner are part of
// the filter so the call can never touch another user's row.
func (c *Client) UpdateTask(ctx context.Context, id, owner string, patch service.TaskPatch) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			body["description"] = nil
		} else {
			body["description"] = *patch.Description
		}
	}
	if patch.Priority != nil {
		body["priority"] = string(*patch.Priority)
	}
	if patch.Completed != nil {
		body["completed"] = *patch.Completed
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			body["due_date"] = nil
		} else {
			body["due_date"] = patch.DueDate.String()
		}
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+owner)

	var rows []taskRow
	if err := c.do(ctx, http.MethodPatch, restPath+"/"+tasksTable, q, body, &rows, true); err != nil {
		return service.Task{}, err
	}
	return singleRow(rows)
}

// DeleteTask implements service.Store.
func (c *Client) DeleteTask(ctx context.Context, id, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("user_id", "eq."+owner)
	return c.do(ctx, http.MethodDelete, restPath+"/"+tasksTable, q, nil, nil, true)
}

// do issues one request. Mutating REST calls ask the store to return
// the stored representation so the cache can take the row wholesale.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	u := c.base + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}
	if authed {
		tok, err := c.bearer()
		if err != nil {
			return err
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.log.Debug("store call", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp.StatusCode, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &service.RemoteError{Message: fmt.Sprintf("malformed response: %v", err)}
		}
	}
	return nil
}

// bearer returns the current access token, refreshed if needed. An
// unauthenticated client sends no bearer; row-level policies then
// reject data access server-side.
func (c *Client) bearer() (string, error) {
	c.mu.Lock()
	source := c.source
	c.mu.Unlock()
	if source == nil {
		return "", nil
	}
	tok, err := source.Token()
	if err != nil {
		return "", &service.AuthSessionError{Reason: fmt.Sprintf("session expired: %v", err)}
	}
	return tok.AccessToken, nil
}

func (c *Client) setSession(sess *storedSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sess
	if sess == nil {
		c.source = nil
		return
	}
	// ReuseTokenSource hands back the stored token until it expires,
	// then falls through to the refresh grant.
	c.source = oauth2.ReuseTokenSource(&sess.Token, &refreshSource{client: c})
}

func sessionFromGrant(resp authResponse) *storedSession {
	return &storedSession{
		Token: oauth2.Token{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		},
		UserID: resp.User.ID,
		Email:  resp.User.Email,
	}
}

func singleRow(rows []taskRow) (service.Task, error) {
	if len(rows) == 0 {
		return service.Task{}, &service.RemoteError{Status: http.StatusNotFound, Message: "no matching row"}
	}
	t, err := rows[0].toTask()
	if err != nil {
		return service.Task{}, &service.RemoteError{Message: err.Error()}
	}
	return t, nil
}
