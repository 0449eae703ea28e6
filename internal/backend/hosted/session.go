package hosted

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"taskdeck/internal/service"
)

// refreshSource exchanges the stored refresh token for a new token
// pair. It sits behind oauth2.ReuseTokenSource, so it only runs once
// the current access token has expired.
type refreshSource struct {
	client *Client
}

func (r *refreshSource) Token() (*oauth2.Token, error) {
	c := r.client
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil || sess.Token.RefreshToken == "" {
		return nil, errors.New("no refresh token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), APITimeout)
	defer cancel()

	var resp authResponse
	err := c.do(ctx, http.MethodPost, authPath+"/token?grant_type=refresh_token", nil, map[string]string{
		"refresh_token": sess.Token.RefreshToken,
	}, &resp, false)
	if err != nil {
		return nil, err
	}

	next := sessionFromGrant(resp)
	if next.UserID == "" {
		next.UserID = sess.UserID
		next.Email = sess.Email
	}
	c.mu.Lock()
	c.session = next
	c.mu.Unlock()
	c.persistSession(next)
	c.log.Debug("refreshed session token")
	return &next.Token, nil
}

func loadSession(path string) (*storedSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess storedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Token.AccessToken == "" {
		return nil, errors.New("empty session")
	}
	return &sess, nil
}

func (c *Client) persistSession(sess *storedSession) {
	if c.cfg == nil {
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := c.cfg.EnsureDir(); err != nil {
		c.log.Warn("persist session", "err", err)
		return
	}
	if err := os.WriteFile(c.cfg.SessionPath(), data, 0600); err != nil {
		c.log.Warn("persist session", "err", err)
	}
}

// storeErrorBody covers the error shapes the store's auth and REST
// layers produce.
type storeErrorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func remoteError(status int, body []byte) error {
	var parsed storeErrorBody
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.Message
	if msg == "" {
		msg = parsed.Msg
	}
	if msg == "" {
		msg = parsed.ErrorDescription
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status == http.StatusUnauthorized {
		msg = "session expired or revoked (run: taskdeck login)"
	}
	return &service.RemoteError{Status: status, Message: msg}
}

func wrapTransport(err error) error {
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return &service.RemoteError{Message: "request timed out"}
	}
	return &service.RemoteError{Message: err.Error()}
}

func isSessionNotFound(err error) bool {
	var remote *service.RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return strings.Contains(strings.ToLower(remote.Message), "session_not_found") ||
		strings.Contains(strings.ToLower(remote.Message), "session not found")
}
