package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg, err := Config{APIURL: srv.URL + "/", TokenFile: filepath.Join(t.TempDir(), "token")}.Resolve()
	require.NoError(t, err)
	return NewClient(cfg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// --------------------- Config ---------------------
func TestConfigResolve(t *testing.T) {
	cfg, err := Config{}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, "http://localhost:5173/api", cfg.APIURL)
	assert.Equal(t, "ws://localhost:5173/socket", cfg.SocketURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)

	cfg, err = Config{Env: Production}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, ProductionOrigin+"/api", cfg.APIURL)
	assert.Equal(t, "wss://portal.scan2cad.io/socket", cfg.SocketURL)

	cfg, err = Config{Env: Production, APIURL: "http://api.internal/", SocketURL: "ws://api.internal/ws"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal", cfg.APIURL)
	assert.Equal(t, "ws://api.internal/ws", cfg.SocketURL)

	_, err = Config{Env: "staging"}.Resolve()
	assert.Error(t, err)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SCAN2CAD_ENV", "production")
	t.Setenv("SCAN2CAD_POLL_INTERVAL", "5s")
	t.Setenv("SCAN2CAD_TOKEN_FILE", "/tmp/scan2cad-token")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "/tmp/scan2cad-token", cfg.TokenFile)
}

// --------------------- Session ---------------------
func TestSessionPersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewSessionContext(path)
	require.NoError(t, s.Restore())
	assert.False(t, s.SignedIn())

	require.NoError(t, s.Login("tok", user.UserDTO{ID: 7, Email: "jane@example.com"}))

	restored := NewSessionContext(path)
	require.NoError(t, restored.Restore())
	assert.Equal(t, "tok", restored.Token())
	assert.Equal(t, uint(7), restored.User().ID)

	require.NoError(t, restored.Logout())
	require.NoError(t, restored.Logout())
	assert.False(t, restored.SignedIn())

	again := NewSessionContext(path)
	require.NoError(t, again.Restore())
	assert.False(t, again.SignedIn())
}

// --------------------- Calls ---------------------
func TestLoginStoresTokenAndSendsIt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in user.LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "jane@example.com", in.Email)
		writeJSON(w, http.StatusOK, user.LoginResponse{Token: "tok-1", User: user.UserDTO{ID: 7, Email: in.Email}})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, response.ErrorResponse{Error: "Authorization required"})
			return
		}
		writeJSON(w, http.StatusOK, user.UserDTO{ID: 7, AvailableHours: 3})
	})
	c := newTestClient(t, mux)

	u, err := c.Login(context.Background(), "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), u.ID)
	assert.True(t, c.Session().SignedIn())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.0, me.AvailableHours)

	require.NoError(t, c.Logout())
	_, err = c.Me(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindUnauthorized, apiErr.Kind)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status  int
		body    any
		kind    ErrorKind
		message string
	}{
		{http.StatusBadRequest, response.ErrorResponse{Error: "Validation failed", Details: map[string]string{"projectName": "required"}}, KindValidation, "Validation failed"},
		{http.StatusUnauthorized, nil, KindUnauthorized, "Incorrect credentials"},
		{http.StatusForbidden, response.ErrorResponse{Error: "admin only"}, KindForbidden, "admin only"},
		{http.StatusNotFound, nil, KindNotFound, "Resource not found"},
		{http.StatusConflict, response.ErrorResponse{Error: "insufficient credit hours"}, KindConflict, "insufficient credit hours"},
		{http.StatusConflict, nil, KindConflict, "Already exists"},
		{http.StatusInternalServerError, response.ErrorResponse{Error: "pq: connection refused"}, KindServer, retryMessage},
		{http.StatusBadGateway, nil, KindServer, retryMessage},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.body == nil {
					w.WriteHeader(tc.status)
					return
				}
				writeJSON(w, tc.status, tc.body)
			}))

			_, err := c.GetQuotation(context.Background(), "q1")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.kind, apiErr.Kind)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, tc.kind == KindServer, apiErr.Retryable())
		})
	}
}

func TestValidationDetailsSurface(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: "Validation failed", Details: map[string]string{"links": "bad"}})
	}))
	_, err := c.MyQuotations(context.Background())
	assert.True(t, IsValidation(err))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad", apiErr.Details["links"])
}

func TestNetworkFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{APIURL: url, RequestTimeout: time.Second})
	_, err := c.MyQuotations(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.True(t, apiErr.Retryable())
}

func TestNotificationsQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("unread"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []notification.Notification{{ID: "n1"}})
	}))
	list, err := c.Notifications(context.Background(), notification.ListOptions{UnreadOnly: true, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMarkAllReadCount(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		writeJSON(w, http.StatusOK, response.CountResponse{Count: 4})
	}))
	n, err := c.MarkAllNotificationsRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestDeleteNotificationNoContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	assert.NoError(t, c.DeleteNotification(context.Background(), "n1"))
}
