package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/pkg/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, h http.Handler) (*app, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg, err := portal.Config{APIURL: srv.URL, TokenFile: filepath.Join(t.TempDir(), "token")}.Resolve()
	require.NoError(t, err)
	a, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	out := &bytes.Buffer{}
	a.out = out
	return a, out
}

func reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSplitPair(t *testing.T) {
	k, v, err := splitPair("f1=2.5")
	require.NoError(t, err)
	assert.Equal(t, "f1", k)
	assert.Equal(t, "2.5", v)

	_, _, err = splitPair("f1")
	assert.Error(t, err)
	_, _, err = splitPair("=3")
	assert.Error(t, err)
}

func TestStringList(t *testing.T) {
	var s stringList
	require.NoError(t, s.Set("a"))
	require.NoError(t, s.Set("b"))
	assert.Equal(t, "a,b", s.String())
}

func TestCommandsRequireSession(t *testing.T) {
	a, _ := newTestApp(t, http.NotFoundHandler())
	assert.ErrorIs(t, cmdList(context.Background(), a, nil), errNotSignedIn)
	assert.ErrorIs(t, cmdShow(context.Background(), a, []string{"q1"}), errNotSignedIn)
}

func TestLoginListAndShow(t *testing.T) {
	me := user.UserDTO{ID: 7, Email: "jane@example.com", Name: "Jane", Role: user.RoleUser, AvailableHours: 1}
	q := quotation.Quotation{
		ID:           "q1",
		UserID:       7,
		ProjectName:  "Impeller",
		Status:       quotation.StatusQuoted,
		RequiredHour: 3,
		Files:        []quotation.File{{ID: "f1", OriginalName: "blade.stl", Size: 2048, RequiredHour: 3}},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		reply(w, user.LoginResponse{Token: "tok", User: me})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) { reply(w, me) })
	mux.HandleFunc("/quotations/my-quotations", func(w http.ResponseWriter, r *http.Request) {
		reply(w, []quotation.Quotation{q})
	})
	mux.HandleFunc("/quotations/q1", func(w http.ResponseWriter, r *http.Request) { reply(w, q) })
	a, out := newTestApp(t, mux)
	ctx := context.Background()

	require.NoError(t, cmdLogin(ctx, a, []string{"-email", "jane@example.com", "-password", "secret123"}))
	assert.Contains(t, out.String(), "signed in as jane@example.com (user)")

	out.Reset()
	require.NoError(t, cmdList(ctx, a, nil))
	assert.Contains(t, out.String(), "Impeller")
	assert.Contains(t, out.String(), "3.00")

	out.Reset()
	require.NoError(t, cmdShow(ctx, a, []string{"q1"}))
	assert.Contains(t, out.String(), "blade.stl")
	assert.Contains(t, out.String(), "2KB")
	assert.Contains(t, out.String(), "Available: reject")
	assert.Contains(t, out.String(), "Missing 2.00 hours")

	assert.Error(t, cmdShow(ctx, a, nil))
}
