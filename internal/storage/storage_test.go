package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	cases := []struct {
		name     string
		role     Role
		index    int
		filename string
		want     string
	}{
		{"slugged", RoleOriginal, 0, "Blade Scan.STL", "quotations/q1/original/000-blade-scan.stl"},
		{"nested path", RoleInfo, 2, "docs/Brief v2.pdf", "quotations/q1/info/002-brief-v2.pdf"},
		{"no extension", RoleCompleted, 11, "README", "quotations/q1/completed/011-readme"},
		{"nothing left to slug", RoleIssued, 1, "###.step", "quotations/q1/issued/001-file.step"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ObjectKey("q1", tc.role, tc.index, tc.filename))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("quote.pdf"))
	assert.Equal(t, "application/octet-stream", ContentType("part.x_t"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "b", strings.NewReader("second"), 6, ""))
	require.NoError(t, s.Put(ctx, "a", strings.NewReader("first"), 5, "text/plain"))
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	rc, err := s.Get(ctx, "a")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "first", string(body))

	u, err := s.PresignGet(ctx, "a", "first.txt", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "memory://a")

	require.NoError(t, s.Remove(ctx, "a"))
	require.NoError(t, s.Remove(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.Error(t, err)
	_, err = s.PresignGet(ctx, "a", "", time.Minute)
	assert.Error(t, err)
}
