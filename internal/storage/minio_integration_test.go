//go:build integration

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupMinio(t *testing.T) MinioConfig {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "minio/minio:latest",
			Cmd:   []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			ExposedPorts: []string{"9000/tcp"},
			WaitingFor:   wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "9000")
	require.NoError(t, err)
	return MinioConfig{
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "scan2cad-test",
	}
}

func TestMinioStore(t *testing.T) {
	cfg := setupMinio(t)
	ctx := context.Background()

	s, err := NewMinioStore(ctx, cfg)
	require.NoError(t, err)
	// A second connect finds the bucket already there.
	_, err = NewMinioStore(ctx, cfg)
	require.NoError(t, err)

	key := ObjectKey("q1", RoleOriginal, 0, "Blade.stl")
	require.NoError(t, s.Put(ctx, key, strings.NewReader("solid blade"), 11, ContentType("Blade.stl")))
	assert.Error(t, s.Put(ctx, " ", strings.NewReader("x"), 1, ""))

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, "solid blade", string(body))

	u, err := s.PresignGet(ctx, key, "Blade.stl", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "response-content-disposition")

	require.NoError(t, s.Remove(ctx, key))
}
