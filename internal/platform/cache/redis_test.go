package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPingsConfiguredInstance(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := New(context.Background(), Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := srv.DB(0).Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewSelectsDatabase(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := New(context.Background(), Config{Addr: srv.Addr(), DB: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := srv.DB(2).Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.False(t, srv.DB(0).Exists("k"))
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := New(context.Background(), Config{Addr: addr})
	require.Error(t, err)
}
