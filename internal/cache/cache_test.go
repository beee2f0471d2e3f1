package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type options struct {
	Names []string `json:"names"`
}

func TestSetGetRoundTrip(t *testing.T) {
	c := New(4, time.Minute, nil)
	require.NoError(t, c.Set("filter-options", options{Names: []string{"a", "b"}}))

	var got options
	require.True(t, c.Get("filter-options", &got))
	assert.Equal(t, []string{"a", "b"}, got.Names)

	assert.False(t, c.Get("missing", &got))
}

func TestEntriesExpire(t *testing.T) {
	c := New(4, 20*time.Millisecond, nil)
	require.NoError(t, c.Set("k", 1))

	require.Eventually(t, func() bool {
		var v int
		return !c.Get("k", &v)
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidateRunsHooks(t *testing.T) {
	c := New(4, time.Minute, nil)
	require.NoError(t, c.Set("a", 1))
	require.NoError(t, c.Set("b", 2))

	calls := 0
	c.OnInvalidate(func() { calls++ })
	c.Invalidate()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, calls)
}

func TestDeletePrefix(t *testing.T) {
	c := New(8, time.Minute, nil)
	require.NoError(t, c.Set("filters:options", 1))
	require.NoError(t, c.Set("filters:metadata", 2))
	require.NoError(t, c.Set("tasks:list", 3))

	assert.Equal(t, 2, c.DeletePrefix("filters:"))
	assert.Equal(t, 1, c.Len())
}

func TestSizeBound(t *testing.T) {
	c := New(2, time.Minute, nil)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(k, k))
	}
	assert.Equal(t, 2, c.Len())
	var v string
	assert.False(t, c.Get("a", &v))
}

func TestFetchCachesSuccessOnly(t *testing.T) {
	c := New(4, time.Minute, nil)
	ctx := context.Background()
	calls := 0

	boom := errors.New("boom")
	_, err := Fetch(ctx, c, "k", func(context.Context) ([]string, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"x"}, nil
	}
	v, err := Fetch(ctx, c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, v)

	v, err = Fetch(ctx, c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, v)
	assert.Equal(t, 2, calls)
}

func TestFetchWithNilCache(t *testing.T) {
	v, err := Fetch(context.Background(), nil, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	var c *Cache
	assert.NotPanics(t, c.Invalidate)
}

func TestSetRejectsUnencodable(t *testing.T) {
	c := New(1, time.Minute, nil)
	require.Error(t, c.Set("ch", make(chan int)))
}
