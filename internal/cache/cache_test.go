package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCachesWithinTTL(t *testing.T) {
	c := New[int](time.Minute)

	calls := 0
	fetch := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := c.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)
}

func TestGetRefetchesAfterTTL(t *testing.T) {
	c := New[int](20 * time.Millisecond)

	calls := 0
	fetch := func() (int, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get(fetch)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	v, err := c.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := New[int](time.Minute)

	boom := errors.New("boom")
	_, err := c.Get(func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := c.Get(func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestInvalidate(t *testing.T) {
	c := New[int](time.Minute)

	calls := 0
	fetch := func() (int, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get(fetch)
	require.NoError(t, err)

	c.Invalidate()

	v, err := c.Get(fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
