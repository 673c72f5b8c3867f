package report

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_DependsOnContentAndOptions(t *testing.T) {
	a := Key([]byte("file-a"), "opts")
	assert.Equal(t, a, Key([]byte("file-a"), "opts"))
	assert.NotEqual(t, a, Key([]byte("file-b"), "opts"))
	assert.NotEqual(t, a, Key([]byte("file-a"), "other"))
	assert.Len(t, a, 64)
}

func TestCache_GetOrBuild(t *testing.T) {
	c := NewCache(4)
	builds := 0
	build := func() (*Report, error) {
		builds++
		return &Report{}, nil
	}

	first, cached, err := c.GetOrBuild("k1", "a.xlsx", build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "a.xlsx", first.Filename)

	second, cached, err := c.GetOrBuild("k1", "a-copy.xlsx", build)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)

	got, err := c.Get(first.ID)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestCache_DifferentFilesDoNotShare(t *testing.T) {
	c := NewCache(4)
	a, _, err := c.GetOrBuild("k1", "a.xlsx", func() (*Report, error) { return &Report{Summary: Summary{Records: 1}}, nil })
	require.NoError(t, err)
	b, _, err := c.GetOrBuild("k2", "b.xlsx", func() (*Report, error) { return &Report{Summary: Summary{Records: 2}}, nil })
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1, a.Report.Summary.Records)
	assert.Equal(t, 2, b.Report.Summary.Records)
	assert.Equal(t, 2, c.Len())
}

func TestCache_BuildErrorNotCached(t *testing.T) {
	c := NewCache(4)
	boom := errors.New("boom")

	_, _, err := c.GetOrBuild("k1", "a.xlsx", func() (*Report, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Eviction(t *testing.T) {
	c := NewCache(1)
	old, _, err := c.GetOrBuild("k1", "a.xlsx", func() (*Report, error) { return &Report{}, nil })
	require.NoError(t, err)
	_, _, err = c.GetOrBuild("k2", "b.xlsx", func() (*Report, error) { return &Report{}, nil })
	require.NoError(t, err)

	_, err = c.Get(old.ID)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.Equal(t, 1, c.Len())
}

func TestCache_UnknownID(t *testing.T) {
	_, err := NewCache(2).Get("missing")
	assert.True(t, eris.Is(err, ErrNotFound))
}
