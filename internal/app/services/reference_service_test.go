package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceService_CachesLists(t *testing.T) {
	env := newTestEnv()
	refs := NewReferenceService(env.refs, 8, time.Minute)
	ctx := context.Background()

	subjects, err := refs.ListSubjects(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Calculus II", subjects[0].Name)

	_, err = refs.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, env.refs.calls, "second call served from cache")

	professors, err := refs.ListProfessors(ctx)
	require.NoError(t, err)
	require.Len(t, professors, 1)
	assert.Equal(t, 2, env.refs.calls)

	refs.Invalidate()
	_, err = refs.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, env.refs.calls)
}

func TestReferenceService_ErrorsAreNotCached(t *testing.T) {
	env := newTestEnv()
	refs := NewReferenceService(env.refs, 8, time.Minute)
	ctx := context.Background()

	env.refs.err = errors.New("db down")
	_, err := refs.ListSubjects(ctx)
	require.Error(t, err)

	env.refs.err = nil
	subjects, err := refs.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
}
