// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func TestViewReadsThrough(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	base := NewInMemoryStore()
	require.NoError(base.Insert(ctx, []byte("k"), []byte("v")))

	view := NewView(base)
	got, err := view.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), got)

	_, err = view.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestViewBuffersUntilCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	base := NewInMemoryStore()
	require.NoError(base.Insert(ctx, []byte("old"), []byte("1")))

	view := NewView(base)
	require.NoError(view.Insert(ctx, []byte("new"), []byte("2")))
	require.NoError(view.Remove(ctx, []byte("old")))

	// The view sees its own changes.
	got, err := view.GetValue(ctx, []byte("new"))
	require.NoError(err)
	require.Equal([]byte("2"), got)
	_, err = view.GetValue(ctx, []byte("old"))
	require.ErrorIs(err, database.ErrNotFound)

	// The base does not, until commit.
	_, err = base.GetValue(ctx, []byte("new"))
	require.ErrorIs(err, database.ErrNotFound)
	got, err = base.GetValue(ctx, []byte("old"))
	require.NoError(err)
	require.Equal([]byte("1"), got)

	require.NoError(view.Commit(ctx, base))
	got, err = base.GetValue(ctx, []byte("new"))
	require.NoError(err)
	require.Equal([]byte("2"), got)
	_, err = base.GetValue(ctx, []byte("old"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestViewDiscard(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	base := NewInMemoryStore()

	view := NewView(base)
	require.NoError(view.Insert(ctx, []byte("k"), []byte("v")))

	// Dropping the view without commit leaves the base untouched.
	_, err := base.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestViewRemoveMissingKey(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	base := NewInMemoryStore()

	view := NewView(base)
	require.NoError(view.Remove(ctx, []byte("never")))
	require.NoError(view.Commit(ctx, base))
}

func TestInMemoryStoreIterator(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(store.Insert(ctx, []byte{0x0, 0x2}, []byte("b")))
	require.NoError(store.Insert(ctx, []byte{0x0, 0x1}, []byte("a")))
	require.NoError(store.Insert(ctx, []byte{0x1, 0x1}, []byte("other prefix")))

	it := store.NewIteratorWithPrefix([]byte{0x0})
	defer it.Release()

	require.True(it.Next())
	require.Equal([]byte{0x0, 0x1}, it.Key())
	require.Equal([]byte("a"), it.Value())
	require.True(it.Next())
	require.Equal([]byte{0x0, 0x2}, it.Key())
	require.Equal([]byte("b"), it.Value())
	require.False(it.Next())
	require.NoError(it.Error())
}
