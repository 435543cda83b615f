// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func TestDatabaseCRUD(t *testing.T) {
	require := require.New(t)
	db, _, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)
	defer func() {
		_ = db.Close()
	}()

	_, err = db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
	has, err := db.Has([]byte("missing"))
	require.NoError(err)
	require.False(has)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	got, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), got)

	require.NoError(db.Delete([]byte("k")))
	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestDatabaseBatch(t *testing.T) {
	require := require.New(t)
	db, _, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)
	defer func() {
		_ = db.Close()
	}()

	b := db.NewBatch()
	require.NoError(b.Put([]byte("a"), []byte("1")))
	require.NoError(b.Put([]byte("b"), []byte("2")))
	require.NoError(b.Delete([]byte("a")))
	require.Positive(b.Size())
	require.NoError(b.Write())

	_, err = db.Get([]byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	got, err := db.Get([]byte("b"))
	require.NoError(err)
	require.Equal([]byte("2"), got)
}

func TestDatabaseIteratorWithPrefix(t *testing.T) {
	require := require.New(t)
	db, _, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)
	defer func() {
		_ = db.Close()
	}()

	require.NoError(db.Put([]byte{0x0, 0x2}, []byte("b")))
	require.NoError(db.Put([]byte{0x0, 0x1}, []byte("a")))
	require.NoError(db.Put([]byte{0x1, 0x0}, []byte("outside")))

	it := db.NewIteratorWithPrefix([]byte{0x0})
	defer it.Release()

	var keys [][]byte
	for it.Next() {
		keys = append(keys, it.Key())
	}
	require.NoError(it.Error())
	require.Equal([][]byte{{0x0, 0x1}, {0x0, 0x2}}, keys)
}

func TestDatabaseClosed(t *testing.T) {
	require := require.New(t)
	db, _, err := New(t.TempDir(), NewDefaultConfig())
	require.NoError(err)
	require.NoError(db.Close())

	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Put([]byte("k"), nil), database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)

	it := db.NewIteratorWithPrefix(nil)
	defer it.Release()
	require.False(it.Next())
	require.ErrorIs(it.Error(), database.ErrClosed)
}

func BenchmarkBatchInsertion(b *testing.B) {
	const batchSize = 10_000
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
