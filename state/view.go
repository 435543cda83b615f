// Copyright (C) 2024, KipuBank contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

// View buffers mutations over an [Immutable] base. Nothing is visible to the
// base until Commit; a View that is never committed leaves the base untouched.
// A nil entry in [changes] marks a pending removal.
type View struct {
	base    Immutable
	changes map[string][]byte
}

func NewView(base Immutable) *View {
	return &View{
		base:    base,
		changes: map[string][]byte{},
	}
}

func (v *View) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if value, ok := v.changes[string(key)]; ok {
		if value == nil {
			return nil, database.ErrNotFound
		}
		return value, nil
	}
	return v.base.GetValue(ctx, key)
}

func (v *View) Insert(_ context.Context, key []byte, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	v.changes[string(key)] = value
	return nil
}

func (v *View) Remove(_ context.Context, key []byte) error {
	v.changes[string(key)] = nil
	return nil
}

// Commit applies all buffered changes to [mu]. Removals of keys the base
// never had are skipped rather than surfaced as errors.
func (v *View) Commit(ctx context.Context, mu Mutable) error {
	for key, value := range v.changes {
		if value == nil {
			if err := mu.Remove(ctx, []byte(key)); err != nil &&
				!errors.Is(err, database.ErrNotFound) {
				return err
			}
			continue
		}
		if err := mu.Insert(ctx, []byte(key), value); err != nil {
			return err
		}
	}
	return nil
}
