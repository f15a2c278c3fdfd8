/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package graphcache

import "github.com/rclzenoh/rclzenoh/snapshot"

// PersistTo writes every currently-known entity's key expression into
// store, keyed by itself (the key expression fully determines the
// decoded Entity, so there is nothing else worth storing). This is an
// optional warm-start aid, never consulted on the hot discovery path:
// real liveliness tokens from peers always take precedence once
// Attach's own query/subscribe completes.
func (c *Cache) PersistTo(store *snapshot.Store) error {
	for _, e := range c.Snapshot() {
		if err := store.Put(e.KeyExpr, nil); err != nil {
			return err
		}
	}
	return nil
}

// LoadFrom seeds the cache from a prior PersistTo snapshot, without
// notifying watchers — callers that care about add events should
// Watch() only after LoadFrom, or treat a warm start as silent.
func (c *Cache) LoadFrom(store *snapshot.Store) error {
	return store.ForEach(func(key string, _ []byte) error {
		if ent, ok := decode(key); ok {
			c.mu.Lock()
			c.entities[key] = ent
			c.mu.Unlock()
		}
		return nil
	})
}
