/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package graphcache maintains this process's view of the ROS2 graph:
// every node, publisher, subscriber, service, and client currently
// alive anywhere in the domain, built entirely from liveliness-token
// add/remove events (spec.md §4.6). It is exposed through
// Context.Graph(); Subscriber and Client do not consult it.
package graphcache

import (
	"strings"
	"sync"

	"github.com/rclzenoh/rclzenoh/keyexpr"
)

// Entity is one graph member, decoded from a liveliness key expression
// of the form "@ros2_lv/<domain>/<zenoh_id>/<node_id>/<entity_id>/<kind>/<segments...>".
type Entity struct {
	KeyExpr  string
	DomainID string
	ZenohID  string
	NodeID   string
	EntityID string
	Kind     keyexpr.EntityKind
	Segments []string // kind-specific trailing segments: topic, type, qos, ...
}

// EventKind distinguishes an add from a remove notification.
type EventKind int

const (
	EventAdded EventKind = iota
	EventRemoved
)

type watcher struct {
	id uint64
	cb func(EventKind, Entity)
}

// Cache is a concurrency-safe table of graph entities, keyed by their
// full liveliness key expression.
type Cache struct {
	mu       sync.RWMutex
	entities map[string]Entity
	watchers []watcher
	nextID   uint64
}

func New() *Cache {
	return &Cache{entities: map[string]Entity{}}
}

// Upsert decodes keyExpr and adds (or replaces) the entity it describes.
// Malformed key expressions are ignored rather than erroring, since a
// malformed token from a foreign participant shouldn't take down our
// own graph view.
func (c *Cache) Upsert(keyExpr string) {
	ent, ok := decode(keyExpr)
	if !ok {
		return
	}
	c.mu.Lock()
	c.entities[keyExpr] = ent
	ws := append([]watcher(nil), c.watchers...)
	c.mu.Unlock()
	for _, w := range ws {
		w.cb(EventAdded, ent)
	}
}

// Remove deletes the entity previously added under keyExpr, if any, and
// notifies watchers.
func (c *Cache) Remove(keyExpr string) {
	c.mu.Lock()
	ent, ok := c.entities[keyExpr]
	if ok {
		delete(c.entities, keyExpr)
	}
	ws := append([]watcher(nil), c.watchers...)
	c.mu.Unlock()
	if !ok {
		return
	}
	for _, w := range ws {
		w.cb(EventRemoved, ent)
	}
}

// Watch registers cb to be called for every future Upsert/Remove. The
// returned function unregisters it.
func (c *Cache) Watch(cb func(EventKind, Entity)) (unwatch func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers = append(c.watchers, watcher{id: id, cb: cb})
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, w := range c.watchers {
			if w.id == id {
				c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns every entity currently known, in no particular order.
func (c *Cache) Snapshot() []Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entity, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e)
	}
	return out
}

// ByKind returns every currently-known entity of the given kind.
func (c *Cache) ByKind(kind keyexpr.EntityKind) []Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entity
	for _, e := range c.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ByNode returns every entity belonging to nodeID.
func (c *Cache) ByNode(nodeID string) []Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entity
	for _, e := range c.entities {
		if e.NodeID == nodeID {
			out = append(out, e)
		}
	}
	return out
}

func decode(keyExpr string) (Entity, bool) {
	parts := strings.Split(keyExpr, "/")
	if len(parts) < 6 || parts[0] != "@ros2_lv" {
		return Entity{}, false
	}
	return Entity{
		KeyExpr:  keyExpr,
		DomainID: parts[1],
		ZenohID:  parts[2],
		NodeID:   parts[3],
		EntityID: parts[4],
		Kind:     keyexpr.EntityKind(parts[5]),
		Segments: parts[6:],
	}, true
}
