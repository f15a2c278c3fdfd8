/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rclzenoh is the client-library surface: Context, Node,
// Publisher, Subscriber, Client, and Server, built entirely on top of
// transport.Session, graphcache.Cache, qos.Policy, keyexpr, attachment,
// and cdr (spec.md §2, §4.6-§4.10).
package rclzenoh

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/rclzenoh/rclzenoh/graphcache"
	"github.com/rclzenoh/rclzenoh/keyexpr"
	"github.com/rclzenoh/rclzenoh/rlog"
	"github.com/rclzenoh/rclzenoh/transport"
	"github.com/rclzenoh/rclzenoh/zenohcfg"
)

var (
	ErrContextClosed = errors.New("rclzenoh: context is closed")
	ErrNodeClosed    = errors.New("rclzenoh: node is closed")
)

// envDomainID is the environment variable ROS2 uses to select a domain;
// unset or unparseable yields the documented default of domain 0.
const envDomainID = "ROS_DOMAIN_ID"

// DomainIDFromEnv reads ROS_DOMAIN_ID, defaulting to 0 when unset,
// empty, negative, or not an integer.
func DomainIDFromEnv() uint32 {
	v := os.Getenv(envDomainID)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// Context owns one Zenoh session for a single ROS2 domain and the
// GraphCache view of every entity declared anywhere in that domain.
type Context struct {
	DomainID uint32

	session *transport.Session
	graph   *graphcache.Cache
	log     *rlog.Logger
	zid     string

	mu     sync.Mutex
	nodes  map[string]*Node
	closed bool
	unsub  *transport.Subscriber
}

// Open creates a Context: it starts (or joins) a Zenoh session per cfg,
// then performs the GraphCache's initial discovery query and subscribe
// concurrently (graphcache.Attach).
func Open(domainID uint32, cfg zenohcfg.Config, log *rlog.Logger) (*Context, error) {
	if log == nil {
		log = rlog.Discard()
	}
	zid := uuid.New().String()
	sess := transport.New(zid, log)

	for _, addr := range cfg.Listen {
		if err := sess.Listen(stripScheme(addr)); err != nil {
			sess.Close()
			return nil, fmt.Errorf("rclzenoh: listen %s: %w", addr, err)
		}
	}
	for _, addr := range cfg.Connect {
		if err := sess.Connect(stripScheme(addr)); err != nil {
			log.Warn("rclzenoh: failed to connect to configured peer", rlog.KV("addr", addr), rlog.KVErr(err))
		}
	}

	graph := graphcache.New()
	sub, err := graphcache.Attach(sess, domainID, graph)
	if err != nil {
		sess.Close()
		return nil, err
	}

	return &Context{
		DomainID: domainID,
		session:  sess,
		graph:    graph,
		log:      log,
		zid:      zid,
		nodes:    map[string]*Node{},
		unsub:    sub,
	}, nil
}

// OpenFromEnv is the usual entry point for a ROS2 process: it resolves
// the domain from ROS_DOMAIN_ID and the session config from
// ZENOH_SESSION_CONFIG_URI (zenohcfg.LoadFromEnv), then calls Open.
func OpenFromEnv(log *rlog.Logger) (*Context, error) {
	cfg, err := zenohcfg.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	return Open(DomainIDFromEnv(), cfg, log)
}

// stripScheme removes a leading "tcp/" as rmw_zenoh_cpp style endpoint
// strings use ("tcp/host:port"); net.Dial wants "host:port".
func stripScheme(addr string) string {
	const tcpPrefix = "tcp/"
	if len(addr) > len(tcpPrefix) && addr[:len(tcpPrefix)] == tcpPrefix {
		return addr[len(tcpPrefix):]
	}
	return addr
}

// Graph returns the live GraphCache view of this domain.
func (c *Context) Graph() *graphcache.Cache { return c.graph }

// ZenohID is this session's own identifier, embedded in every
// liveliness token this context's nodes declare. Attachment GIDs are
// derived from each node's own id, not from it.
func (c *Context) ZenohID() string { return c.zid }

// CreateNode declares a new Node liveliness token and returns a handle
// for creating publishers, subscribers, clients, and servers under it.
func (c *Context) CreateNode(name, namespace string) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrContextClosed
	}
	nodeID := uuid.New().String()
	n := &Node{
		ctx:       c,
		name:      name,
		namespace: namespace,
		id:        nodeID,
	}
	ke := keyexpr.LivelinessKeyExpr(c.DomainID, c.zid, nodeID, nodeID, keyexpr.EntityNode, namespace, name)
	tok, err := graphcache.Declare(c.session, ke)
	if err != nil {
		return nil, err
	}
	n.selfToken = tok
	c.nodes[nodeID] = n
	return n, nil
}

func (c *Context) removeNode(n *Node) {
	c.mu.Lock()
	delete(c.nodes, n.id)
	c.mu.Unlock()
}

// Close tears down every node and the underlying session.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	nodes := make([]*Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		nodes = append(nodes, n)
	}
	c.mu.Unlock()

	for _, n := range nodes {
		n.Destroy()
	}
	if c.unsub != nil {
		c.unsub.Undeclare()
	}
	return c.session.Close()
}
