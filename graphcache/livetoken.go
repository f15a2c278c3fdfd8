/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package graphcache

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rclzenoh/rclzenoh/keyexpr"
	"github.com/rclzenoh/rclzenoh/transport"
)

// initialQueryTimeout bounds how long Attach waits for replies to its
// startup query before concluding the graph's initial state is known.
const initialQueryTimeout = 300 * time.Millisecond

// Token is a declared liveliness token; Undeclare retracts it.
type Token struct {
	session *transport.Session
	keyExpr string
}

func (t *Token) Undeclare() error {
	return t.session.UndeclareLiveliness(t.keyExpr)
}

// Declare advertises keyExpr as alive on session.
func Declare(session *transport.Session, keyExpr string) (*Token, error) {
	if err := session.DeclareLiveliness(keyExpr); err != nil {
		return nil, err
	}
	return &Token{session: session, keyExpr: keyExpr}, nil
}

// Attach subscribes session to every liveliness token in domainID and
// feeds add/remove events into c. To pick up tokens that were declared
// before this subscription existed it also runs an initial query against
// the same prefix. The query and the subscribe run concurrently via
// errgroup; Attach returns once both are done, the query after
// initialQueryTimeout has elapsed. Context.Open calls Attach at startup.
func Attach(session *transport.Session, domainID uint32, c *Cache) (*transport.Subscriber, error) {
	pattern := keyexpr.LivelinessQueryExpr(domainID, "")

	var g errgroup.Group
	var sub *transport.Subscriber
	g.Go(func() error {
		s, err := session.DeclareSubscriber(pattern, func(smp transport.Sample) {
			if len(smp.Payload) == 1 && smp.Payload[0] == 0 {
				c.Remove(smp.KeyExpr)
			} else {
				c.Upsert(smp.KeyExpr)
			}
		})
		sub = s
		return err
	})
	g.Go(func() error {
		replies, err := session.Get(pattern, nil, initialQueryTimeout)
		if err != nil {
			return err
		}
		for smp := range replies {
			c.Upsert(smp.KeyExpr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sub, nil
}
