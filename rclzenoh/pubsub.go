/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rclzenoh

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/rclzenoh/rclzenoh/attachment"
	"github.com/rclzenoh/rclzenoh/graphcache"
	"github.com/rclzenoh/rclzenoh/qos"
	"github.com/rclzenoh/rclzenoh/transport"
)

// Message is one delivered sample: the CDR-encoded body plus its
// decoded attachment (sequence number, source timestamp, publisher GID).
type Message struct {
	Attachment attachment.Attachment
	Payload    []byte
}

func deliverSample(smp transport.Sample, cb func(Message)) {
	var a attachment.Attachment
	if len(smp.Attachment) == attachment.Size {
		a, _ = attachment.Decode(smp.Attachment)
	}
	cb(Message{Attachment: a, Payload: smp.Payload})
}

// Publisher sends CDR-encoded samples on one topic, framing each with a
// 33-byte attachment carrying a monotonic sequence number, the current
// time, and this node's GID (spec.md §3).
type Publisher struct {
	node    *Node
	token   *graphcache.Token
	pub     *transport.Publisher
	topic   string
	policy  qos.Policy
	limiter *rate.Limiter // non-nil only under CongestionControl::Block
}

// newPublisherLimiter builds the token-bucket limiter a Block-mode
// publisher waits on before every Put, sized off the profile's own
// depth: a publisher that only ever intends to keep Depth samples in
// flight has no business emitting faster than it can replay them.
func newPublisherLimiter(policy qos.Policy) *rate.Limiter {
	if policy.CongestionControl != qos.CongestionControlBlock {
		return nil
	}
	burst := int(policy.EffectiveDepth())
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(burst*10), burst)
}

// Publish sends payload (already CDR-encoded by generated code) with a
// freshly-built attachment. Under CongestionControl::Block, Publish
// waits on the publisher's own rate limiter rather than failing fast
// (spec.md §5: "Publisher send() may block in CongestionControl::Block
// mode"); under Drop it behaves exactly like the transport's own Put.
func (p *Publisher) Publish(payload []byte) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(context.Background()); err != nil {
			return err
		}
	}
	seq := p.node.seq.Add(1)
	gid := p.node.gid()
	att := attachment.Encode(attachment.Attachment{
		SequenceNumber:       seq,
		SourceTimestampNanos: time.Now().UnixNano(),
		GID:                  gid,
	})
	return p.pub.Put(payload, att)
}

func (p *Publisher) Topic() string { return p.topic }

// Destroy undeclares the publisher's liveliness token.
func (p *Publisher) Destroy() error {
	return p.token.Undeclare()
}

// Subscriber delivers decoded Messages from one topic to a callback
// registered at creation time.
type Subscriber struct {
	node  *Node
	token *graphcache.Token
	sub   *transport.Subscriber
	topic string
}

func (s *Subscriber) Topic() string { return s.topic }

// Destroy undeclares the subscriber's liveliness token and stops
// delivery.
func (s *Subscriber) Destroy() error {
	s.sub.Undeclare()
	return s.token.Undeclare()
}
