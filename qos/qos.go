/*************************************************************************
 * Copyright 2018 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package qos maps ROS2 QoS policies onto the Zenoh primitives that
// implement them: publisher cache depth, subscriber historical-query
// behavior, and the congestion-control/reliability knobs that govern a
// put() call (spec.md §4.4).
package qos

import (
	"fmt"
	"time"
)

// History selects how many samples a publisher retains for late-joining
// subscribers, and how many a subscriber is willing to catch up on.
type History int

const (
	HistoryKeepLast History = iota
	HistoryKeepAll
)

// Reliability controls whether a dropped sample is retried.
type Reliability int

const (
	ReliabilityReliable Reliability = iota
	ReliabilityBestEffort
)

// Durability controls whether a publisher answers historical queries
// from subscribers that attach after samples were already published.
type Durability int

const (
	DurabilityVolatile Durability = iota
	DurabilityTransientLocal
)

// CongestionControl controls what a publisher does when its outbound
// queue is full.
type CongestionControl int

const (
	CongestionControlDrop CongestionControl = iota
	CongestionControlBlock
)

// Liveliness is carried through but not enforced; see Policy.Liveliness.
type Liveliness int

const (
	LivelinessAutomatic Liveliness = iota
	LivelinessManualByTopic
)

// defaultKeepLastDepth is rclcpp's own "Default" QoS profile depth.
const defaultKeepLastDepth = 10

// zeroDepthSubstitute is substituted for Depth when History is KeepLast
// and Depth is explicitly zero (spec.md §4.4's effective_depth rule).
const zeroDepthSubstitute = 42

// Policy is a fully-resolved ROS2 QoS profile.
type Policy struct {
	History           History
	Depth             uint32 // meaningful only when History == HistoryKeepLast
	Reliability       Reliability
	Durability        Durability
	CongestionControl CongestionControl

	// Liveliness, Deadline, and Lifespan are not enforced by this
	// library; see SPEC_FULL.md §4.4. Liveliness is encoded in Compact4's
	// L field; Deadline and Lifespan are stored only and appear in no key
	// expression.
	Liveliness Liveliness
	Deadline   time.Duration
	Lifespan   time.Duration
}

// Default returns rclcpp's "default" QoS profile: keep-last(10),
// reliable, volatile.
func Default() Policy {
	return Policy{
		History:     HistoryKeepLast,
		Depth:       defaultKeepLastDepth,
		Reliability: ReliabilityReliable,
		Durability:  DurabilityVolatile,
	}
}

// SensorData returns the "sensor data" profile: keep-last(5), best
// effort, volatile — tuned for high-rate streams where a retransmit is
// worse than a dropped sample.
func SensorData() Policy {
	return Policy{
		History:     HistoryKeepLast,
		Depth:       5,
		Reliability: ReliabilityBestEffort,
		Durability:  DurabilityVolatile,
	}
}

// Normalize resolves LivelinessManualByTopic (unsupported, §4.4) down to
// Automatic, logging is left to the caller since qos has no logger of
// its own; it returns true when a fold occurred so the caller can warn.
func (p *Policy) Normalize() (folded bool) {
	if p.Liveliness == LivelinessManualByTopic {
		p.Liveliness = LivelinessAutomatic
		folded = true
	}
	if p.History == HistoryKeepLast && p.Depth == 0 {
		p.Depth = zeroDepthSubstitute
	}
	return folded
}

// EffectiveDepth returns the number of samples a publisher should retain
// in its replay cache: Depth for KeepLast, and an unbounded-in-practice
// large cap for KeepAll (Zenoh has no literal "unbounded" history depth,
// so KeepAll is represented as a generous cache size rather than as an
// actually-unbounded structure).
func (p Policy) EffectiveDepth() uint32 {
	if p.History == HistoryKeepAll {
		return 1 << 16
	}
	if p.Depth == 0 {
		return zeroDepthSubstitute
	}
	return p.Depth
}

// IsReliable reports whether put() failures should be retried.
func (p Policy) IsReliable() bool {
	return p.Reliability == ReliabilityReliable
}

// CachesSamples reports whether a publisher must keep a replay cache at
// all: a TransientLocal publisher answers historical queries from its
// cache, a Volatile one need not keep anything beyond what in-flight
// delivery requires.
func (p Policy) CachesSamples() bool {
	return p.Durability == DurabilityTransientLocal
}

// SubscriberQueriesHistory reports whether a subscriber should issue a
// Zenoh query against the publisher's liveliness-token key expression on
// creation, to retrieve retained samples before falling back to live
// subscription delivery.
func (p Policy) SubscriberQueriesHistory() bool {
	return p.Durability == DurabilityTransientLocal
}

// Compact4 renders the policy's History/Reliability/Durability/Liveliness
// into the four-field code that ends every data key expression
// (keyexpr.DataKeyExpr): H<depth>R<r>D<d>L<l>, with depth written in
// decimal, so the code's length varies with the depth.
func (p Policy) Compact4() string {
	r := "1"
	if p.Reliability == ReliabilityBestEffort {
		r = "0"
	}
	d := "1"
	if p.Durability == DurabilityTransientLocal {
		d = "0"
	}
	l := "1"
	if p.Liveliness == LivelinessManualByTopic {
		l = "0"
	}
	return fmt.Sprintf("H%dR%sD%sL%s", p.EffectiveDepth(), r, d, l)
}
