/*************************************************************************
 * Copyright 2018 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package keyexpr builds the Zenoh key expressions rmw_zenoh_cpp uses to
// address data traffic and to advertise/discover graph entities over
// liveliness tokens (spec.md §3, §4.5).
package keyexpr

import (
	"fmt"
	"strings"

	"github.com/rclzenoh/rclzenoh/qos"
)

// percentEscape replaces the Zenoh key-expression reserved characters
// '*' '?' '#' '$' '{' '}' '/' inside a single segment value (never inside
// a segment boundary we constructed ourselves) so a topic or type name
// containing them cannot be mistaken for wildcards or selector syntax.
func percentEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '#', '$', '{', '}', '/':
			fmt.Fprintf(&b, "%%%02X", s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// EntityKind is the two-character tag rmw_zenoh_cpp uses to identify
// what a liveliness token describes.
type EntityKind string

const (
	EntityNode        EntityKind = "NN"
	EntityPublisher   EntityKind = "MP"
	EntitySubscriber  EntityKind = "MS"
	EntityService     EntityKind = "SS"
	EntityClient      EntityKind = "SC"
)

// DataKeyExpr builds the key expression data traffic for a topic or
// service is published/queried under. resource's leading '/' (every
// fully-qualified ROS2 name has one) is replaced by the domain_id
// segment already being prepended, rather than escaped into a spurious
// empty leading segment:
//
//	<domain_id>/<topic_or_service>/<type_name>/<type_hash>/<qos_compact>
func DataKeyExpr(domainID uint32, resource, typeName, typeHash string, p qos.Policy) string {
	resource = strings.TrimPrefix(resource, "/")
	return fmt.Sprintf("%d/%s/%s/%s/%s",
		domainID,
		percentEscape(resource),
		percentEscape(typeName),
		percentEscape(typeHash),
		p.Compact4(),
	)
}

// LivelinessKeyExpr builds the key expression a graph entity's
// liveliness token is declared under. segments are joined in order
// after the fixed fields; what each caller passes depends on kind (a
// Node token carries namespace and node name; an endpoint token carries
// the topic or service name and the type name). entityID and every
// segment are percent-escaped so each occupies exactly one chunk.
//
//	@ros2_lv/<domain_id>/<zenoh_id>/<node_id>/<entity_id>/<kind>/<segments...>
func LivelinessKeyExpr(domainID uint32, zenohID, nodeID, entityID string, kind EntityKind, segments ...string) string {
	parts := []string{"@ros2_lv", fmt.Sprintf("%d", domainID), zenohID, nodeID, percentEscape(entityID), string(kind)}
	for _, s := range segments {
		parts = append(parts, percentEscape(s))
	}
	return strings.Join(parts, "/")
}

// LivelinessQueryExpr returns a selector that matches every liveliness
// token of the given kind within a domain, for GraphCache's initial
// discovery query and for its subscription key expression.
func LivelinessQueryExpr(domainID uint32, kind EntityKind) string {
	if kind == "" {
		return fmt.Sprintf("@ros2_lv/%d/**", domainID)
	}
	return fmt.Sprintf("@ros2_lv/%d/*/*/*/%s/**", domainID, kind)
}
