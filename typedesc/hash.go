/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package typedesc

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rclzenoh/rclzenoh/rosidl"
)

// Hash computes the RIHS01 type hash of a Document: SHA-256 over its
// canonical JSON rendering, hex-encoded and prefixed per spec.md §3.
//
// This library's own hashes are internally consistent and
// deterministic — the same interface always hashes to the same string,
// and distinct interfaces hash differently (spec.md §8). Byte-exact
// reproduction of the numeric type_id constants a real ROS2 install
// would compute is NOT attempted: those constants come from
// type_description_interfaces/msg/FieldType.msg, and reproducing them
// from memory without a reference installation to check against would
// risk silently misrepresenting cross-compatibility. See DESIGN.md.
func Hash(doc *Document) string {
	sum := sha256.Sum256([]byte(doc.CanonicalJSON()))
	return "RIHS01_" + hex.EncodeToString(sum[:])
}

func ftPrimitive(name string) FieldType             { return FieldType{Kind: KindPrimitive, PrimitiveType: name} }
func ftNested(name string) FieldType                { return FieldType{Kind: KindNestedType, NestedTypeName: name} }
func ftFixedSeqPrimitive(name string, c uint32) FieldType {
	return FieldType{Kind: KindFixedSequence, Capacity: c, PrimitiveType: name}
}
func ftBoundedSeqNested(name string, c uint32) FieldType {
	return FieldType{Kind: KindBoundedSequence, Capacity: c, NestedTypeName: name}
}

// serviceEventInfoTypeName and timeTypeName are the well-known companion
// types every synthesized service/action wrapper refers to.
const (
	serviceEventInfoTypeName = "rcl_interfaces/msg/ServiceEventInfo"
	timeTypeName             = "builtin_interfaces/msg/Time"
)

func serviceEventInfoDescr() TypeDescription {
	return TypeDescription{
		TypeName: serviceEventInfoTypeName,
		Fields: []FieldDescriptor{
			{Name: "event_id", Type: ftFixedSeqPrimitive("uint8", 16)},
			{Name: "source_timestamp", Type: ftPrimitive("int64")},
		},
	}
}

func timeDescr() TypeDescription {
	return TypeDescription{
		TypeName: timeTypeName,
		Fields: []FieldDescriptor{
			{Name: "sec", Type: ftPrimitive("int32")},
			{Name: "nanosec", Type: ftPrimitive("uint32")},
		},
	}
}

// expand builds md's own TypeDescription plus every type it transitively
// references, resolved against reg. Unlike BuildDocument it returns the
// reference map directly so callers composing several expansions (a
// service's request and response, an action's six companion types) can
// merge them before deduping and sorting once at the end.
func expand(reg *rosidl.Registry, md rosidl.MessageDef) (TypeDescription, map[string]TypeDescription, error) {
	primary := BuildMessage(md)
	refs := map[string]TypeDescription{}
	if err := collectReferences(reg, md, map[string]bool{md.Name.String(): true}, refs); err != nil {
		return TypeDescription{}, nil, err
	}
	return *primary, refs, nil
}

// BuildService builds the hashable Document for a service definition.
// Per spec.md §4.2 a service hash covers three reference types: the
// request, the response, and a synthesized Event type. The Event type
// mirrors the real ROS2 convention of an implicit
// "<Service>_Event" message carrying a ServiceEventInfo header plus the
// request and response each wrapped as a bounded sequence of capacity 1
// (present only when that side of the event fired).
func BuildService(reg *rosidl.Registry, sd rosidl.ServiceDef) (*Document, error) {
	reqTD, reqRefs, err := expand(reg, sd.Request)
	if err != nil {
		return nil, err
	}
	respTD, respRefs, err := expand(reg, sd.Response)
	if err != nil {
		return nil, err
	}

	all := map[string]TypeDescription{}
	mergeRefs(all, reqRefs)
	mergeRefs(all, respRefs)
	all[reqTD.TypeName] = reqTD
	all[respTD.TypeName] = respTD
	all[serviceEventInfoTypeName] = serviceEventInfoDescr()

	eventTD := TypeDescription{
		TypeName: sd.Name.String() + "_Event",
		Fields: []FieldDescriptor{
			{Name: "info", Type: ftNested(serviceEventInfoTypeName)},
			{Name: "request", Type: ftBoundedSeqNested(reqTD.TypeName, 1)},
			{Name: "response", Type: ftBoundedSeqNested(respTD.TypeName, 1)},
		},
	}
	all[eventTD.TypeName] = eventTD

	primary := TypeDescription{TypeName: sd.Name.String()}
	return &Document{Primary: primary, ReferencedTypeDescrs: sortedRefs(all)}, nil
}

// BuildAction builds the hashable Document for an action definition.
// Per spec.md §4.2 an action hash covers six reference types: goal,
// result, feedback, and the three companion types the action server
// implements as services internally — SendGoal, GetResult, and the
// FeedbackMessage wrapper broadcast over the feedback topic.
func BuildAction(reg *rosidl.Registry, ad rosidl.ActionDef) (*Document, error) {
	goalTD, goalRefs, err := expand(reg, ad.Goal)
	if err != nil {
		return nil, err
	}
	resultTD, resultRefs, err := expand(reg, ad.Result)
	if err != nil {
		return nil, err
	}
	feedbackTD, feedbackRefs, err := expand(reg, ad.Feedback)
	if err != nil {
		return nil, err
	}

	all := map[string]TypeDescription{}
	mergeRefs(all, goalRefs)
	mergeRefs(all, resultRefs)
	mergeRefs(all, feedbackRefs)
	all[goalTD.TypeName] = goalTD
	all[resultTD.TypeName] = resultTD
	all[feedbackTD.TypeName] = feedbackTD
	all[timeTypeName] = timeDescr()

	sendGoalReq := TypeDescription{
		TypeName: ad.Name.String() + "_SendGoal_Request",
		Fields: []FieldDescriptor{
			{Name: "goal_id", Type: ftFixedSeqPrimitive("uint8", 16)},
			{Name: "goal", Type: ftNested(goalTD.TypeName)},
		},
	}
	sendGoalResp := TypeDescription{
		TypeName: ad.Name.String() + "_SendGoal_Response",
		Fields: []FieldDescriptor{
			{Name: "accepted", Type: ftPrimitive("bool")},
			{Name: "stamp", Type: ftNested(timeTypeName)},
		},
	}
	getResultReq := TypeDescription{
		TypeName: ad.Name.String() + "_GetResult_Request",
		Fields: []FieldDescriptor{
			{Name: "goal_id", Type: ftFixedSeqPrimitive("uint8", 16)},
		},
	}
	getResultResp := TypeDescription{
		TypeName: ad.Name.String() + "_GetResult_Response",
		Fields: []FieldDescriptor{
			{Name: "status", Type: ftPrimitive("int8")},
			{Name: "result", Type: ftNested(resultTD.TypeName)},
		},
	}
	feedbackMsg := TypeDescription{
		TypeName: ad.Name.String() + "_FeedbackMessage",
		Fields: []FieldDescriptor{
			{Name: "goal_id", Type: ftFixedSeqPrimitive("uint8", 16)},
			{Name: "feedback", Type: ftNested(feedbackTD.TypeName)},
		},
	}
	for _, td := range []TypeDescription{sendGoalReq, sendGoalResp, getResultReq, getResultResp, feedbackMsg} {
		all[td.TypeName] = td
	}

	primary := TypeDescription{TypeName: ad.Name.String()}
	return &Document{Primary: primary, ReferencedTypeDescrs: sortedRefs(all)}, nil
}
