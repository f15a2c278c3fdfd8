/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package rosidl

// Registry accumulates parsed messages, services, and actions across many
// files so nested-type references can be resolved and so the native/IDL
// priority rule (§4.1: "when both a native definition and an IDL
// definition exist for the same interface, the native one wins") can be
// applied at merge time.
type Registry struct {
	Messages map[TypeName]MessageDef
	Services map[TypeName]ServiceDef
	Actions  map[TypeName]ActionDef

	fromIDL map[TypeName]bool
}

func NewRegistry() *Registry {
	return &Registry{
		Messages: map[TypeName]MessageDef{},
		Services: map[TypeName]ServiceDef{},
		Actions:  map[TypeName]ActionDef{},
		fromIDL:  map[TypeName]bool{},
	}
}

// AddNative registers a message parsed from a .msg/.srv/.action file.
// A native definition always overwrites whatever is already registered
// for the same name, including a previously-registered IDL definition.
func (r *Registry) AddNative(md MessageDef) {
	r.Messages[md.Name] = md
	delete(r.fromIDL, md.Name)
}

func (r *Registry) AddNativeService(sd ServiceDef) {
	r.Services[sd.Name] = sd
}

func (r *Registry) AddNativeAction(ad ActionDef) {
	r.Actions[ad.Name] = ad
}

// AddIDL registers a message parsed from an IDL struct. It is ignored if
// a native definition for the same name is already present (native wins),
// and recorded as IDL-sourced otherwise so a later AddNative can still
// override it.
func (r *Registry) AddIDL(md MessageDef) {
	if _, ok := r.Messages[md.Name]; ok && !r.fromIDL[md.Name] {
		return // native already present, native wins
	}
	r.Messages[md.Name] = md
	r.fromIDL[md.Name] = true
}

// Lookup resolves a nested type reference against everything registered
// so far.
func (r *Registry) Lookup(tn TypeName) (MessageDef, bool) {
	md, ok := r.Messages[tn]
	return md, ok
}
