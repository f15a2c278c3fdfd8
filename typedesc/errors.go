/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package typedesc

import "fmt"

// UnresolvedReference is returned when a message field names a nested
// type that is not present in the registry used to build the
// TypeDescription (spec.md §4.2).
type UnresolvedReference struct {
	TypeName string
}

func (e *UnresolvedReference) Error() string {
	return fmt.Sprintf("typedesc: unresolved nested type reference %q", e.TypeName)
}

// CircularTypeGraph is returned when building the referenced-type list
// for a type would recurse back into a type already on the current
// build path.
type CircularTypeGraph struct {
	TypeName string
}

func (e *CircularTypeGraph) Error() string {
	return fmt.Sprintf("typedesc: circular type graph detected at %q", e.TypeName)
}
