// Package mapper turns flat tool arguments into Capsule CRM request bodies.
//
// Every resource family has a create and an update argument type. Create
// types carry their required fields as plain values; everything else is a
// capsule.Optional so that an absent argument never reaches the payload while
// present zero values (probability 0, completed false) do. Update types keep
// the resource id apart from the body: it is exposed through ID() and routed
// as a path parameter.
package mapper

import (
	"fmt"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
)

// ref wraps a create-time relation id. Null is treated as absent.
func ref(id capsule.Optional[int64]) capsule.Optional[capsule.Ref] {
	if v, ok := id.Get(); ok {
		return capsule.Some(capsule.Ref{ID: v})
	}
	return capsule.Optional[capsule.Ref]{}
}

// must wraps a required relation id.
func must(id int64) capsule.Optional[capsule.Ref] {
	return capsule.Some(capsule.Ref{ID: id})
}

// required rejects only the empty string. Blank values are left for
// Capsule to judge.
func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
