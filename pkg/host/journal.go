package host

import (
	"fmt"

	"github.com/vango-dev/reconcile/pkg/vdom"
)

// Op is the type of a recorded host mutation.
type Op uint8

const (
	OpCreateElement Op = 0x01 // Create a detached element
	OpCreateText    Op = 0x02 // Create a detached text node
	OpCreateComment Op = 0x03 // Create a detached comment node
	OpInsert        Op = 0x04 // Attach or move a node
	OpRemove        Op = 0x05 // Detach a node
	OpSetText       Op = 0x06 // Replace text payload
	OpSetAttr       Op = 0x07 // Set attribute
	OpRemoveAttr    Op = 0x08 // Remove attribute
	OpSetProp       Op = 0x09 // Set property
	OpAddClass      Op = 0x0A // Add class
	OpRemoveClass   Op = 0x0B // Remove class
	OpSetStyle      Op = 0x0C // Set style declaration
	OpRemoveStyle   Op = 0x0D // Remove style declaration
	OpListen        Op = 0x0E // Attach event listener
	OpUnlisten      Op = 0x0F // Detach event listener
	OpSetContext    Op = 0x10 // Forward custom element context
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpCreateComment:
		return "CreateComment"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetProp:
		return "SetProp"
	case OpAddClass:
		return "AddClass"
	case OpRemoveClass:
		return "RemoveClass"
	case OpSetStyle:
		return "SetStyle"
	case OpRemoveStyle:
		return "RemoveStyle"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	case OpSetContext:
		return "SetContext"
	default:
		return "Unknown"
	}
}

// Mutation is a single recorded host operation.
type Mutation struct {
	Op     Op          // Operation type
	Node   vdom.Handle // Target node
	Parent vdom.Handle // Parent for Insert/Remove
	Ref    vdom.Handle // Reference sibling for Insert (NoHandle = append)
	NS     string      // Namespace for CreateElement/SetAttr/RemoveAttr/SetContext
	Name   string      // Tag, attribute, property, class, style or event name
	Value  string      // Text, attribute, property or style value
}

// String returns a one-line description, e.g. `Insert #4 into #1 before #3`.
func (m Mutation) String() string {
	switch m.Op {
	case OpCreateElement:
		return fmt.Sprintf("%s #%d <%s>", m.Op, m.Node, m.Name)
	case OpCreateText, OpCreateComment, OpSetText:
		return fmt.Sprintf("%s #%d %q", m.Op, m.Node, m.Value)
	case OpInsert:
		if m.Ref == vdom.NoHandle {
			return fmt.Sprintf("%s #%d into #%d", m.Op, m.Node, m.Parent)
		}
		return fmt.Sprintf("%s #%d into #%d before #%d", m.Op, m.Node, m.Parent, m.Ref)
	case OpRemove:
		return fmt.Sprintf("%s #%d from #%d", m.Op, m.Node, m.Parent)
	case OpRemoveAttr, OpAddClass, OpRemoveClass, OpRemoveStyle, OpListen, OpUnlisten:
		return fmt.Sprintf("%s #%d %s", m.Op, m.Node, m.Name)
	default:
		return fmt.Sprintf("%s #%d %s=%q", m.Op, m.Node, m.Name, m.Value)
	}
}

// Journal is an append-only log of host mutations.
type Journal struct {
	muts []Mutation
}

// Record appends m.
func (j *Journal) Record(m Mutation) {
	j.muts = append(j.muts, m)
}

// Len returns the number of recorded mutations.
func (j *Journal) Len() int {
	return len(j.muts)
}

// Mutations returns a copy of the recorded mutations.
func (j *Journal) Mutations() []Mutation {
	out := make([]Mutation, len(j.muts))
	copy(out, j.muts)
	return out
}

// Drain returns the recorded mutations and clears the journal.
func (j *Journal) Drain() []Mutation {
	out := j.muts
	j.muts = nil
	return out
}

// Reset clears the journal.
func (j *Journal) Reset() {
	j.muts = j.muts[:0]
}

// Count returns how many mutations of the given op were recorded.
func (j *Journal) Count(op Op) int {
	n := 0
	for _, m := range j.muts {
		if m.Op == op {
			n++
		}
	}
	return n
}
