package patch

import (
	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

// identity is what a child is matched by inside a keyed list: its key, or
// for unkeyed children their ordinal among unkeyed siblings.
type identity struct {
	key     vdom.Key
	ordinal int // 1-based; 0 for keyed children
}

// identities computes the identity of every child. ok[i] is false for nil
// slots and for repeated keys, which can never be matched.
func (p *patcher) identities(children []*vdom.VNode, parent vdom.Handle, warn bool) ([]identity, []bool) {
	ids := make([]identity, len(children))
	ok := make([]bool, len(children))
	seen := make(map[vdom.Key]bool)
	unkeyed := 0

	for i, c := range children {
		if c == nil {
			continue
		}
		if c.Key.IsZero() {
			unkeyed++
			ids[i] = identity{ordinal: unkeyed}
			ok[i] = true
			continue
		}
		if seen[c.Key] {
			if warn {
				p.stats.DuplicateKeys++
				p.logger.Warn("duplicate key among siblings",
					"code", errors.CodeDuplicateKey,
					"key", c.Key.String(),
					"sel", c.Sel,
					"parent", uint32(parent))
			}
			continue
		}
		seen[c.Key] = true
		ids[i] = identity{key: c.Key}
		ok[i] = true
	}
	return ids, ok
}

func hasKeys(children []*vdom.VNode) bool {
	for _, c := range children {
		if c != nil && !c.Key.IsZero() {
			return true
		}
	}
	return false
}

func isEmpty(children []*vdom.VNode) bool {
	for _, c := range children {
		if c != nil {
			return false
		}
	}
	return true
}

// updateChildren reconciles the children of the host node parent.
func (p *patcher) updateChildren(parent vdom.Handle, prev, next []*vdom.VNode, ns string) error {
	prevEmpty, nextEmpty := isEmpty(prev), isEmpty(next)
	switch {
	case prevEmpty && nextEmpty:
		return nil
	case prevEmpty:
		return p.addNodes(parent, vdom.NoHandle, next, 0, len(next)-1, ns)
	case nextEmpty:
		return p.removeNodes(parent, prev, nil, 0, len(prev)-1)
	case hasKeys(prev) || hasKeys(next):
		return p.updateKeyed(parent, prev, next, ns)
	default:
		return p.updatePositional(parent, prev, next, ns)
	}
}

// addNodes mounts next[start..end] before ref, in order.
func (p *patcher) addNodes(parent, ref vdom.Handle, next []*vdom.VNode, start, end int, ns string) error {
	for i := start; i <= end; i++ {
		c := next[i]
		if c == nil {
			continue
		}
		if err := p.createElm(c, ns); err != nil {
			return err
		}
		if err := p.insertNew(c, parent, ref); err != nil {
			return err
		}
	}
	return nil
}

// removeNodes removes prev[start..end], skipping nil slots and entries
// marked in consumed.
func (p *patcher) removeNodes(parent vdom.Handle, prev []*vdom.VNode, consumed []bool, start, end int) error {
	for i := start; i <= end; i++ {
		c := prev[i]
		if c == nil || (consumed != nil && consumed[i]) {
			continue
		}
		if err := p.removeNode(c, parent); err != nil {
			return err
		}
	}
	return nil
}

// updatePositional reconciles unkeyed lists index by index. It walks from
// the last index down so that every node after i is already final and the
// nearest of them is the insertion reference.
func (p *patcher) updatePositional(parent vdom.Handle, prev, next []*vdom.VNode, ns string) error {
	anchor := vdom.NoHandle
	for i := max(len(prev), len(next)) - 1; i >= 0; i-- {
		var o, c *vdom.VNode
		if i < len(prev) {
			o = prev[i]
		}
		if i < len(next) {
			c = next[i]
		}

		switch {
		case o == nil && c == nil:
			continue
		case c == nil:
			if err := p.removeNode(o, parent); err != nil {
				return err
			}
			continue
		case o == nil:
			if err := p.createElm(c, ns); err != nil {
				return err
			}
			if err := p.insertNew(c, parent, anchor); err != nil {
				return err
			}
		case vdom.SameNode(o, c):
			if err := p.patchNode(o, c, ns); err != nil {
				return err
			}
		default:
			if err := p.replace(o, c, parent, anchor, ns); err != nil {
				return err
			}
		}
		anchor = c.Elm
	}
	return nil
}

// updateKeyed reconciles lists containing keys with the four-pointer
// comparison and a key index fallback. An old node that no remaining new
// node can match is replaced in place, so its remove hook fires before
// the create of its replacement.
func (p *patcher) updateKeyed(parent vdom.Handle, prev, next []*vdom.VNode, ns string) error {
	prevIDs, prevOK := p.identities(prev, parent, false)
	nextIDs, nextOK := p.identities(next, parent, true)
	consumed := make([]bool, len(prev))

	same := func(i, j int) bool {
		return prevOK[i] && nextOK[j] && prevIDs[i] == nextIDs[j] &&
			prev[i].Kind == next[j].Kind && prev[i].Sel == next[j].Sel
	}
	absent := func(i int) bool {
		return prev[i] == nil || consumed[i]
	}

	oldStart, oldEnd := 0, len(prev)-1
	newStart, newEnd := 0, len(next)-1
	var index, wanted map[identity]int

	// needed reports whether prev[i] still matches a new node in
	// [newStart..newEnd].
	needed := func(i int) bool {
		if !prevOK[i] {
			return false
		}
		j, ok := wanted[prevIDs[i]]
		return ok && j >= newStart && j <= newEnd && same(i, j)
	}

	for oldStart <= oldEnd && newStart <= newEnd {
		switch {
		case absent(oldStart):
			oldStart++
		case absent(oldEnd):
			oldEnd--
		case next[newStart] == nil:
			newStart++
		case next[newEnd] == nil:
			newEnd--

		case same(oldStart, newStart):
			if err := p.patchNode(prev[oldStart], next[newStart], ns); err != nil {
				return err
			}
			oldStart++
			newStart++

		case same(oldEnd, newEnd):
			if err := p.patchNode(prev[oldEnd], next[newEnd], ns); err != nil {
				return err
			}
			oldEnd--
			newEnd--

		case same(oldStart, newEnd):
			// Moved right: goes after the current old end.
			if err := p.patchNode(prev[oldStart], next[newEnd], ns); err != nil {
				return err
			}
			ref := p.host.NextSibling(prev[oldEnd].Elm)
			if err := p.move(next[newEnd], parent, ref); err != nil {
				return err
			}
			oldStart++
			newEnd--

		case same(oldEnd, newStart):
			// Moved left: goes before the current old start.
			if err := p.patchNode(prev[oldEnd], next[newStart], ns); err != nil {
				return err
			}
			if err := p.move(next[newStart], parent, prev[oldStart].Elm); err != nil {
				return err
			}
			oldEnd--
			newStart++

		default:
			if index == nil {
				index = make(map[identity]int, oldEnd-oldStart+1)
				for i := oldStart; i <= oldEnd; i++ {
					if prevOK[i] && !absent(i) {
						index[prevIDs[i]] = i
					}
				}
				wanted = make(map[identity]int, newEnd-newStart+1)
				for j := newStart; j <= newEnd; j++ {
					if nextOK[j] {
						wanted[nextIDs[j]] = j
					}
				}
			}

			c := next[newStart]
			ref := prev[oldStart].Elm
			i, found := -1, false
			if nextOK[newStart] {
				i, found = index[nextIDs[newStart]]
			}
			if found && !absent(i) && same(i, newStart) {
				if err := p.patchNode(prev[i], c, ns); err != nil {
					return err
				}
				consumed[i] = true
				if err := p.move(c, parent, ref); err != nil {
					return err
				}
			} else if !needed(oldStart) {
				ref = p.host.NextSibling(prev[oldStart].Elm)
				if err := p.replace(prev[oldStart], c, parent, ref, ns); err != nil {
					return err
				}
				consumed[oldStart] = true
				oldStart++
			} else {
				if err := p.createElm(c, ns); err != nil {
					return err
				}
				if err := p.insertNew(c, parent, ref); err != nil {
					return err
				}
			}
			newStart++
		}
	}

	if oldStart > oldEnd {
		ref := vdom.NoHandle
		for j := newEnd + 1; j < len(next); j++ {
			if next[j] != nil && next[j].IsMaterialized() {
				ref = next[j].Elm
				break
			}
		}
		return p.addNodes(parent, ref, next, newStart, newEnd, ns)
	}
	if newStart > newEnd {
		return p.removeNodes(parent, prev, consumed, oldStart, oldEnd)
	}
	return nil
}
