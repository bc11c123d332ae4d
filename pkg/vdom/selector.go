package vdom

import "strings"

// ParseSelector splits a selector of the form tag#id.class1.class2 into its
// parts. The id and class shorthand are optional and may appear in any
// order after the tag.
func ParseSelector(sel string) (tag, id string, classes []string) {
	end := strings.IndexAny(sel, "#.")
	if end < 0 {
		return sel, "", nil
	}
	tag = sel[:end]
	rest := sel[end:]
	for len(rest) > 0 {
		marker := rest[0]
		rest = rest[1:]
		next := strings.IndexAny(rest, "#.")
		part := rest
		if next >= 0 {
			part = rest[:next]
			rest = rest[next:]
		} else {
			rest = ""
		}
		if part == "" {
			continue
		}
		if marker == '#' {
			id = part
		} else {
			classes = append(classes, part)
		}
	}
	return tag, id, classes
}
