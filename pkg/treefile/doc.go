// Package treefile reads virtual trees from JSON and YAML documents.
//
// A document node is one of:
//
//	"plain string"                      # text node
//	{text: "..."}                       # text node
//	{comment: "..."}                    # comment node
//	{sel: "li.item", key: 1, data: {...}, children: [...]}
//	{sel: "x-card", key: c, mode: open, ctor: Card, children: [...]}
//
// null entries in children are kept as absent slots. Element data uses the
// keys props, attrs, class, style, classMap, styleMap, context, on and ns;
// on maps event names to handler names resolved with WithListeners.
//
// Example:
//
//	sel: ul
//	key: list
//	data: {class: todo}
//	children:
//	  - {sel: li, key: 1, children: [Buy milk]}
//	  - {sel: li, key: 2, children: [Walk dog]}
package treefile
