// Package modules holds the ordered set of appliers that keep a host
// element's attribute-like state in sync with its VNode data.
//
// An applier implements Creator, Updater or both. The Registry runs every
// subscribed applier once per element, in registration order:
//
//	Create(v)       fresh element, apply everything in v.Data
//	Update(old, v)  matched element, apply only the delta
//
// The patch engine calls the registry for elements only; text and comment
// payloads are written by the engine directly. An applier error aborts the
// patch as a ModuleApplierFailure (code R004).
//
// The reference appliers (Props, Attrs, Classes, Styles, Listeners and
// Context) each own one field group of vdom.Data and reach the host through
// the narrow capability interfaces of package host.
package modules
