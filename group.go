package routing

import "strings"

// GroupAttributes are shared by every route registered inside a Group.
type GroupAttributes struct {
	// Prefix is prepended to route URIs. Nested prefixes concatenate.
	Prefix string
	// Domain restricts routes to a host template. A nested domain replaces the outer one.
	Domain string
	// As is prepended to route names.
	As string
	// Namespace qualifies controller names. Nested namespaces concatenate.
	Namespace []string
	// Before and After list filters; nested lists concatenate, outer first.
	Before []string
	After  []string
}

// MergeGroup merges new into old: prefixes concatenate, domain and scalar
// attributes are replaced when set, lists concatenate with old first.
func MergeGroup(new, old GroupAttributes) GroupAttributes {
	merged := GroupAttributes{
		Prefix:    old.Prefix,
		Domain:    old.Domain,
		As:        old.As,
		Namespace: concat(old.Namespace, new.Namespace),
		Before:    concat(old.Before, new.Before),
		After:     concat(old.After, new.After),
	}
	if new.Prefix != "" {
		merged.Prefix = strings.Trim(old.Prefix, "/") + "/" + strings.Trim(new.Prefix, "/")
	}
	if new.Domain != "" {
		merged.Domain = new.Domain
	}
	if new.As != "" {
		merged.As = new.As
	}
	return merged
}

// Group registers the routes declared in fn with attrs merged into the
// enclosing group attributes.
func (r *Router) Group(attrs GroupAttributes, fn func(*Router)) {
	r.pushGroup(attrs)
	defer r.popGroup()
	fn(r)
}

func (r *Router) pushGroup(attrs GroupAttributes) {
	if top, ok := r.lastGroup(); ok {
		attrs = MergeGroup(attrs, top)
	}
	r.groupStack = append(r.groupStack, attrs)
}

func (r *Router) popGroup() {
	if len(r.groupStack) > 0 {
		r.groupStack = r.groupStack[:len(r.groupStack)-1]
	}
}

func (r *Router) lastGroup() (GroupAttributes, bool) {
	if len(r.groupStack) == 0 {
		return GroupAttributes{}, false
	}
	return r.groupStack[len(r.groupStack)-1], true
}

func concat(old, new []string) []string {
	if len(old) == 0 && len(new) == 0 {
		return nil
	}
	out := make([]string, 0, len(old)+len(new))
	out = append(out, old...)
	return append(out, new...)
}

func joinURI(prefix, uri string) string {
	prefix = strings.Trim(prefix, "/")
	uri = strings.Trim(uri, "/")

	switch {
	case prefix == "" && uri == "":
		return "/"
	case prefix == "":
		return uri
	case uri == "":
		return prefix
	}
	return prefix + "/" + uri
}
