package cpl

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Navigator runs namespace-qualified structural queries over an etree
// subtree. The prefix binding is explicit per Navigator rather than global,
// so a single document can be queried under several namespace sets at once
// (the playlist namespace varies by schema revision, the RegXML descriptor
// namespaces do not).
//
// Paths are slash-separated segments. Each segment is either "prefix:Name",
// resolved against the navigator's binding, or a literal "{uri}Name"
// qualified name. An unknown prefix is a programming error and panics, like
// a malformed regexp.
type Navigator struct {
	ns map[string]string
}

// NewNavigator binds prefixes to namespace URIs for path resolution.
func NewNavigator(ns map[string]string) Navigator {
	bound := make(map[string]string, len(ns))
	for prefix, uri := range ns {
		bound[prefix] = uri
	}
	return Navigator{ns: bound}
}

type xmlName struct {
	space string
	local string
}

func (n Navigator) resolve(segment string) xmlName {
	if strings.HasPrefix(segment, "{") {
		space, local := SplitQName(segment)
		return xmlName{space: space, local: local}
	}
	if i := strings.IndexByte(segment, ':'); i >= 0 {
		prefix, local := segment[:i], segment[i+1:]
		uri, ok := n.ns[prefix]
		if !ok {
			panic(fmt.Sprintf("cpl: unbound namespace prefix %q in path segment %q", prefix, segment))
		}
		return xmlName{space: uri, local: local}
	}
	return xmlName{local: segment}
}

func (n Navigator) resolvePath(path string) []xmlName {
	segments := strings.Split(path, "/")
	names := make([]xmlName, 0, len(segments))
	for _, segment := range segments {
		names = append(names, n.resolve(segment))
	}
	return names
}

func nameMatches(el *etree.Element, name xmlName) bool {
	return el.Tag == name.local && el.NamespaceURI() == name.space
}

// First returns the first element reached from el by following path one
// child level per segment, in document order, or nil when nothing matches.
func (n Navigator) First(el *etree.Element, path string) *etree.Element {
	matches := n.walk(el, n.resolvePath(path))
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// All returns every element reached from el along path, in document order.
func (n Navigator) All(el *etree.Element, path string) []*etree.Element {
	return n.walk(el, n.resolvePath(path))
}

func (n Navigator) walk(el *etree.Element, names []xmlName) []*etree.Element {
	current := []*etree.Element{el}
	for _, name := range names {
		var next []*etree.Element
		for _, parent := range current {
			for _, child := range parent.ChildElements() {
				if nameMatches(child, name) {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// Descendant returns the first descendant of el, at any depth in document
// order, whose qualified name matches the head of path; remaining segments
// are followed as direct children. Mirrors an ElementTree ".//" query.
func (n Navigator) Descendant(el *etree.Element, path string) *etree.Element {
	matches := n.descend(el, path, true)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Descendants returns all matches for path anywhere under el, document order.
func (n Navigator) Descendants(el *etree.Element, path string) []*etree.Element {
	return n.descend(el, path, false)
}

func (n Navigator) descend(el *etree.Element, path string, firstOnly bool) []*etree.Element {
	names := n.resolvePath(path)
	var out []*etree.Element
	var visit func(*etree.Element) bool
	visit = func(parent *etree.Element) bool {
		for _, child := range parent.ChildElements() {
			if nameMatches(child, names[0]) {
				if len(names) == 1 {
					out = append(out, child)
				} else {
					out = append(out, n.walk(child, names[1:])...)
				}
				if firstOnly && len(out) > 0 {
					return true
				}
			}
			if visit(child) {
				return true
			}
		}
		return false
	}
	visit(el)
	return out
}

// Text returns the trimmed text of the first descendant matching path. The
// boolean reports whether the element exists at all, so present-but-empty
// and absent are distinguishable.
func (n Navigator) Text(el *etree.Element, path string) (string, bool) {
	match := n.Descendant(el, path)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match.Text()), true
}

// ChildText is Text restricted to the direct-child path walk used by
// predicate-style lookups (sequence TrackId, descriptor Id).
func (n Navigator) ChildText(el *etree.Element, path string) (string, bool) {
	match := n.First(el, path)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match.Text()), true
}
