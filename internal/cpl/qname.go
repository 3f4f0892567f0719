package cpl

import "strings"

// SplitQName splits a qualified element name in "{namespace}local" form into
// its namespace URI and local name. Unqualified names yield an empty
// namespace and the input unchanged.
func SplitQName(qname string) (namespace, local string) {
	if strings.HasPrefix(qname, "{") {
		if end := strings.IndexByte(qname, '}'); end >= 0 {
			return qname[1:end], qname[end+1:]
		}
	}
	return "", qname
}

// qualifiedName renders a (namespace, local) pair back into "{namespace}local"
// form for diagnostics.
func qualifiedName(namespace, local string) string {
	if namespace == "" {
		return local
	}
	return "{" + namespace + "}" + local
}
