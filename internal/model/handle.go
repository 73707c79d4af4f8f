package model

import "strings"

// HandleSuffix is appended to field ids in wire and UI representations of
// edge handles. It is stripped before any handle comparison.
const HandleSuffix = "-handle"

// HandleSeparator splits namespaced handles such as "node-2:period".
const HandleSeparator = ":"

// NormalizeHandle strips a single trailing HandleSuffix from h.
func NormalizeHandle(h string) string {
	return strings.TrimSuffix(h, HandleSuffix)
}

// HandleRefersTo reports whether the normalized handle h refers to fieldID,
// either exactly or through the second segment of a namespaced handle.
func HandleRefersTo(h, fieldID string) bool {
	if h == fieldID {
		return true
	}
	parts := strings.Split(h, HandleSeparator)
	return len(parts) > 1 && parts[1] == fieldID
}
