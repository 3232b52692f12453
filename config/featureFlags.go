package config

import (
	"os"
	"strings"
)

// BroadcastInvalidations enables publishing cache-invalidation events to
// Pub/Sub so other instances can mark their collection caches stale.
//
// Set via env:
// - BROADCAST_INVALIDATIONS=true
func BroadcastInvalidations() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("BROADCAST_INVALIDATIONS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// ResolveDisplayNamesFor enables server-side foreign-key display resolution
// for the listed collections (the list handler replaces id-shaped fields with
// labels from the referenced collection).
//
// Set via env:
// - RESOLVE_DISPLAY_COLLECTIONS="customer,inquiry,quotation,purchase"
//
// Collection names are case-insensitive.
func ResolveDisplayNamesFor(collection string) bool {
	collection = strings.ToLower(strings.TrimSpace(collection))
	if collection == "" {
		return false
	}
	raw := os.Getenv("RESOLVE_DISPLAY_COLLECTIONS")
	if strings.TrimSpace(raw) == "" {
		return false
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.ToLower(strings.TrimSpace(part)) == collection {
			return true
		}
	}
	return false
}
