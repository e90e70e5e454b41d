// Package utility holds the identifier types, thread-safe lookup maps and
// ID-generation helpers shared across the scheduling core. Grounded on
// NickrenREN-firmament-go's own utility package (util.go, resourcestatus.go,
// schedulerstats.go), supplemented with the ID-type declarations and map
// implementations from coreos-ksched's pkg/types package, which the
// teacher's files reference but never define in their own retrieval.
package utility

import (
	"hash/fnv"

	"github.com/google/uuid"
)

type (
	TaskID     uint64
	JobID      uint64
	ResourceID uint64
	EquivClass uint64
)

// HashBytesToEquivClass derives a deterministic equivalence class id from
// an arbitrary byte string (e.g. a task binary name).
func HashBytesToEquivClass(b []byte) EquivClass {
	h := fnv.New64a()
	h.Write(b)
	return EquivClass(h.Sum64())
}

// GenerateResourceUUID returns a universally-unique 128-bit resource
// identifier (spec.md §3) together with its deterministic 64-bit graph
// handle, which is the FNV-1a hash of the UUID's raw bytes.
func GenerateResourceUUID() (string, ResourceID) {
	id := uuid.New()
	h := fnv.New64a()
	h.Write(id[:])
	return id.String(), ResourceID(h.Sum64())
}

// ResourceIDFromUUID recomputes the 64-bit graph handle for a resource
// UUID string, e.g. when rehydrating a ResourceDescriptor read from the
// topology tree.
func ResourceIDFromUUID(s string) (ResourceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return 0, err
	}
	h := fnv.New64a()
	h.Write(id[:])
	return ResourceID(h.Sum64()), nil
}

func MustResourceIDFromUUID(s string) ResourceID {
	id, err := ResourceIDFromUUID(s)
	if err != nil {
		panic(err)
	}
	return id
}
