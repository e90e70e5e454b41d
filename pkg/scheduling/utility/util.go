package utility

import (
	"math/rand"
	"strconv"
	"time"
)

// Job and task ids are plain 64-bit values carried as decimal strings in
// the proto descriptors (mirrors the teacher's JobDescriptor.Uuid /
// TaskDescriptor.Uid usage).

func JobIDFromString(s string) (JobID, error) {
	i, err := strconv.ParseUint(s, 10, 64)
	return JobID(i), err
}

func MustJobIDFromString(s string) JobID {
	id, err := JobIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

var randGen = rand.New(rand.NewSource(time.Now().UnixNano()))

// SeedRNGWithInt reseeds the package-level generator; used by tests that
// need deterministic generated ids (spec.md §8, "Determinism").
func SeedRNGWithInt(seed int64) {
	randGen = rand.New(rand.NewSource(seed))
}

func randUint64() uint64 {
	return uint64(randGen.Uint32())<<32 | uint64(randGen.Uint32())
}

func GenerateJobID() JobID   { return JobID(randUint64()) }
func GenerateTaskID() TaskID { return TaskID(randUint64()) }
