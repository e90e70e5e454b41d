package utility

import (
	"sync"

	pb "github.com/ms705/firmament/pkg/proto"
)

// ResourceMap, JobMap and TaskMap are thread-safe lookup tables keyed by
// id. Grounded on coreos-ksched/pkg/types/types.go; the teacher's own
// files use TaskMap/JobMap/ResourceMap throughout without defining them.

type ResourceMap struct {
	mu sync.RWMutex
	m  map[ResourceID]*ResourceStatus
}

func NewResourceMap() *ResourceMap {
	return &ResourceMap{m: make(map[ResourceID]*ResourceStatus)}
}

func (rm *ResourceMap) FindPtrOrNull(k ResourceID) *ResourceStatus {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.m[k]
}

func (rm *ResourceMap) InsertOrUpdate(k ResourceID, v *ResourceStatus) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	_, existed := rm.m[k]
	rm.m[k] = v
	return !existed
}

func (rm *ResourceMap) Delete(k ResourceID) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.m, k)
}

func (rm *ResourceMap) ContainsKey(k ResourceID) bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	_, ok := rm.m[k]
	return ok
}

func (rm *ResourceMap) UnsafeGet() map[ResourceID]*ResourceStatus { return rm.m }
func (rm *ResourceMap) RLock()                                    { rm.mu.RLock() }
func (rm *ResourceMap) RUnlock()                                  { rm.mu.RUnlock() }

type JobMap struct {
	mu sync.RWMutex
	m  map[JobID]*pb.JobDescriptor
}

func NewJobMap() *JobMap { return &JobMap{m: make(map[JobID]*pb.JobDescriptor)} }

func (jm *JobMap) FindPtrOrNull(k JobID) *pb.JobDescriptor {
	jm.mu.RLock()
	defer jm.mu.RUnlock()
	return jm.m[k]
}

func (jm *JobMap) InsertOrUpdate(k JobID, v *pb.JobDescriptor) bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	_, existed := jm.m[k]
	jm.m[k] = v
	return !existed
}

func (jm *JobMap) Delete(k JobID) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	delete(jm.m, k)
}

type TaskMap struct {
	mu sync.RWMutex
	m  map[TaskID]*pb.TaskDescriptor
}

func NewTaskMap() *TaskMap { return &TaskMap{m: make(map[TaskID]*pb.TaskDescriptor)} }

func (tm *TaskMap) FindPtrOrNull(k TaskID) *pb.TaskDescriptor {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.m[k]
}

func (tm *TaskMap) InsertOrUpdate(k TaskID, v *pb.TaskDescriptor) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	_, existed := tm.m[k]
	tm.m[k] = v
	return !existed
}

func (tm *TaskMap) Delete(k TaskID) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.m, k)
}
