package flowmanager

import (
	"testing"

	pb "github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/costmodel"
	"github.com/ms705/firmament/pkg/scheduling/dimacs"
	"github.com/ms705/firmament/pkg/scheduling/utility"
)

// newTestGraphManager builds a GraphManager over the trivial cost model,
// the lightest CostModeler in the pack and the one the teacher itself
// reaches for in throwaway setups.
func newTestGraphManager() GraphManager {
	resourceMap := utility.NewResourceMap()
	taskMap := utility.NewTaskMap()
	leafResourceIDs := make(map[utility.ResourceID]struct{})
	dimacsStats := &dimacs.ChangeStats{}
	costModeler := costmodel.NewCostModel(costmodel.CostModelTrivial, resourceMap, taskMap, leafResourceIDs, 1)
	return NewGraphManager(costModeler, leafResourceIDs, dimacsStats, 1)
}

func newTestMachine(uuid, puUUID string, cores float64) *pb.ResourceTopologyNodeDescriptor {
	machine := &pb.ResourceTopologyNodeDescriptor{
		ResourceDesc: &pb.ResourceDescriptor{
			Uuid:         uuid,
			Type:         pb.ResourceDescriptor_ResourceMachine,
			State:        pb.ResourceDescriptor_ResourceIdle,
			Schedulable:  true,
			FriendlyName: uuid,
			Capacity:     pb.ResourceVector{CpuCores: cores, RamBytes: uint64(cores) * (1 << 30)},
		},
	}
	pu := &pb.ResourceTopologyNodeDescriptor{
		ResourceDesc: &pb.ResourceDescriptor{
			Uuid:         puUUID,
			Type:         pb.ResourceDescriptor_ResourcePu,
			State:        pb.ResourceDescriptor_ResourceIdle,
			Schedulable:  true,
			FriendlyName: "PU #0",
			Capacity:     pb.ResourceVector{CpuCores: cores, RamBytes: uint64(cores) * (1 << 30)},
		},
		ParentId: uuid,
	}
	machine.Children = append(machine.Children, pu)
	return machine
}

func TestAddResourceTopology(t *testing.T) {
	gm := newTestGraphManager()
	gm.AddResourceTopology(newTestMachine("00000000-0000-0000-0000-000000000001", "00000000-0000-0000-0000-000000000002", 8))

	if len(gm.LeafNodeIDs()) != 1 {
		t.Fatalf("expected 1 leaf node after adding one machine, got %d", len(gm.LeafNodeIDs()))
	}
}

func TestAddOrUpdateJobNodes(t *testing.T) {
	gm := newTestGraphManager()
	gm.AddResourceTopology(newTestMachine("00000000-0000-0000-0000-000000000001", "00000000-0000-0000-0000-000000000002", 8))

	task := &pb.TaskDescriptor{
		Uid:             1,
		Name:            "task-1",
		JobID:           "1",
		State:           pb.TaskDescriptor_Runnable,
		ResourceRequest: pb.ResourceVector{CpuCores: 1, RamBytes: 1 << 28},
	}
	job := &pb.JobDescriptor{
		Uuid:     "1",
		Name:     "job-1",
		State:    pb.JobDescriptor_Running,
		RootTask: task,
		Tasks:    []*pb.TaskDescriptor{task},
	}

	gm.AddOrUpdateJobNodes([]*pb.JobDescriptor{job})

	if gm.SinkNode() == nil {
		t.Fatal("expected a sink node to exist once a job has been added")
	}
}

func TestRemoveResourceTopologyReturnsPuNodeIDs(t *testing.T) {
	gm := newTestGraphManager()
	machine := newTestMachine("00000000-0000-0000-0000-000000000001", "00000000-0000-0000-0000-000000000002", 8)
	gm.AddResourceTopology(machine)

	removed := gm.RemoveResourceTopology(machine.ResourceDesc)
	if len(removed) != 1 {
		t.Fatalf("expected 1 PU node id removed, got %d", len(removed))
	}
	if len(gm.LeafNodeIDs()) != 0 {
		t.Fatalf("expected no leaf nodes left after removing the only machine, got %d", len(gm.LeafNodeIDs()))
	}
}
