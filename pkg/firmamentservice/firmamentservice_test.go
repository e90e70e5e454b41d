package firmamentservice

import (
	"context"
	"fmt"
	"strconv"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ms705/firmament/pkg/config"
	"github.com/ms705/firmament/pkg/proto"
	"github.com/ms705/firmament/pkg/scheduling/costmodel"
)

func mockMachineRTND(uid string, puUid string, cores int) *proto.ResourceTopologyNodeDescriptor {
	machine := &proto.ResourceTopologyNodeDescriptor{
		ResourceDesc: &proto.ResourceDescriptor{
			Uuid:         uid,
			Type:         proto.ResourceDescriptor_ResourceMachine,
			State:        proto.ResourceDescriptor_ResourceIdle,
			Schedulable:  true,
			FriendlyName: uid,
			Capacity: proto.ResourceVector{
				CpuCores: float64(cores),
				RamBytes: uint64(cores) * 1024 * 1024 * 1024,
			},
		},
		ParentId: "",
	}
	pu := &proto.ResourceTopologyNodeDescriptor{
		ResourceDesc: &proto.ResourceDescriptor{
			Uuid:         puUid,
			Type:         proto.ResourceDescriptor_ResourcePu,
			State:        proto.ResourceDescriptor_ResourceIdle,
			Schedulable:  true,
			FriendlyName: "PU #0",
			Capacity: proto.ResourceVector{
				CpuCores: float64(cores),
				RamBytes: uint64(cores) * 1024 * 1024 * 1024,
			},
		},
		ParentId: uid,
	}
	machine.Children = append(machine.Children, pu)
	return machine
}

func mockTaskDescription(jobUid string, taskUid uint64, cores int) *proto.TaskDescription {
	jd := &proto.JobDescriptor{
		Uuid:  jobUid,
		Name:  "mock_job",
		State: proto.JobDescriptor_Created,
	}
	td := &proto.TaskDescriptor{
		Uid:   taskUid,
		Name:  "mock_task",
		JobID: jobUid,
		State: proto.TaskDescriptor_Created,
		ResourceRequest: proto.ResourceVector{
			CpuCores: float64(cores),
			RamBytes: uint64(cores) * 1024 * 1024 * 1024,
		},
	}
	jd.RootTask = td
	jd.Tasks = []*proto.TaskDescriptor{td}
	return &proto.TaskDescription{TaskDescriptor: td, JobDescriptor: jd}
}

var _ = Describe("FirmamentSchedulerServer", func() {
	var server proto.FirmamentSchedulerServer

	BeforeEach(func() {
		server = NewSchedulerServer(&config.Config{CostModel: costmodel.CostModelTrivial, MaxTasksPerPu: 1})
	})

	addMachine := func(server proto.FirmamentSchedulerServer, id int64, cores int) {
		uid := fmt.Sprintf("00000000-0000-0000-0000-%012d", id)
		puUid := fmt.Sprintf("00000000-0000-0000-0000-%012d", id+1000)
		resp, err := server.NodeAdded(context.Background(), mockMachineRTND(uid, puUid, cores))
		Expect(err).Should(BeNil())
		Expect(resp.Type).To(Equal(proto.NodeReplyType_NODE_ADDED_OK))
	}

	addTask := func(server proto.FirmamentSchedulerServer, jobID int, taskID uint64, cores int) {
		jdUid := strconv.Itoa(jobID)
		resp, err := server.TaskSubmitted(context.Background(), mockTaskDescription(jdUid, taskID, cores))
		Expect(err).Should(BeNil())
		Expect(resp.Type).To(Equal(proto.TaskReplyType_TASK_SUBMITTED_OK))
	}

	Describe("registering machines", func() {
		It("accepts a handful of machines of varying size", func() {
			addMachine(server, 1, 16)
			addMachine(server, 2, 32)
			addMachine(server, 3, 48)
		})
	})

	Describe("submitting tasks", func() {
		It("accepts tasks across a couple of jobs", func() {
			addTask(server, 11, 1101, 10)
			addTask(server, 11, 1102, 20)
			addTask(server, 22, 2201, 10)
		})
	})

	Describe("scheduling a round", func() {
		It("places runnable tasks onto registered machines without error", func() {
			addMachine(server, 1, 16)
			addMachine(server, 2, 32)
			addTask(server, 11, 1101, 4)
			addTask(server, 11, 1102, 4)

			deltas, err := server.Schedule(context.Background(), &proto.ScheduleRequest{})
			Expect(err).Should(BeNil())
			Expect(deltas).ShouldNot(BeNil())
		})
	})

	Describe("completing and removing a task", func() {
		It("acknowledges the lifecycle calls", func() {
			addMachine(server, 1, 16)
			addTask(server, 11, 1101, 4)

			_, err := server.Schedule(context.Background(), &proto.ScheduleRequest{})
			Expect(err).Should(BeNil())

			completedResp, err := server.TaskCompleted(context.Background(), &proto.TaskUID{TaskUid: 1101})
			Expect(err).Should(BeNil())
			Expect(completedResp.Type).To(Equal(proto.TaskReplyType_TASK_COMPLETED_OK))

			removedResp, err := server.TaskRemoved(context.Background(), &proto.TaskUID{TaskUid: 1101})
			Expect(err).Should(BeNil())
			Expect(removedResp.Type).To(Equal(proto.TaskReplyType_TASK_REMOVED_OK))
		})
	})

	Describe("removing a machine", func() {
		It("acknowledges node removal", func() {
			addMachine(server, 1, 16)
			resp, err := server.NodeRemoved(context.Background(), &proto.ResourceUID{ResourceUid: "00000000-0000-0000-0000-000000000001"})
			Expect(err).Should(BeNil())
			Expect(resp.Type).To(Equal(proto.NodeReplyType_NODE_REMOVED_OK))
		})
	})
})
