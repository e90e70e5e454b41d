package utility

import pb "github.com/ms705/firmament/pkg/proto"

// ResourceStatus pairs a resource's descriptor with its position in the
// topology tree and liveness bookkeeping. Grounded on the teacher's
// resourcestatus.go, with accessor methods folded in from
// coreos-ksched's pkg/types/resourcestatus/resourcestatus.go.
type ResourceStatus struct {
	Descriptor    *pb.ResourceDescriptor
	TopologyNode  *pb.ResourceTopologyNodeDescriptor
	EndpointURI   string
	LastHeartbeat uint64
}

func (rs *ResourceStatus) SetLastHeartbeat(hb uint64) { rs.LastHeartbeat = hb }

// CreateTopLevelResourceStatus builds the synthetic coordinator resource
// that roots every topology tree installed via AddResourceTopology.
func CreateTopLevelResourceStatus() *ResourceStatus {
	uuidStr, _ := GenerateResourceUUID()
	rd := &pb.ResourceDescriptor{
		Uuid:        uuidStr,
		Type:        pb.ResourceDescriptor_ResourceCoordinator,
		State:       pb.ResourceDescriptor_ResourceIdle,
		Schedulable: true,
	}
	rtnd := &pb.ResourceTopologyNodeDescriptor{ResourceDesc: rd}
	return &ResourceStatus{
		Descriptor:   rd,
		TopologyNode: rtnd,
		EndpointURI:  "root_resource",
	}
}
