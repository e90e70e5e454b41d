package dimacs

import (
	"strconv"

	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
)

// CreateArcChange records the addition of an arc to the flow graph.
type CreateArcChange struct {
	commentChange
	Src, Dst                     flowgraph.NodeID
	CapLowerBound, CapUpperBound uint64
	Cost                         int64
	Typ                          flowgraph.ArcType
}

func NewCreateArcChange(arc *flowgraph.Arc) *CreateArcChange {
	return &CreateArcChange{
		Src:           arc.Src,
		Dst:           arc.Dst,
		CapLowerBound: arc.CapLowerBound,
		CapUpperBound: arc.CapUpperBound,
		Cost:          arc.Cost,
		Typ:           arc.Type,
	}
}

func (cac *CreateArcChange) GenerateChange() string {
	return "a " + strconv.FormatUint(uint64(cac.Src), 10) +
		" " + strconv.FormatUint(uint64(cac.Dst), 10) +
		" " + strconv.FormatUint(cac.CapLowerBound, 10) +
		" " + strconv.FormatUint(cac.CapUpperBound, 10) +
		" " + strconv.FormatInt(cac.Cost, 10) +
		" " + strconv.Itoa(int(cac.Typ)) + "\n"
}
