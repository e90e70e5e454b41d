package dimacs

import (
	"strconv"

	"github.com/ms705/firmament/pkg/scheduling/flowgraph"
)

// UpdateArcChange records a capacity/cost change to an existing arc.
type UpdateArcChange struct {
	commentChange
	Src, Dst                     flowgraph.NodeID
	CapLowerBound, CapUpperBound uint64
	Cost, OldCost                int64
	Typ                          flowgraph.ArcType
}

func NewUpdateArcChange(arc *flowgraph.Arc, oldCost int64) *UpdateArcChange {
	return &UpdateArcChange{
		Src:           arc.Src,
		Dst:           arc.Dst,
		CapLowerBound: arc.CapLowerBound,
		CapUpperBound: arc.CapUpperBound,
		Cost:          arc.Cost,
		OldCost:       oldCost,
		Typ:           arc.Type,
	}
}

func (uac *UpdateArcChange) GenerateChange() string {
	return "x " + strconv.FormatUint(uint64(uac.Src), 10) +
		" " + strconv.FormatUint(uint64(uac.Dst), 10) +
		" " + strconv.FormatUint(uac.CapLowerBound, 10) +
		" " + strconv.FormatUint(uac.CapUpperBound, 10) +
		" " + strconv.FormatInt(uac.Cost, 10) +
		" " + strconv.Itoa(int(uac.Typ)) +
		" " + strconv.FormatInt(uac.OldCost, 10) + "\n"
}
