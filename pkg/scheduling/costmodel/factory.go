package costmodel

import (
	"github.com/golang/glog"

	util "github.com/ms705/firmament/pkg/scheduling/utility"
)

// defaultSimulatedQuincyTraceSeed seeds the block-availability trace used
// by CostModelSimulatedQuincy when no seed is otherwise configured. Fixed
// rather than time-derived so two schedulers started with the same config
// reproduce the same placement decisions.
const defaultSimulatedQuincyTraceSeed = 42

// NewCostModel constructs the CostModeler selected by modelType (spec.md
// §4.2 Selection list), grounded on NickrenREN-firmament-go's per-model
// New*CostModel constructors, which the teacher's own flow scheduler wired
// up individually but never unified behind a single factory. CostModelVoid
// and CostModelNet are placeholders in the enum with no corresponding
// implementation in the pack; both fall back to the trivial model. Any
// other value is fatal.
func NewCostModel(modelType CostModelType, resourceMap *util.ResourceMap, taskMap *util.TaskMap,
	leafResIDset map[util.ResourceID]struct{}, maxTasksPerPu uint64) CostModeler {
	switch modelType {
	case CostModelTrivial:
		return NewTrivialCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelRandom:
		return NewRandomCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelSjf:
		return NewSJFCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelQuincy:
		return NewQuincyCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelWhare:
		return NewWhareMapCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelCoco:
		return NewCocoCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelOctopus:
		return NewOctopusCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	case CostModelSimulatedQuincy:
		return NewSimulatedQuincyCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu, defaultSimulatedQuincyTraceSeed)
	case CostModelVoid, CostModelNet:
		glog.Warningf("costmodel: unhandled model type %d, defaulting to trivial", modelType)
		return NewTrivialCostModel(resourceMap, taskMap, leafResIDset, maxTasksPerPu)
	default:
		glog.Fatalf("costmodel: unknown model type %d", modelType)
		return nil
	}
}
