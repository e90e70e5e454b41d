package main

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/ms705/firmament/pkg/config"
	"github.com/ms705/firmament/pkg/firmamentservice"
	"github.com/ms705/firmament/pkg/proto"
)

func main() {
	defer glog.Flush()

	cfg := config.New()
	server := firmamentservice.NewSchedulerServer(cfg)

	glog.Infof("firmament scheduler starting, cost model %d, max tasks per PU %d", cfg.CostModel, cfg.MaxTasksPerPu)

	for {
		deltas, err := server.Schedule(context.Background(), &proto.ScheduleRequest{})
		if err != nil {
			glog.Errorf("scheduling round failed: %v", err)
			return
		}
		for _, delta := range deltas.Deltas {
			glog.V(1).Infof("task %d: %v -> resource %s (was %s)", delta.TaskId, delta.Type, delta.ResourceId, delta.OldResourceId)
		}

		time.Sleep(cfg.TimeDependentCostUpdateFrequency)
	}
}
