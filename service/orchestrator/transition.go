package orchestrator

import (
	"fmt"

	"github.com/elC0mpa/cloud-doctor/model"
)

var edges = map[model.Stage][]model.Stage{
	model.StageIdle:        {model.StageIngesting},
	model.StageIngesting:   {model.StageIdentifying},
	model.StageIdentifying: {model.StageReasoning, model.StageReporting},
	model.StageReasoning:   {model.StageApproval, model.StageReporting},
	model.StageApproval:    {model.StageExecuting, model.StageReporting},
	model.StageExecuting:   {model.StageReporting},
	model.StageReporting:   {model.StageFinished},
}

// Transition returns run moved to stage to. Any stage may fall back to
// idle; every other edge must follow the pipeline order.
func Transition(run model.Run, to model.Stage) (model.Run, error) {
	if !allowed(run.Stage, to) {
		return run, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, run.Stage, to)
	}
	run.Stage = to
	run.StageHistory = append(append([]model.Stage(nil), run.StageHistory...), to)
	return run, nil
}

func allowed(from, to model.Stage) bool {
	if to == model.StageIdle {
		return true
	}
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}
