package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/engine"
	"github.com/hupe1980/agentnet/network"
	"github.com/hupe1980/agentnet/report"
)

// RunStatus is the outcome of a run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunResult is the archived record of one run.
type RunResult struct {
	NetworkID  string         `json:"network_id"`
	RunID      string         `json:"run_id"`
	Status     RunStatus      `json:"status"`
	Crew       string         `json:"crew"`
	Order      []string       `json:"order"`
	Report     *report.Report `json:"report"`
	Error      string         `json:"error,omitempty"`
	FailedTask string         `json:"failed_task,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DurationMS int64          `json:"duration_ms"`
}

func (s *Service) run(ctx context.Context, networkID string, n *network.Network, name, description string) (*RunResult, error) {
	crew, err := n.BuildCrew(name, description)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(crew.Steps))
	for _, step := range crew.Steps {
		order = append(order, step.TaskID)
	}

	res := &RunResult{
		NetworkID: networkID,
		RunID:     core.NewID(),
		Crew:      crew.Name,
		Order:     order,
		StartedAt: s.now(),
	}

	s.opts.Logger.Info("service.run.start", "network_id", networkID, "run_id", res.RunID, "crew", crew.Name, "tasks", len(order))

	out, runErr := s.opts.Engine.Run(ctx, engine.Request{
		RunID:     res.RunID,
		NetworkID: networkID,
		Tasks:     crew.Tasks(),
	})

	var outputs []core.TaskOutput
	if out != nil {
		outputs = out.Outputs
	}

	res.FinishedAt = s.now()
	res.DurationMS = res.FinishedAt.Sub(res.StartedAt).Milliseconds()
	res.Report = report.Combine(crew.Name, reportOutputs(crew, outputs), func(o *report.Options) {
		o.Now = func() time.Time { return res.FinishedAt }
	})

	if runErr != nil {
		res.Status = RunFailed
		res.Error = runErr.Error()

		var te *engine.TaskError
		if errors.As(runErr, &te) {
			res.FailedTask = te.Task
		}

		s.opts.Logger.Error("service.run.failed", "network_id", networkID, "run_id", res.RunID, "error", runErr.Error())
	} else {
		res.Status = RunCompleted
		s.opts.Logger.Info("service.run.complete", "network_id", networkID, "run_id", res.RunID, "duration_ms", res.DurationMS)
	}

	s.archive(res)

	return res, nil
}

// archive stores the run; a storage failure is logged and does not change
// the outcome of the run.
func (s *Service) archive(res *RunResult) {
	data, err := json.Marshal(res)
	if err == nil {
		err = s.opts.Reports.Save(res.NetworkID, res.RunID, data)
	}

	if err != nil {
		s.opts.Logger.Warn("service.run.archive.error", "network_id", res.NetworkID, "run_id", res.RunID, "error", err.Error())
	}
}

func reportOutputs(crew *network.Crew, outputs []core.TaskOutput) []report.Output {
	out := make([]report.Output, 0, len(outputs))

	for _, o := range outputs {
		ro := report.Output{TaskID: o.TaskName, AgentID: o.AgentName, Value: o.Value()}
		if step, ok := crew.Step(o.TaskName); ok {
			ro.TaskType = step.TaskType
			ro.AgentID = step.AgentID
		}
		out = append(out, ro)
	}

	return out
}
