package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service/approval"
	"github.com/elC0mpa/cloud-doctor/service/classifier"
	"github.com/elC0mpa/cloud-doctor/service/events"
	"github.com/elC0mpa/cloud-doctor/service/executor"
	"github.com/elC0mpa/cloud-doctor/service/metrics"
	"github.com/elC0mpa/cloud-doctor/service/projector"
	"github.com/elC0mpa/cloud-doctor/service/report"
	"github.com/elC0mpa/cloud-doctor/service/telemetry"
)

const (
	outcomeCompleted = "completed"
	outcomeNoWaste   = "no_waste"
	outcomeNoActions = "no_actions"
	outcomeDismissed = "dismissed"
	outcomeFailed    = "failed"
)

func NewService(deps Dependencies) *orchestratorService {
	s := &orchestratorService{
		inventory: deps.Inventory,
		agent:     deps.Agent,
		executor:  deps.Executor,
		vision:    deps.Vision,
		reporter:  deps.Reporter,
		billing:   deps.Billing,
		events:    deps.Events,
		store:     deps.Store,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With().Str("component", "orchestrator").Logger(),
		tracer:    telemetry.Tracer("github.com/elC0mpa/cloud-doctor/orchestrator"),
		now:       func() time.Time { return time.Now().UTC() },
		run:       model.Run{Stage: model.StageIdle, StageHistory: []model.Stage{model.StageIdle}},
	}
	if s.reporter == nil {
		s.reporter = report.NewService()
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	return s
}

// Start runs the pipeline up to the approval gate, or to the end when
// there is nothing to approve. Only one run may be active at a time.
func (s *orchestratorService) Start(ctx context.Context, req model.RunRequest) (model.Run, error) {
	s.mu.Lock()
	if s.run.Stage.Active() {
		s.mu.Unlock()
		return model.Run{}, ErrRunActive
	}
	s.run = model.Run{
		ID:           uuid.NewString(),
		Stage:        model.StageIdle,
		StageHistory: []model.Stage{model.StageIdle},
		AccountID:    req.AccountID,
		Intent:       req.Intent,
		Industry:     req.Industry,
		StartedAt:    s.now(),
	}
	runID := s.run.ID
	from, err := s.transitionLocked(model.StageIngesting)
	s.mu.Unlock()
	if err != nil {
		return s.Current(), err
	}
	s.announce(runID, from, model.StageIngesting)

	ctx, span := s.tracer.Start(ctx, "run.start")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", runID), attribute.String("account.id", req.AccountID))

	s.log(model.LogInfo, fmt.Sprintf("Fetching %s inventory for %s", modeOf(req), req.AccountID))

	snapshot, err := s.fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inventory")
		return s.fail(fmt.Errorf("failed to fetch inventory: %w", err)), err
	}
	s.update(func(r *model.Run) { r.Snapshot = snapshot })
	s.log(model.LogSuccess, fmt.Sprintf("Collected %d resources, estimated bill $%.2f/month", snapshot.ResourceCount(), snapshot.TotalMonthlyBill))

	if err := s.advance(model.StageIdentifying); err != nil {
		return s.Current(), err
	}
	candidates, err := s.classify(snapshot)
	if err != nil {
		span.RecordError(err)
		return s.fail(err), err
	}
	s.update(func(r *model.Run) { r.Candidates = candidates })

	if len(candidates) == 0 {
		s.log(model.LogSuccess, "No waste found")
		return s.conclude(ctx, outcomeNoWaste)
	}
	s.log(model.LogWarn, fmt.Sprintf("Flagged %d candidates worth $%.2f/month", len(candidates), classifier.TotalSavings(candidates)))

	if err := s.advance(model.StageReasoning); err != nil {
		return s.Current(), err
	}
	actions, err := s.reason(ctx, req, candidates)
	if err != nil {
		span.RecordError(err)
		return s.fail(err), err
	}
	s.update(func(r *model.Run) { r.Actions = actions })

	if len(actions) == 0 {
		s.log(model.LogInfo, "No remediation actions proposed")
		return s.conclude(ctx, outcomeNoActions)
	}

	s.metrics.ActionsProposed(actions)
	for _, a := range actions {
		s.events.Publish(events.ActionProposed, a)
	}
	if err := s.advance(model.StageApproval); err != nil {
		return s.Current(), err
	}
	s.log(model.LogInfo, fmt.Sprintf("%d actions awaiting approval", len(actions)))
	return s.Current(), nil
}

// Approve marks an action approved. Unknown ids are ignored.
func (s *orchestratorService) Approve(id string) (model.Run, error) {
	return s.decide(id, approval.Approve)
}

// Reject marks an action rejected. Unknown ids are ignored.
func (s *orchestratorService) Reject(id string) (model.Run, error) {
	return s.decide(id, approval.Reject)
}

// ApproveAll approves every pending action
func (s *orchestratorService) ApproveAll() (model.Run, error) {
	s.mu.Lock()
	if s.run.Stage != model.StageApproval {
		s.mu.Unlock()
		return model.Run{}, ErrNotAwaitingDecision
	}
	s.run.Actions = approval.ApproveAll(s.run.Actions)
	s.mu.Unlock()

	s.events.Publish(events.ActionDecided, map[string]string{"run_id": s.Current().ID, "decision": "approve_all"})
	return s.Current(), nil
}

func (s *orchestratorService) decide(id string, apply func([]model.PlannedAction, string) ([]model.PlannedAction, bool)) (model.Run, error) {
	s.mu.Lock()
	if s.run.Stage != model.StageApproval {
		s.mu.Unlock()
		return model.Run{}, ErrNotAwaitingDecision
	}
	var changed bool
	s.run.Actions, changed = apply(s.run.Actions, id)
	action, _ := approval.Find(s.run.Actions, id)
	s.mu.Unlock()

	if changed {
		s.log(model.LogInfo, fmt.Sprintf("%s %s on %s", action.Status, action.Type, action.ResourceName))
		s.events.Publish(events.ActionDecided, action)
	}
	return s.Current(), nil
}

// Execute applies the approved actions in list order, then writes the
// report and finishes the run.
func (s *orchestratorService) Execute(ctx context.Context) (model.Run, error) {
	s.mu.Lock()
	if s.run.Stage != model.StageApproval {
		s.mu.Unlock()
		return model.Run{}, ErrNotAwaitingDecision
	}
	approved := approval.Approved(s.run.Actions)
	if len(approved) == 0 {
		s.mu.Unlock()
		return s.Current(), ErrNothingApproved
	}
	project := s.run.AccountID
	runID := s.run.ID
	from, err := s.transitionLocked(model.StageExecuting)
	s.mu.Unlock()
	if err != nil {
		return s.Current(), err
	}
	s.announce(runID, from, model.StageExecuting)

	ctx, span := s.tracer.Start(ctx, "run.execute")
	defer span.End()
	span.SetAttributes(attribute.Int("actions.approved", len(approved)))

	for _, action := range approved {
		action.Command = executor.Command(action, project)
		if err := s.executor.Execute(ctx, action); err != nil {
			span.RecordError(err)
			s.logger.Error().Err(err).Str("action_id", action.ID).Msg("failed to execute action")
			s.log(model.LogError, fmt.Sprintf("Failed %s on %s: %v", action.Type, action.ResourceName, err))
			continue
		}

		executedAt := s.now()
		s.update(func(r *model.Run) {
			for i := range r.Actions {
				if r.Actions[i].ID == action.ID && r.Actions[i].CanTransition(model.StatusExecuted) {
					r.Actions[i].Status = model.StatusExecuted
					r.Actions[i].Command = action.Command
					r.Actions[i].ExecutedAt = &executedAt
				}
			}
		})
		s.metrics.ActionExecuted(action.Type)
		s.events.Publish(events.ActionExecuted, action)
		s.log(model.LogSuccess, fmt.Sprintf("Executed %s on %s", action.Type, action.ResourceName))
	}

	return s.conclude(ctx, outcomeCompleted)
}

// Dismiss closes a run waiting for approval without executing anything
func (s *orchestratorService) Dismiss(ctx context.Context) (model.Run, error) {
	s.mu.Lock()
	if s.run.Stage != model.StageApproval {
		s.mu.Unlock()
		return model.Run{}, ErrNotAwaitingDecision
	}
	runID := s.run.ID
	from, err := s.transitionLocked(model.StageReporting)
	s.mu.Unlock()
	if err != nil {
		return s.Current(), err
	}
	s.announce(runID, from, model.StageReporting)

	s.log(model.LogInfo, "Run closed without execution")
	return s.finish(ctx, outcomeDismissed)
}

// Current returns a copy of the run state
func (s *orchestratorService) Current() model.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRun(s.run)
}

// Contexts returns the projected resource contexts of the current run
func (s *orchestratorService) Contexts() []model.ResourceContext {
	return projector.Project(s.Current().Candidates)
}

func (s *orchestratorService) fetch(ctx context.Context, req model.RunRequest) (*model.InventorySnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "stage.ingesting")
	defer span.End()
	if s.inventory == nil {
		return nil, fmt.Errorf("no inventory collaborator configured")
	}
	return s.inventory.FetchInventory(ctx, req)
}

func (s *orchestratorService) classify(snapshot *model.InventorySnapshot) (candidates []model.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classification failed: %v", r)
		}
	}()
	return classifier.Classify(snapshot, s.now()), nil
}

func (s *orchestratorService) reason(ctx context.Context, req model.RunRequest, candidates []model.Candidate) (actions []model.PlannedAction, err error) {
	ctx, span := s.tracer.Start(ctx, "stage.reasoning")
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reasoning failed: %v", r)
		}
	}()

	visual := ""
	if len(req.Image) > 0 && s.vision != nil {
		visual = s.vision.AnalyzeImage(ctx, req.Image, req.ImageMIME)
		s.log(model.LogInfo, "Architecture image analyzed")
	}

	if s.agent == nil {
		return nil, nil
	}
	res := s.agent.Negotiate(ctx, projector.Project(candidates), req.Intent, visual)
	span.SetAttributes(attribute.Int("negotiation.rounds", res.Rounds), attribute.Int("actions.proposed", len(res.Actions)))
	if res.Rounds > 0 {
		s.metrics.NegotiationRounds(res.Rounds)
	}
	s.update(func(r *model.Run) { r.Logs = append(r.Logs, res.Trace...) })
	return res.Actions, nil
}

// conclude moves the run to reporting and finishes it
func (s *orchestratorService) conclude(ctx context.Context, outcome string) (model.Run, error) {
	if err := s.advance(model.StageReporting); err != nil {
		return s.Current(), err
	}
	return s.finish(ctx, outcome)
}

// finish writes the report for a run in the reporting stage, finishes it
// and persists its record
func (s *orchestratorService) finish(ctx context.Context, outcome string) (model.Run, error) {
	ctx, span := s.tracer.Start(ctx, "stage.reporting")
	defer span.End()

	run := s.Current()
	in := model.ReportInput{
		AccountID:  run.AccountID,
		Industry:   run.Industry,
		Candidates: run.Candidates,
		Actions:    run.Actions,
	}
	if run.Snapshot != nil {
		in.TotalMonthlyBill = run.Snapshot.TotalMonthlyBill
	}
	if s.billing != nil {
		spend, err := s.billing.GetMonthToDateSpend(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("billed spend unavailable")
		} else {
			in.BilledSpend = spend
		}
	}
	text := s.reporter.GenerateReport(ctx, in)

	finishedAt := s.now()
	s.update(func(r *model.Run) {
		r.Report = text
		r.FinishedAt = &finishedAt
	})
	if err := s.advance(model.StageFinished); err != nil {
		return s.Current(), err
	}

	run = s.Current()
	record := Record(run)
	s.metrics.RunFinished(outcome, record.PotentialSavings)
	s.events.Publish(events.RunFinished, record)
	if s.store != nil {
		if err := s.store.SaveRun(record); err != nil {
			s.logger.Error().Err(err).Str("run_id", run.ID).Msg("failed to persist run")
		}
	}
	s.log(model.LogSuccess, fmt.Sprintf("Run finished: %s", outcome))
	return s.Current(), nil
}

// fail returns the run to idle and drops its transient state
func (s *orchestratorService) fail(err error) model.Run {
	s.logger.Error().Err(err).Msg("run failed")
	s.log(model.LogError, err.Error())

	s.mu.Lock()
	from := s.run.Stage
	s.run, _ = Transition(s.run, model.StageIdle)
	s.run.Snapshot = nil
	s.run.Candidates = nil
	s.run.Actions = nil
	s.run.Report = ""
	run := copyRun(s.run)
	s.mu.Unlock()

	s.metrics.StageTransition(from, model.StageIdle)
	s.metrics.RunFinished(outcomeFailed, 0)
	s.events.Publish(events.RunFailed, map[string]string{"run_id": run.ID, "error": err.Error()})
	return run
}

func (s *orchestratorService) advance(to model.Stage) error {
	s.mu.Lock()
	id := s.run.ID
	from, err := s.transitionLocked(to)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.announce(id, from, to)
	return nil
}

// transitionLocked moves the run to the next stage. s.mu must be held.
func (s *orchestratorService) transitionLocked(to model.Stage) (model.Stage, error) {
	from := s.run.Stage
	next, err := Transition(s.run, to)
	if err != nil {
		return from, err
	}
	s.run = next
	return from, nil
}

func (s *orchestratorService) announce(id string, from, to model.Stage) {
	s.logger.Debug().Str("run_id", id).Str("from", string(from)).Str("stage", string(to)).Msg("stage transition")
	s.metrics.StageTransition(from, to)
	s.events.Publish(events.StageChanged, map[string]string{"run_id": id, "from": string(from), "to": string(to)})
}

func (s *orchestratorService) update(fn func(r *model.Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.run)
}

func (s *orchestratorService) log(level model.LogLevel, msg string) {
	s.update(func(r *model.Run) {
		r.Logs = append(r.Logs, model.LogEntry{Time: s.now(), Level: level, Message: msg})
	})
}

// Record summarizes a finished run for persistence
func Record(run model.Run) model.RunRecord {
	rec := model.RunRecord{
		ID:               run.ID,
		AccountID:        run.AccountID,
		Industry:         run.Industry,
		StartedAt:        run.StartedAt,
		StageHistory:     run.StageHistory,
		PotentialSavings: classifier.TotalSavings(run.Candidates),
		RealizedSavings:  report.RealizedSavings(run.Candidates, run.Actions),
		Candidates:       run.Candidates,
		Actions:          run.Actions,
		Report:           run.Report,
	}
	if run.FinishedAt != nil {
		rec.FinishedAt = *run.FinishedAt
	}
	if run.Snapshot != nil {
		rec.TotalMonthlyBill = run.Snapshot.TotalMonthlyBill
	}
	return rec
}

func copyRun(r model.Run) model.Run {
	r.StageHistory = append([]model.Stage(nil), r.StageHistory...)
	r.Candidates = append([]model.Candidate(nil), r.Candidates...)
	r.Actions = append([]model.PlannedAction(nil), r.Actions...)
	r.Logs = append([]model.LogEntry(nil), r.Logs...)
	return r
}

func modeOf(req model.RunRequest) model.InventoryMode {
	if req.Mode == "" {
		return model.InventorySimulated
	}
	return req.Mode
}
