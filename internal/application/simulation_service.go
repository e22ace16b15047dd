package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	"go.uber.org/zap"
)

const (
	salaryMemo     = "daily salary"
	salaryCategory = "income"

	// Profile recomputation is throttled to once per virtual minute; ticks
	// inside the same minute reuse the previous result.
	profileThrottle = time.Minute
)

// TickResult reports what one tick changed, so the caller can render the
// effects without diffing session state.
type TickResult struct {
	Now        domain.VirtualTime
	Arrived    []domain.Delivery
	StartedJob *domain.ScheduledJob
	EndedJob   *domain.ScheduledJob
	SalaryPaid bool
	Profile    *domain.DerivedProfile
}

// Mutated reports whether the tick appended to the message log, which is
// what triggers a snapshot write.
func (r TickResult) Mutated() bool {
	return len(r.Arrived) > 0 || r.StartedJob != nil || r.EndedJob != nil
}

// SimulationService advances a session's virtual clock and resolves its
// scheduled events. Within one tick the order is fixed: clock advance,
// delivery resolution, job transitions, profile recompute, persistence.
type SimulationService struct {
	wallet    ports.Wallet
	snapshots *SnapshotService
	logger    *zap.Logger

	lastProfileAt domain.VirtualTime
	lastProfile   domain.DerivedProfile
}

func NewSimulationService(wallet ports.Wallet, snapshots *SnapshotService, logger *zap.Logger) *SimulationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SimulationService{wallet: wallet, snapshots: snapshots, logger: logger}
}

// Tick applies one clock advance and every effect derived from it. All
// session mutation is synchronous; when Tick returns, the session and its
// persisted snapshot agree.
func (s *SimulationService) Tick(ctx context.Context, ch domain.Character, session *domain.Session, delta time.Duration) (TickResult, error) {
	result := TickResult{Now: session.Clock.Advance(delta)}

	s.resolveDeliveries(session, &result)
	if err := s.evaluateJobs(ctx, ch, session, &result); err != nil {
		return result, err
	}
	s.recomputeProfile(ch, session, &result)

	if result.Mutated() {
		if err := s.snapshots.SaveSession(ctx, session); err != nil {
			return result, fmt.Errorf("persist session after tick: %w", err)
		}
	}

	return result, nil
}

// SkipWork fast-forwards the clock to one minute past the active job's next
// end boundary, then runs the transition-out logic immediately.
func (s *SimulationService) SkipWork(ctx context.Context, ch domain.Character, session *domain.Session) (TickResult, error) {
	result := TickResult{Now: session.Clock.Now()}

	if !session.IsWorking() {
		return result, nil
	}

	job, ok := ch.JobByID(session.ActiveJobID)
	if !ok {
		// Stale assignment; clear the working state and move on.
		s.logger.Warn("active job not found on character, clearing",
			zap.String("job", string(session.ActiveJobID)),
			zap.String("character", string(ch.ID)))
		session.ActiveJobID = ""
		return result, nil
	}

	result.Now = session.Clock.SkipTo(job.NextEnd(session.Clock.Now()).Add(time.Minute))

	s.resolveDeliveries(session, &result)
	if err := s.evaluateJobs(ctx, ch, session, &result); err != nil {
		return result, err
	}
	s.recomputeProfile(ch, session, &result)

	if err := s.snapshots.SaveSession(ctx, session); err != nil {
		return result, fmt.Errorf("persist session after skip: %w", err)
	}

	return result, nil
}

// Restart resets the session to its scenario start and persists the empty
// state. Pending deliveries and notifications are gone for good; a delivery
// resolved before the reset can never resolve again.
func (s *SimulationService) Restart(ctx context.Context, ch domain.Character, session *domain.Session, now time.Time) error {
	session.Restart(ch, now)
	s.lastProfileAt = 0

	if err := s.snapshots.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("persist session after restart: %w", err)
	}

	return nil
}

func (s *SimulationService) resolveDeliveries(session *domain.Session, result *TickResult) {
	arrived, remaining := domain.DueDeliveries(session.Pending, result.Now)
	if len(arrived) == 0 {
		return
	}

	session.Pending = remaining
	for _, d := range arrived {
		session.Notify(fmt.Sprintf("Delivery arrived: %s", d.ItemName))
		session.AppendSystem(fmt.Sprintf("A delivery arrived at the door: %s.", d.ItemName))
	}
	result.Arrived = arrived
}

// evaluateJobs runs the shift window check and the in/out transitions.
// Overlapping shifts are resolved deterministically: the most recently
// assigned job wins.
func (s *SimulationService) evaluateJobs(ctx context.Context, ch domain.Character, session *domain.Session, result *TickResult) error {
	hour := result.Now.Hour()
	active, found := s.activeJob(ch, hour)

	switch {
	case found && session.ActiveJobID == "":
		session.ActiveJobID = active.ID
		session.AppendSystem(fmt.Sprintf("%s left for work (%s).", ch.Name, active.Name))
		result.StartedJob = &active

	case found && session.ActiveJobID != active.ID:
		// A different shift took over without an idle gap in between.
		// Close out the old one before starting the new.
		if err := s.transitionOut(ctx, ch, session, result); err != nil {
			return err
		}
		session.ActiveJobID = active.ID
		session.AppendSystem(fmt.Sprintf("%s left for work (%s).", ch.Name, active.Name))
		result.StartedJob = &active

	case !found && session.ActiveJobID != "":
		if err := s.transitionOut(ctx, ch, session, result); err != nil {
			return err
		}
	}

	return nil
}

// activeJob picks the job covering the given hour, scanning assignments most
// recent first. Unknown job ids are logged and skipped.
func (s *SimulationService) activeJob(ch domain.Character, hour int) (domain.ScheduledJob, bool) {
	for i := len(ch.AssignedJobs) - 1; i >= 0; i-- {
		id := ch.AssignedJobs[i]
		job, ok := ch.JobByID(id)
		if !ok {
			s.logger.Warn("assigned job not defined on character, treating as inactive",
				zap.String("job", string(id)),
				zap.String("character", string(ch.ID)))
			continue
		}
		if job.ActiveAt(hour) {
			return job, true
		}
	}
	return domain.ScheduledJob{}, false
}

// transitionOut ends the current shift and attempts the daily salary claim.
// The claim is idempotent per job per virtual day; a repeat on the same day
// still emits a message so the user understands no pay was issued.
func (s *SimulationService) transitionOut(ctx context.Context, ch domain.Character, session *domain.Session, result *TickResult) error {
	jobID := session.ActiveJobID
	session.ActiveJobID = ""

	job, ok := ch.JobByID(jobID)
	if !ok {
		s.logger.Warn("finished job not defined on character, skipping payout",
			zap.String("job", string(jobID)),
			zap.String("character", string(ch.ID)))
		return nil
	}
	result.EndedJob = &job

	day := result.Now.DayKey()
	if session.LastSalaryClaim[job.ID] == day {
		session.AppendSystem(fmt.Sprintf("%s got home from work. Today's pay was already collected.", ch.Name))
		return nil
	}

	ok, err := s.wallet.CreditBalance(ctx, ch.ID, job.DailySalary, salaryMemo, salaryCategory)
	if err != nil {
		// Wallet trouble skips the payout, never the session.
		s.logger.Error("wallet credit failed, skipping payout",
			zap.String("job", string(job.ID)),
			zap.Error(err))
		session.AppendSystem(fmt.Sprintf("%s got home from work.", ch.Name))
		return nil
	}
	if !ok {
		s.logger.Warn("wallet rejected salary credit",
			zap.String("job", string(job.ID)),
			zap.Int64("amount", job.DailySalary))
		session.AppendSystem(fmt.Sprintf("%s got home from work.", ch.Name))
		return nil
	}

	session.LastSalaryClaim[job.ID] = day
	session.AppendSystem(fmt.Sprintf("%s got home from work and was paid %d for the day.", ch.Name, job.DailySalary))
	result.SalaryPaid = true

	return nil
}

// recomputeProfile refreshes the derived profile at most once per virtual
// minute. Recomputation on every keystroke would be pure waste: the inputs
// only shift meaningfully with new messages or a new simulated minute.
func (s *SimulationService) recomputeProfile(ch domain.Character, session *domain.Session, result *TickResult) {
	if s.lastProfileAt != 0 && result.Now < s.lastProfileAt.Add(profileThrottle) && !result.Mutated() {
		profile := s.lastProfile
		result.Profile = &profile
		return
	}

	profile := domain.ComputeProfile(ch, session.Messages, result.Now)
	s.lastProfileAt = result.Now
	s.lastProfile = profile
	result.Profile = &profile
}

// QueueDelivery adds a pending delivery due after the given virtual delay.
func (s *SimulationService) QueueDelivery(ctx context.Context, session *domain.Session, d domain.Delivery) error {
	session.Pending = append(session.Pending, d)
	if err := s.snapshots.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("persist session after queueing delivery: %w", err)
	}
	return nil
}
