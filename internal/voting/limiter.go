// internal/voting/limiter.go
package voting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

type Policy struct {
	Limit     int `toml:"limit"`
	ResetDays int `toml:"reset_days"`
}

func DefaultPolicy() Policy {
	return Policy{Limit: 5, ResetDays: 30}
}

// Limiter caps how many portfolio votes a voter may cast per reset window and keeps
// one standing ballot per (voter, target).
type Limiter struct {
	budgets BudgetStore
	records store.RecordStore
	policy  Policy
	now     func() time.Time
}

func NewLimiter(budgets BudgetStore, records store.RecordStore, policy Policy, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{budgets: budgets, records: records, policy: policy, now: now}
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from one date to another, ignoring the time of day.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// Register gives a first-seen voter a full budget starting today. Known voters are returned as-is.
func (l *Limiter) Register(ctx context.Context, voterID string) (*models.VoterBudget, error) {
	b, err := l.budgets.GetBudget(ctx, voterID)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	b = &models.VoterBudget{
		VoterID:   voterID,
		VotesLeft: l.policy.Limit,
		LastReset: Day(l.now()),
	}
	if err := l.budgets.SaveBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// MaybeReset refills the budget once ResetDays calendar days have passed since the last reset.
func (l *Limiter) MaybeReset(ctx context.Context, voterID string, today time.Time) (*models.VoterBudget, error) {
	b, err := l.Register(ctx, voterID)
	if err != nil {
		return nil, err
	}
	if DaysBetween(b.LastReset, today) < l.policy.ResetDays {
		return b, nil
	}

	b.VotesLeft = l.policy.Limit
	b.LastReset = Day(today)
	if err := l.budgets.SaveBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// voter resolves an acting id to its account; budgets and ballots are only kept for accounts.
func (l *Limiter) voter(voterID string) (*models.Account, error) {
	a, err := l.records.GetAccount(voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if a == nil {
		return nil, errs.NotFound("account", voterID)
	}
	return a, nil
}

func (l *Limiter) Remaining(ctx context.Context, voterID string) (*models.VoterBudget, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return nil, errs.Invalid("voter_id", "failed required")
	}
	if _, err := l.voter(voterID); err != nil {
		return nil, err
	}
	return l.MaybeReset(ctx, voterID, l.now())
}

// Cast records a ballot. Changing the verdict of a standing ballot moves the tally and
// leaves the budget alone; only new ballots are charged.
func (l *Limiter) Cast(ctx context.Context, req models.VoteRequest) (*models.Ballot, []models.Activity, error) {
	req.VoterID = strings.TrimSpace(req.VoterID)
	req.TargetID = strings.TrimSpace(req.TargetID)
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}

	voter, err := l.voter(req.VoterID)
	if err != nil {
		return nil, nil, err
	}
	target, err := l.records.GetAccount(req.TargetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if target == nil {
		return nil, nil, errs.NotFound("account", req.TargetID)
	}
	if voter.ID == target.ID {
		return nil, nil, fmt.Errorf("%s: %w", voter.ID, errs.ErrSelfVote)
	}

	var project *models.Project
	if req.ProjectID != "" {
		project, err = l.records.GetProject(req.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get project: %w", err)
		}
		if project == nil {
			return nil, nil, errs.NotFound("project", req.ProjectID)
		}
		if project.AccountID != target.ID {
			return nil, nil, errs.Invalid("project_id", "does not belong to the target account")
		}
	}

	existing, err := l.records.GetBallot(req.VoterID, req.TargetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get ballot: %w", err)
	}
	now := l.now()

	if existing != nil {
		if existing.Verdict == req.Verdict {
			return nil, nil, fmt.Errorf("%s on %s: %w", req.VoterID, req.TargetID, errs.ErrAlreadyVoted)
		}
		ballot, err := l.apply(target, project, existing, req, now)
		if err != nil {
			return nil, nil, err
		}
		return ballot, []models.Activity{
			models.NewActivity(now, models.ActivityVoteChanged, target.ID, req.VoterID, req.ProjectID, string(req.Verdict)),
		}, nil
	}

	budget, err := l.MaybeReset(ctx, req.VoterID, now)
	if err != nil {
		return nil, nil, err
	}
	if budget.VotesLeft <= 0 {
		return nil, nil, fmt.Errorf("%s: %w", req.VoterID, errs.ErrNoVotesRemaining)
	}
	budget.VotesLeft--
	if err := l.budgets.SaveBudget(ctx, budget); err != nil {
		return nil, nil, err
	}

	ballot, err := l.apply(target, project, nil, req, now)
	if err != nil {
		// the ballot never landed, so the vote goes back
		budget.VotesLeft++
		if rerr := l.budgets.SaveBudget(ctx, budget); rerr != nil {
			logger.Error.Printf("Failed to refund vote to %s: %v", req.VoterID, rerr)
		}
		return nil, nil, err
	}
	return ballot, []models.Activity{
		models.NewActivity(now, models.ActivityVoteCast, target.ID, req.VoterID, req.ProjectID, string(req.Verdict)),
	}, nil
}

func (l *Limiter) retract(target *models.Account, b *models.Ballot) error {
	switch b.Verdict {
	case models.VerdictYes:
		target.YesVotes--
		if b.ProjectID == "" {
			return nil
		}
		p, err := l.records.GetProject(b.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}
		// the project may be gone; the account tally still moves
		if p != nil && p.Votes > 0 {
			p.Votes--
			if err := l.records.SaveProject(p); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}
		}
	case models.VerdictNo:
		target.NoVotes--
	}
	return nil
}

// apply stores the ballot first, so a failed save leaves every tally untouched.
// A replaced ballot is retracted before the new verdict is counted.
func (l *Limiter) apply(target *models.Account, project *models.Project, replaced *models.Ballot, req models.VoteRequest, now time.Time) (*models.Ballot, error) {
	ballot := &models.Ballot{
		VoterID:   req.VoterID,
		TargetID:  req.TargetID,
		ProjectID: req.ProjectID,
		Verdict:   req.Verdict,
		CastAt:    now,
	}
	if err := l.records.SaveBallot(ballot); err != nil {
		return nil, fmt.Errorf("failed to save ballot: %w", err)
	}

	if replaced != nil {
		if err := l.retract(target, replaced); err != nil {
			return nil, err
		}
	}
	switch req.Verdict {
	case models.VerdictYes:
		target.YesVotes++
		if project != nil {
			project.Votes++
			if err := l.records.SaveProject(project); err != nil {
				return nil, fmt.Errorf("failed to save project: %w", err)
			}
		}
	case models.VerdictNo:
		target.NoVotes++
	}
	if err := l.records.SaveAccount(target); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return ballot, nil
}
