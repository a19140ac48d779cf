// internal/accrual/reconciler.go
package accrual

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/fusionx/internal/community"
	"github.com/shrimpsizemoose/fusionx/internal/competition"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

const podiumSize = 3

type Weights struct {
	Vote       int `toml:"vote"`
	Submission int `toml:"submission"`
	Join       int `toml:"join"`
}

func DefaultWeights() Weights {
	return Weights{Vote: 1, Submission: 5, Join: 2}
}

// XP is derived from counts, so recomputing it never inflates it.
func (w Weights) XP(yesVotes, submissions, joins int) int {
	return w.Vote*yesVotes + w.Submission*submissions + w.Join*joins
}

// Reconciler brings every account's badges and XP in line with the store.
// Running it twice on the same data changes nothing the second time.
type Reconciler struct {
	store    store.RecordStore
	notifier *community.Notifier
	weights  Weights
	now      func() time.Time
}

func NewReconciler(s store.RecordStore, notifier *community.Notifier, weights Weights, now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{store: s, notifier: notifier, weights: weights, now: now}
}

type tally struct {
	submissions int
	joins       int
	podium      []models.Badge
}

func (r *Reconciler) Run() ([]models.Activity, error) {
	accounts, err := r.store.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	tallies, err := r.collect()
	if err != nil {
		return nil, err
	}

	now := r.now()
	var activities []models.Activity
	for _, account := range accounts {
		acts, err := r.reconcile(account, tallies[account.ID], now)
		if err != nil {
			return activities, err
		}
		activities = append(activities, acts...)
	}
	return activities, nil
}

// collect walks competitions once and tallies per participant/submitter id.
func (r *Reconciler) collect() (map[string]*tally, error) {
	tallies := make(map[string]*tally)
	get := func(id string) *tally {
		t, ok := tallies[id]
		if !ok {
			t = &tally{}
			tallies[id] = t
		}
		return t
	}

	competitions, err := r.store.ListCompetitions()
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	for _, c := range competitions {
		for _, p := range c.Participants {
			get(p.ParticipantID).joins++
		}

		subs, err := r.store.ListSubmissions(c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list submissions: %w", err)
		}
		submitter := make(map[string]string, len(subs))
		for _, sub := range subs {
			get(sub.SubmitterID).submissions++
			submitter[sub.ID] = sub.SubmitterID
		}

		ranked, err := competition.RankedVotes(r.store, c.ID)
		if err != nil {
			return nil, err
		}
		for i, entry := range ranked {
			if i == podiumSize {
				break
			}
			t := get(submitter[entry.Subject])
			t.podium = append(t.podium, models.TopRankBadge(i+1, c.Title))
		}
	}
	return tallies, nil
}

func (r *Reconciler) earned(account *models.Account, t *tally) ([]models.Badge, error) {
	projects, err := r.store.ListProjects(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var badges []models.Badge
	if len(projects) > 0 {
		badges = append(badges, models.FirstPortfolioBadge())
	}
	if len(account.Fields) >= 2 {
		badges = append(badges, models.MultiFieldBadge())
	}
	if t != nil {
		badges = append(badges, t.podium...)
	}
	for _, p := range projects {
		if p.Verified {
			badges = append(badges, models.VerifiedProjectBadge(p.Title))
		}
	}
	return badges, nil
}

func (r *Reconciler) reconcile(account *models.Account, t *tally, now time.Time) ([]models.Activity, error) {
	badges, err := r.earned(account, t)
	if err != nil {
		return nil, err
	}

	var activities []models.Activity
	changed := false
	for _, b := range badges {
		if account.HasBadge(b.Name) {
			continue
		}
		b.AwardedAt = now
		account.Badges = append(account.Badges, b)
		changed = true
		if err := r.notifier.Notify(account.ID, fmt.Sprintf("You earned the badge: %s %s!", b.Icon, b.Name)); err != nil {
			return nil, err
		}
		activities = append(activities, models.NewActivity(now, models.ActivityBadgeAwarded, account.ID, "", "", b.Name))
	}

	var submissions, joins int
	if t != nil {
		submissions, joins = t.submissions, t.joins
	}
	xp := r.weights.XP(account.YesVotes, submissions, joins)
	if xp != account.XP {
		delta := xp - account.XP
		account.XP = xp
		changed = true
		if err := r.notifier.Notify(account.ID, fmt.Sprintf("You now have %d XP (%+d).", xp, delta)); err != nil {
			return nil, err
		}
		activities = append(activities, models.NewActivity(now, models.ActivityXPChanged, account.ID, "", "", strconv.Itoa(delta)))
	}

	if !changed {
		return nil, nil
	}
	if err := r.store.SaveAccount(account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return activities, nil
}
