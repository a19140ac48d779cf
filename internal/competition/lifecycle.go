// internal/competition/lifecycle.go
package competition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/leaderboard"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

type SubmissionOrder string

const (
	OrderInserted SubmissionOrder = "inserted"
	OrderNewest   SubmissionOrder = "newest"
	OrderTitle    SubmissionOrder = "title"
)

func ParseOrder(s string) (SubmissionOrder, error) {
	switch o := SubmissionOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderInserted, nil
	case OrderInserted, OrderNewest, OrderTitle:
		return o, nil
	default:
		return "", errs.Invalid("order", fmt.Sprintf("unknown order %q", s))
	}
}

// Filter narrows List; zero values match everything.
type Filter struct {
	Status models.CompetitionStatus
	Field  string
}

// Lifecycle runs competitions from proposal through joins, submissions and votes.
// Every mutating call returns the activities it produced.
type Lifecycle struct {
	store         store.RecordStore
	now           func() time.Time
	requireActive bool
}

func NewLifecycle(s store.RecordStore, now func() time.Time, requireActive bool) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{store: s, now: now, requireActive: requireActive}
}

func (l *Lifecycle) Propose(req models.ProposeCompetitionRequest, ownerID string) (*models.Competition, []models.Activity, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Field = strings.TrimSpace(req.Field)
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, nil, errs.Invalid("owner", "failed required")
	}

	existing, err := l.store.FindCompetitionByTitle(req.Title)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up competition title: %w", err)
	}
	if existing != nil {
		return nil, nil, fmt.Errorf("competition %q: %w", req.Title, errs.ErrDuplicateTitle)
	}

	now := l.now()
	c := &models.Competition{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Threshold:    req.Threshold,
		Field:        req.Field,
		OwnerID:      ownerID,
		Participants: []models.Participation{},
		CreatedAt:    now,
	}
	if err := l.store.SaveCompetition(c); err != nil {
		return nil, nil, fmt.Errorf("failed to save competition: %w", err)
	}

	return c, []models.Activity{
		models.NewActivity(now, models.ActivityCompetitionProposed, c.ID, ownerID, "", c.Title),
	}, nil
}

func (l *Lifecycle) Get(competitionID string) (*models.Competition, error) {
	c, err := l.store.GetCompetition(competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	if c == nil {
		return nil, errs.NotFound("competition", competitionID)
	}
	return c, nil
}

// account makes sure an acting id names an existing account.
func (l *Lifecycle) account(id string) error {
	a, err := l.store.GetAccount(id)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if a == nil {
		return errs.NotFound("account", id)
	}
	return nil
}

// Join records the participant and returns the new participant count.
func (l *Lifecycle) Join(competitionID, participantID string) (int, []models.Activity, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return 0, nil, errs.Invalid("participant", "failed required")
	}
	if err := l.account(participantID); err != nil {
		return 0, nil, err
	}
	c, err := l.Get(competitionID)
	if err != nil {
		return 0, nil, err
	}
	if c.HasParticipant(participantID) {
		return 0, nil, fmt.Errorf("%s in %q: %w", participantID, c.Title, errs.ErrAlreadyJoined)
	}

	now := l.now()
	c.Participants = append(c.Participants, models.Participation{ParticipantID: participantID, JoinedAt: now})
	if err := l.store.SaveCompetition(c); err != nil {
		return 0, nil, fmt.Errorf("failed to save competition: %w", err)
	}

	count := c.ParticipantCount()
	return count, []models.Activity{
		models.NewActivity(now, models.ActivityCompetitionJoined, c.ID, participantID, "", strconv.Itoa(count)),
	}, nil
}

func (l *Lifecycle) Delete(competitionID, requesterID string) ([]models.Activity, error) {
	c, err := l.Get(competitionID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != requesterID {
		return nil, fmt.Errorf("competition %q: %w", c.Title, errs.ErrNotOwner)
	}
	if err := l.store.DeleteCompetition(c.ID); err != nil {
		return nil, fmt.Errorf("failed to delete competition: %w", err)
	}
	return []models.Activity{
		models.NewActivity(l.now(), models.ActivityCompetitionDeleted, c.ID, requesterID, "", c.Title),
	}, nil
}

func (l *Lifecycle) List(f Filter) ([]models.CompetitionView, error) {
	all, err := l.store.ListCompetitions()
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	out := make([]models.CompetitionView, 0, len(all))
	for _, c := range all {
		if f.Status != "" && c.Status() != f.Status {
			continue
		}
		if f.Field != "" && !strings.EqualFold(c.Field, f.Field) {
			continue
		}
		out = append(out, models.NewCompetitionView(c))
	}
	return out, nil
}

func (l *Lifecycle) SubmitWork(req models.SubmitWorkRequest) (*models.Submission, []models.Activity, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}
	c, err := l.Get(req.CompetitionID)
	if err != nil {
		return nil, nil, err
	}
	if err := l.account(req.SubmitterID); err != nil {
		return nil, nil, err
	}
	if l.requireActive && c.Status() != models.StatusActive {
		return nil, nil, errs.Invalid("competition", fmt.Sprintf("%q is not active yet", c.Title))
	}

	now := l.now()
	c.NextOrdinal++
	sub := &models.Submission{
		ID:            uuid.NewString(),
		CompetitionID: c.ID,
		Ordinal:       c.NextOrdinal,
		SubmitterID:   req.SubmitterID,
		Title:         req.Title,
		Description:   req.Description,
		File:          req.File,
		VoterIDs:      []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.store.SaveCompetition(c); err != nil {
		return nil, nil, fmt.Errorf("failed to save competition: %w", err)
	}
	if err := l.store.SaveSubmission(sub); err != nil {
		return nil, nil, fmt.Errorf("failed to save submission: %w", err)
	}

	return sub, []models.Activity{
		models.NewActivity(now, models.ActivityWorkSubmitted, c.ID, sub.SubmitterID, sub.ID, sub.Title),
	}, nil
}

func (l *Lifecycle) submission(submissionID string) (*models.Submission, error) {
	sub, err := l.store.GetSubmission(submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, errs.NotFound("submission", submissionID)
	}
	return sub, nil
}

func (l *Lifecycle) UpdateSubmission(submissionID, requesterID string, upd models.SubmissionUpdate) (*models.Submission, []models.Activity, error) {
	upd.Title = trimmed(upd.Title)
	upd.Description = trimmed(upd.Description)
	if err := upd.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}
	sub, err := l.submission(submissionID)
	if err != nil {
		return nil, nil, err
	}
	if sub.SubmitterID != requesterID {
		return nil, nil, fmt.Errorf("submission %q: %w", sub.Title, errs.ErrNotOwner)
	}

	if upd.Title != nil {
		sub.Title = *upd.Title
	}
	if upd.Description != nil {
		sub.Description = *upd.Description
	}
	if upd.File != nil {
		sub.File = upd.File
	}
	now := l.now()
	sub.UpdatedAt = now
	if err := l.store.SaveSubmission(sub); err != nil {
		return nil, nil, fmt.Errorf("failed to save submission: %w", err)
	}

	return sub, []models.Activity{
		models.NewActivity(now, models.ActivityWorkUpdated, sub.CompetitionID, requesterID, sub.ID, sub.Title),
	}, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (l *Lifecycle) DeleteSubmission(submissionID, requesterID string) ([]models.Activity, error) {
	sub, err := l.submission(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.SubmitterID != requesterID {
		return nil, fmt.Errorf("submission %q: %w", sub.Title, errs.ErrNotOwner)
	}
	if err := l.store.DeleteSubmission(sub.ID); err != nil {
		return nil, fmt.Errorf("failed to delete submission: %w", err)
	}
	return []models.Activity{
		models.NewActivity(l.now(), models.ActivityWorkDeleted, sub.CompetitionID, requesterID, sub.ID, sub.Title),
	}, nil
}

// VoteSubmission adds one vote to a submission; each voter votes once per submission.
func (l *Lifecycle) VoteSubmission(submissionID, voterID string) (*models.Submission, []models.Activity, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return nil, nil, errs.Invalid("voter", "failed required")
	}
	if err := l.account(voterID); err != nil {
		return nil, nil, err
	}
	sub, err := l.submission(submissionID)
	if err != nil {
		return nil, nil, err
	}
	if sub.SubmitterID == voterID {
		return nil, nil, fmt.Errorf("submission %q: %w", sub.Title, errs.ErrSelfVote)
	}
	if sub.HasVoter(voterID) {
		return nil, nil, fmt.Errorf("submission %q: %w", sub.Title, errs.ErrAlreadyVoted)
	}

	sub.VoterIDs = append(sub.VoterIDs, voterID)
	sub.Votes++
	if err := l.store.SaveSubmission(sub); err != nil {
		return nil, nil, fmt.Errorf("failed to save submission: %w", err)
	}

	return sub, []models.Activity{
		models.NewActivity(l.now(), models.ActivitySubmissionVoted, sub.CompetitionID, voterID, sub.ID, strconv.Itoa(sub.Votes)),
	}, nil
}

// Submissions returns a fresh slice; sorting it never touches the stored order.
func (l *Lifecycle) Submissions(competitionID string, order SubmissionOrder) ([]*models.Submission, error) {
	if _, err := l.Get(competitionID); err != nil {
		return nil, err
	}
	subs, err := l.store.ListSubmissions(competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	out := append([]*models.Submission{}, subs...)

	switch order {
	case OrderNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Ordinal > out[j].Ordinal })
	case OrderTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out, nil
}

// Ranking is the ranked vote list of a competition: voted submissions only, most votes first.
func (l *Lifecycle) Ranking(competitionID string) ([]leaderboard.Entry, error) {
	if _, err := l.Get(competitionID); err != nil {
		return nil, err
	}
	return RankedVotes(l.store, competitionID)
}

// RankedVotes is shared with accrual and export, which walk every competition.
func RankedVotes(s store.RecordStore, competitionID string) ([]leaderboard.Entry, error) {
	subs, err := s.ListSubmissions(competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	entries := make([]leaderboard.Entry, 0, len(subs))
	for _, sub := range subs {
		if sub.Votes < 1 {
			continue
		}
		entries = append(entries, leaderboard.Entry{Subject: sub.ID, Label: sub.Title, Votes: sub.Votes})
	}
	return leaderboard.TopN(entries, len(entries)), nil
}

func (l *Lifecycle) AddFeedback(competitionID string, req models.FeedbackRequest) (*models.Feedback, []models.Activity, error) {
	req.Mentor = strings.TrimSpace(req.Mentor)
	req.Text = strings.TrimSpace(req.Text)
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}
	c, err := l.Get(competitionID)
	if err != nil {
		return nil, nil, err
	}

	now := l.now()
	fb := models.Feedback{CompetitionID: c.ID, Mentor: req.Mentor, Text: req.Text, CreatedAt: now}
	if err := l.store.AppendFeedback(fb); err != nil {
		return nil, nil, fmt.Errorf("failed to append feedback: %w", err)
	}
	return &fb, []models.Activity{
		models.NewActivity(now, models.ActivityFeedbackAdded, c.ID, req.Mentor, "", ""),
	}, nil
}

func (l *Lifecycle) Feedback(competitionID string) ([]models.Feedback, error) {
	if _, err := l.Get(competitionID); err != nil {
		return nil, err
	}
	fb, err := l.store.ListFeedback(competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return fb, nil
}
