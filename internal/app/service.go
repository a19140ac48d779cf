package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/fusionx/internal/accrual"
	"github.com/shrimpsizemoose/fusionx/internal/community"
	"github.com/shrimpsizemoose/fusionx/internal/competition"
	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/export"
	"github.com/shrimpsizemoose/fusionx/internal/journal"
	"github.com/shrimpsizemoose/fusionx/internal/leaderboard"
	"github.com/shrimpsizemoose/fusionx/internal/metrics"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/portfolio"
	"github.com/shrimpsizemoose/fusionx/internal/store/memory"
	"github.com/shrimpsizemoose/fusionx/internal/voting"
)

// Service is the single entry point to the core. One mutex serializes every call,
// and every successful mutation is followed by exactly one accrual pass.
type Service struct {
	Config *Config

	mu           sync.Mutex
	store        *memory.Store
	budgets      voting.BudgetStore
	journal      journal.Journal
	competitions *competition.Lifecycle
	votes        *voting.Limiter
	portfolios   *portfolio.Book
	notifier     *community.Notifier
	chat         *community.Chat
	accrual      *accrual.Reconciler
	now          func() time.Time
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	budgets, err := NewBudgetStore(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to init vote budgets: %w", err)
	}

	j, err := NewJournal(config)
	if err != nil {
		budgets.Close()
		return nil, fmt.Errorf("failed to init journal: %w", err)
	}

	return New(config, budgets, j, time.Now), nil
}

// New wires a service around an empty record store.
func New(config *Config, budgets voting.BudgetStore, j journal.Journal, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	s := memory.NewStore()
	notifier := community.NewNotifier(s, now)

	return &Service{
		Config:       config,
		store:        s,
		budgets:      budgets,
		journal:      j,
		competitions: competition.NewLifecycle(s, now, config.Competitions.RequireActiveForSubmissions),
		votes:        voting.NewLimiter(budgets, s, config.VotingPolicy(), now),
		portfolios:   portfolio.NewBook(s, now),
		notifier:     notifier,
		chat:         community.NewChat(s, now),
		accrual:      accrual.NewReconciler(s, notifier, config.XP, now),
		now:          now,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrValidation):
		return "invalid"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	case errs.StatusCode(err) == http.StatusInternalServerError:
		return "error"
	default:
		return "rejected"
	}
}

// commit finishes a mutating operation: accrual, journal and metrics. Must hold s.mu.
func (s *Service) commit(ctx context.Context, op string, acts []models.Activity, err error) error {
	metrics.OperationsTotal.WithLabelValues(op, outcome(err)).Inc()
	if err != nil {
		return err
	}

	accrued, err := s.accrual.Run()
	acts = append(acts, accrued...)
	if err != nil {
		logger.Error.Printf("Accrual after %s failed: %v", op, err)
	}

	for _, a := range acts {
		metrics.ActivitiesTotal.WithLabelValues(a.Kind).Inc()
		if a.Kind == models.ActivityXPChanged {
			if account, _ := s.store.GetAccount(a.Subject); account != nil {
				metrics.AccountXP.Observe(float64(account.XP))
			}
		}
	}
	s.observeState()

	// the journal is an outbound copy; the change already happened
	if err := s.journal.Record(ctx, acts); err != nil {
		logger.Error.Printf("Failed to journal %d activities after %s: %v", len(acts), op, err)
	}
	return nil
}

func (s *Service) observeState() {
	competitions, err := s.store.ListCompetitions()
	if err != nil {
		return
	}
	active := 0
	for _, c := range competitions {
		if c.Status() == models.StatusActive {
			active++
		}
	}
	metrics.ActiveCompetitions.Set(float64(active))
}

// Now is the service clock; exports are dated with it.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

// Competitions

func (s *Service) ProposeCompetition(ctx context.Context, req models.ProposeCompetitionRequest, ownerID string) (*models.CompetitionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, acts, err := s.competitions.Propose(req, ownerID)
	if err := s.commit(ctx, "propose_competition", acts, err); err != nil {
		return nil, err
	}
	view := models.NewCompetitionView(c)
	return &view, nil
}

func (s *Service) JoinCompetition(ctx context.Context, competitionID, participantID string) (*models.CompetitionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, acts, err := s.competitions.Join(competitionID, participantID)
	if err := s.commit(ctx, "join_competition", acts, err); err != nil {
		return nil, err
	}
	return s.competitionView(competitionID)
}

func (s *Service) DeleteCompetition(ctx context.Context, competitionID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acts, err := s.competitions.Delete(competitionID, requesterID)
	return s.commit(ctx, "delete_competition", acts, err)
}

func (s *Service) competitionView(id string) (*models.CompetitionView, error) {
	c, err := s.competitions.Get(id)
	if err != nil {
		return nil, err
	}
	view := models.NewCompetitionView(c)
	return &view, nil
}

func (s *Service) Competition(id string) (*models.CompetitionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competitionView(id)
}

func (s *Service) Competitions(f competition.Filter) ([]models.CompetitionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competitions.List(f)
}

func (s *Service) SubmitWork(ctx context.Context, req models.SubmitWorkRequest) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, acts, err := s.competitions.SubmitWork(req)
	if err := s.commit(ctx, "submit_work", acts, err); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) UpdateSubmission(ctx context.Context, submissionID, requesterID string, upd models.SubmissionUpdate) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, acts, err := s.competitions.UpdateSubmission(submissionID, requesterID, upd)
	if err := s.commit(ctx, "update_submission", acts, err); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) DeleteSubmission(ctx context.Context, submissionID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acts, err := s.competitions.DeleteSubmission(submissionID, requesterID)
	return s.commit(ctx, "delete_submission", acts, err)
}

func (s *Service) VoteSubmission(ctx context.Context, submissionID, voterID string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, acts, err := s.competitions.VoteSubmission(submissionID, voterID)
	if err := s.commit(ctx, "vote_submission", acts, err); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) Submissions(competitionID string, order competition.SubmissionOrder) ([]*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competitions.Submissions(competitionID, order)
}

func (s *Service) Ranking(competitionID string) ([]leaderboard.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competitions.Ranking(competitionID)
}

func (s *Service) AddFeedback(ctx context.Context, competitionID string, req models.FeedbackRequest) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb, acts, err := s.competitions.AddFeedback(competitionID, req)
	if err := s.commit(ctx, "add_feedback", acts, err); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *Service) Feedback(competitionID string) ([]models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.competitions.Feedback(competitionID)
}

// Votes

func (s *Service) CastVote(ctx context.Context, req models.VoteRequest) (*models.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ballot, acts, err := s.votes.Cast(ctx, req)
	if err := s.commit(ctx, "cast_vote", acts, err); err != nil {
		return nil, err
	}
	return ballot, nil
}

func (s *Service) VoteBudget(ctx context.Context, voterID string) (*models.VoterBudget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.votes.Remaining(ctx, voterID)
}

// Accounts and portfolios

func (s *Service) UpsertAccount(ctx context.Context, req models.AccountRequest) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, acts, err := s.portfolios.UpsertAccount(req)
	if err := s.commit(ctx, "upsert_account", acts, err); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Account(id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.Account(id)
}

func (s *Service) AccountByEmail(email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.AccountByEmail(email)
}

func (s *Service) Accounts() ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.Accounts()
}

func (s *Service) SubmitProject(ctx context.Context, req models.ProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, acts, err := s.portfolios.SubmitProject(req)
	if err := s.commit(ctx, "submit_project", acts, err); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) VerifyProject(ctx context.Context, projectID, mentor string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, acts, err := s.portfolios.Verify(projectID, mentor)
	if err := s.commit(ctx, "verify_project", acts, err); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CommentProject(ctx context.Context, projectID, author, text string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, acts, err := s.portfolios.Comment(projectID, author, text)
	if err := s.commit(ctx, "comment_project", acts, err); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Projects(accountID string) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.Projects(accountID)
}

func (s *Service) Recommend(accountID string) (*portfolio.Recommendations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.Recommend(accountID)
}

func (s *Service) TopPortfolios(n int) ([]leaderboard.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.TopPortfolios(n)
}

func (s *Service) AccountsByBadgeActivity(activity string) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolios.AccountsByBadgeActivity(activity)
}

// Community

func (s *Service) Notifications(accountID string, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.portfolios.Account(accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.Config.Notifications.DisplayLimit
	}
	return s.notifier.Recent(accountID, limit)
}

func (s *Service) PostChat(ctx context.Context, req models.ChatRequest) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, acts, err := s.chat.Post(req)
	if err := s.commit(ctx, "post_chat", acts, err); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) ChatHistory(room string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.History(room)
}

func (s *Service) ChatRooms() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.Rooms()
}

// Exports

func (s *Service) Newsletter() ([]export.NewsletterSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.BuildNewsletter(s.store)
}

// WriteNewsletter has the export.RenderFunc signature so the scheduler can use it directly.
func (s *Service) WriteNewsletter(w io.Writer, issued time.Time) error {
	sections, err := s.Newsletter()
	if err != nil {
		return err
	}
	return export.WriteNewsletter(w, sections, issued)
}

func (s *Service) WritePortfolio(w io.Writer, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := export.BuildPortfolio(s.store, accountID)
	if err != nil {
		return err
	}
	return export.WritePortfolio(w, sheet)
}

func (s *Service) RecentActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journal.Recent(ctx, limit)
}

func (s *Service) Close() error {
	var closeErrs []error

	if err := s.budgets.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("budgets: %w", err))
	}
	if err := s.journal.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("journal: %w", err))
	}

	if len(closeErrs) > 0 {
		return fmt.Errorf("errors while closing: %v", closeErrs)
	}
	return nil
}
