// internal/portfolio/portfolio.go
package portfolio

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/leaderboard"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

// Book manages student accounts and their portfolio projects.
type Book struct {
	store store.RecordStore
	now   func() time.Time
}

func NewBook(s store.RecordStore, now func() time.Time) *Book {
	if now == nil {
		now = time.Now
	}
	return &Book{store: s, now: now}
}

// UpsertAccount creates the account for an email or updates the existing one.
// An update keeps the current avatar unless a new one is given.
func (b *Book) UpsertAccount(req models.AccountRequest) (*models.Account, []models.Activity, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	fields := make([]string, 0, len(req.Fields))
	for _, f := range req.Fields {
		if f = strings.TrimSpace(f); f != "" && !contains(fields, f) {
			fields = append(fields, f)
		}
	}
	req.Fields = fields
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}

	account, err := b.store.GetAccountByEmail(req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account: %w", err)
	}

	now := b.now()
	if account == nil {
		account = &models.Account{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Badges:    []models.Badge{},
			CreatedAt: now,
		}
	}
	account.Name = req.Name
	account.Fields = req.Fields
	if req.Avatar != nil {
		account.Avatar = req.Avatar
	}

	if err := b.store.SaveAccount(account); err != nil {
		return nil, nil, fmt.Errorf("failed to save account: %w", err)
	}
	return account, []models.Activity{
		models.NewActivity(now, models.ActivityAccountSaved, account.ID, account.ID, "", account.Email),
	}, nil
}

func (b *Book) Account(id string) (*models.Account, error) {
	a, err := b.store.GetAccount(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if a == nil {
		return nil, errs.NotFound("account", id)
	}
	return a, nil
}

func (b *Book) AccountByEmail(email string) (*models.Account, error) {
	a, err := b.store.GetAccountByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if a == nil {
		return nil, errs.NotFound("account", email)
	}
	return a, nil
}

func (b *Book) Accounts() ([]*models.Account, error) {
	accounts, err := b.store.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// SubmitProject creates a project, or records a new version when the account
// already has a project with the same title.
func (b *Book) SubmitProject(req models.ProjectRequest) (*models.Project, []models.Activity, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Field = strings.TrimSpace(req.Field)
	req.Description = strings.TrimSpace(req.Description)
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}
	if _, err := b.Account(req.AccountID); err != nil {
		return nil, nil, err
	}

	project, err := b.store.FindProject(req.AccountID, req.Title)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	now := b.now()
	version := models.ProjectVersion{Description: req.Description, Field: req.Field, Timestamp: now}
	if project == nil {
		project = &models.Project{
			ID:        uuid.NewString(),
			AccountID: req.AccountID,
			Title:     req.Title,
			Comments:  []models.Comment{},
			CreatedAt: now,
		}
	}
	project.Field = req.Field
	project.Description = req.Description
	if req.File != nil {
		project.File = req.File
	}
	project.Versions = append(project.Versions, version)

	if err := b.store.SaveProject(project); err != nil {
		return nil, nil, fmt.Errorf("failed to save project: %w", err)
	}
	return project, []models.Activity{
		models.NewActivity(now, models.ActivityProjectSubmitted, req.AccountID, req.AccountID, project.ID,
			fmt.Sprintf("%s v%d", project.Title, len(project.Versions))),
	}, nil
}

func (b *Book) project(id string) (*models.Project, error) {
	p, err := b.store.GetProject(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if p == nil {
		return nil, errs.NotFound("project", id)
	}
	return p, nil
}

func (b *Book) Verify(projectID, mentor string) (*models.Project, []models.Activity, error) {
	mentor = strings.TrimSpace(mentor)
	if mentor == "" {
		return nil, nil, errs.Invalid("mentor", "failed required")
	}
	p, err := b.project(projectID)
	if err != nil {
		return nil, nil, err
	}
	if p.Verified {
		return p, nil, nil
	}

	p.Verified = true
	p.VerifiedBy = mentor
	if err := b.store.SaveProject(p); err != nil {
		return nil, nil, fmt.Errorf("failed to save project: %w", err)
	}
	return p, []models.Activity{
		models.NewActivity(b.now(), models.ActivityProjectVerified, p.AccountID, mentor, p.ID, p.Title),
	}, nil
}

func (b *Book) Comment(projectID, author, text string) (*models.Project, []models.Activity, error) {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)
	if author == "" {
		return nil, nil, errs.Invalid("author", "failed required")
	}
	if text == "" {
		return nil, nil, errs.Invalid("text", "failed required")
	}
	p, err := b.project(projectID)
	if err != nil {
		return nil, nil, err
	}

	now := b.now()
	p.Comments = append(p.Comments, models.Comment{Author: author, Text: text, CreatedAt: now})
	if err := b.store.SaveProject(p); err != nil {
		return nil, nil, fmt.Errorf("failed to save project: %w", err)
	}
	return p, []models.Activity{
		models.NewActivity(now, models.ActivityProjectCommented, p.AccountID, author, p.ID, ""),
	}, nil
}

func (b *Book) Projects(accountID string) ([]*models.Project, error) {
	if _, err := b.Account(accountID); err != nil {
		return nil, err
	}
	projects, err := b.store.ListProjects(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

type Recommendations struct {
	Competitions []models.CompetitionView `json:"competitions"`
	Projects     []*models.Project        `json:"projects"`
}

// Recommend suggests competitions and other students' projects in the account's fields.
func (b *Book) Recommend(accountID string) (*Recommendations, error) {
	account, err := b.Account(accountID)
	if err != nil {
		return nil, err
	}

	rec := &Recommendations{
		Competitions: []models.CompetitionView{},
		Projects:     []*models.Project{},
	}
	if len(account.Fields) == 0 {
		return rec, nil
	}
	interested := func(field string) bool {
		for _, f := range account.Fields {
			if strings.EqualFold(f, field) {
				return true
			}
		}
		return false
	}

	competitions, err := b.store.ListCompetitions()
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	for _, c := range competitions {
		if c.Field != "" && interested(c.Field) {
			rec.Competitions = append(rec.Competitions, models.NewCompetitionView(c))
		}
	}

	projects, err := b.store.ListAllProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		if p.AccountID != account.ID && interested(p.Field) {
			rec.Projects = append(rec.Projects, p)
		}
	}
	return rec, nil
}

// TopPortfolios ranks accounts by yes votes received.
func (b *Book) TopPortfolios(n int) ([]leaderboard.Entry, error) {
	accounts, err := b.Accounts()
	if err != nil {
		return nil, err
	}
	entries := make([]leaderboard.Entry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, leaderboard.Entry{Subject: a.ID, Label: a.Name, Votes: a.YesVotes})
	}
	return leaderboard.TopN(entries, n), nil
}

func (b *Book) AccountsByBadgeActivity(activity string) ([]*models.Account, error) {
	accounts, err := b.Accounts()
	if err != nil {
		return nil, err
	}
	out := []*models.Account{}
	for _, a := range accounts {
		for _, badge := range a.Badges {
			if strings.EqualFold(badge.Activity, activity) {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
