// internal/store/memory/store.go
package memory

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

var _ store.RecordStore = (*Store)(nil)

// Store keeps every record in process memory. It is not safe for concurrent use;
// app.Service serializes access.
type Store struct {
	competitions     map[string]*models.Competition
	competitionOrder []string
	titleIndex       map[string]string

	submissions     map[string]*models.Submission
	submissionOrder []string

	accounts     map[string]*models.Account
	accountOrder []string
	emailIndex   map[string]string

	projects     map[string]*models.Project
	projectOrder []string

	ballots map[string]*models.Ballot

	notifications map[string][]models.Notification
	chat          map[string][]models.ChatMessage
	roomOrder     []string
	feedback      map[string][]models.Feedback

	fold cases.Caser
}

func NewStore() *Store {
	return &Store{
		competitions:  make(map[string]*models.Competition),
		titleIndex:    make(map[string]string),
		submissions:   make(map[string]*models.Submission),
		accounts:      make(map[string]*models.Account),
		emailIndex:    make(map[string]string),
		projects:      make(map[string]*models.Project),
		ballots:       make(map[string]*models.Ballot),
		notifications: make(map[string][]models.Notification),
		chat:          make(map[string][]models.ChatMessage),
		feedback:      make(map[string][]models.Feedback),
		fold:          cases.Fold(),
	}
}

// FoldTitle is the key under which titles are compared case-insensitively.
func (s *Store) FoldTitle(title string) string {
	return s.fold.String(strings.TrimSpace(title))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) SaveCompetition(c *models.Competition) error {
	if c.ID == "" {
		return fmt.Errorf("failed to save competition: empty id")
	}
	key := s.FoldTitle(c.Title)
	if owner, ok := s.titleIndex[key]; ok && owner != c.ID {
		return fmt.Errorf("failed to save competition %q: title taken by %s", c.Title, owner)
	}

	if prev, ok := s.competitions[c.ID]; ok {
		delete(s.titleIndex, s.FoldTitle(prev.Title))
	} else {
		s.competitionOrder = append(s.competitionOrder, c.ID)
	}
	s.competitions[c.ID] = c
	s.titleIndex[key] = c.ID
	return nil
}

func (s *Store) GetCompetition(id string) (*models.Competition, error) {
	return s.competitions[id], nil
}

func (s *Store) FindCompetitionByTitle(title string) (*models.Competition, error) {
	id, ok := s.titleIndex[s.FoldTitle(title)]
	if !ok {
		return nil, nil
	}
	return s.competitions[id], nil
}

func (s *Store) ListCompetitions() ([]*models.Competition, error) {
	out := make([]*models.Competition, 0, len(s.competitionOrder))
	for _, id := range s.competitionOrder {
		out = append(out, s.competitions[id])
	}
	return out, nil
}

func (s *Store) DeleteCompetition(id string) error {
	c, ok := s.competitions[id]
	if !ok {
		return nil
	}

	for _, sid := range append([]string(nil), s.submissionOrder...) {
		if s.submissions[sid].CompetitionID == id {
			s.removeSubmission(sid)
		}
	}
	delete(s.feedback, id)
	delete(s.titleIndex, s.FoldTitle(c.Title))
	delete(s.competitions, id)
	s.competitionOrder = without(s.competitionOrder, id)
	return nil
}

func (s *Store) SaveSubmission(sub *models.Submission) error {
	if sub.ID == "" {
		return fmt.Errorf("failed to save submission: empty id")
	}
	if _, ok := s.competitions[sub.CompetitionID]; !ok {
		return fmt.Errorf("failed to save submission %s: unknown competition %s", sub.ID, sub.CompetitionID)
	}
	if _, ok := s.submissions[sub.ID]; !ok {
		s.submissionOrder = append(s.submissionOrder, sub.ID)
	}
	s.submissions[sub.ID] = sub
	return nil
}

func (s *Store) GetSubmission(id string) (*models.Submission, error) {
	return s.submissions[id], nil
}

func (s *Store) ListSubmissions(competitionID string) ([]*models.Submission, error) {
	out := []*models.Submission{}
	for _, id := range s.submissionOrder {
		if sub := s.submissions[id]; competitionID == "" || sub.CompetitionID == competitionID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *Store) DeleteSubmission(id string) error {
	s.removeSubmission(id)
	return nil
}

func (s *Store) removeSubmission(id string) {
	if _, ok := s.submissions[id]; !ok {
		return
	}
	delete(s.submissions, id)
	s.submissionOrder = without(s.submissionOrder, id)
}

func (s *Store) SaveAccount(a *models.Account) error {
	if a.ID == "" {
		return fmt.Errorf("failed to save account: empty id")
	}
	email := NormalizeEmail(a.Email)
	if owner, ok := s.emailIndex[email]; ok && owner != a.ID {
		return fmt.Errorf("failed to save account: email %s taken by %s", email, owner)
	}

	if prev, ok := s.accounts[a.ID]; ok {
		delete(s.emailIndex, NormalizeEmail(prev.Email))
	} else {
		s.accountOrder = append(s.accountOrder, a.ID)
	}
	s.accounts[a.ID] = a
	s.emailIndex[email] = a.ID
	return nil
}

func (s *Store) GetAccount(id string) (*models.Account, error) {
	return s.accounts[id], nil
}

func (s *Store) GetAccountByEmail(email string) (*models.Account, error) {
	id, ok := s.emailIndex[NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return s.accounts[id], nil
}

func (s *Store) ListAccounts() ([]*models.Account, error) {
	out := make([]*models.Account, 0, len(s.accountOrder))
	for _, id := range s.accountOrder {
		out = append(out, s.accounts[id])
	}
	return out, nil
}

func (s *Store) SaveProject(p *models.Project) error {
	if p.ID == "" {
		return fmt.Errorf("failed to save project: empty id")
	}
	if _, ok := s.accounts[p.AccountID]; !ok {
		return fmt.Errorf("failed to save project %s: unknown account %s", p.ID, p.AccountID)
	}
	if _, ok := s.projects[p.ID]; !ok {
		s.projectOrder = append(s.projectOrder, p.ID)
	}
	s.projects[p.ID] = p
	return nil
}

func (s *Store) GetProject(id string) (*models.Project, error) {
	return s.projects[id], nil
}

func (s *Store) FindProject(accountID, title string) (*models.Project, error) {
	for _, id := range s.projectOrder {
		if p := s.projects[id]; p.AccountID == accountID && p.Title == title {
			return p, nil
		}
	}
	return nil, nil
}

func (s *Store) ListProjects(accountID string) ([]*models.Project, error) {
	out := []*models.Project{}
	for _, id := range s.projectOrder {
		if p := s.projects[id]; p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) ListAllProjects() ([]*models.Project, error) {
	out := make([]*models.Project, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		out = append(out, s.projects[id])
	}
	return out, nil
}

func ballotKey(voterID, targetID string) string {
	return voterID + "\x00" + targetID
}

func (s *Store) SaveBallot(b *models.Ballot) error {
	s.ballots[ballotKey(b.VoterID, b.TargetID)] = b
	return nil
}

func (s *Store) GetBallot(voterID, targetID string) (*models.Ballot, error) {
	return s.ballots[ballotKey(voterID, targetID)], nil
}

func (s *Store) AppendNotification(accountID string, n models.Notification) error {
	s.notifications[accountID] = append(s.notifications[accountID], n)
	return nil
}

func (s *Store) ListNotifications(accountID string) ([]models.Notification, error) {
	return append([]models.Notification(nil), s.notifications[accountID]...), nil
}

func (s *Store) AppendChatMessage(m models.ChatMessage) error {
	if _, ok := s.chat[m.Room]; !ok {
		s.roomOrder = append(s.roomOrder, m.Room)
	}
	s.chat[m.Room] = append(s.chat[m.Room], m)
	return nil
}

func (s *Store) ListChatMessages(room string) ([]models.ChatMessage, error) {
	return append([]models.ChatMessage(nil), s.chat[room]...), nil
}

func (s *Store) ListChatRooms() ([]string, error) {
	return append([]string(nil), s.roomOrder...), nil
}

func (s *Store) AppendFeedback(f models.Feedback) error {
	if _, ok := s.competitions[f.CompetitionID]; !ok {
		return fmt.Errorf("failed to append feedback: unknown competition %s", f.CompetitionID)
	}
	s.feedback[f.CompetitionID] = append(s.feedback[f.CompetitionID], f)
	return nil
}

func (s *Store) ListFeedback(competitionID string) ([]models.Feedback, error) {
	return append([]models.Feedback(nil), s.feedback[competitionID]...), nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
