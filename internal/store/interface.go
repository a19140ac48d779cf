package store

import (
	"github.com/shrimpsizemoose/fusionx/internal/models"
)

// RecordStore holds every entity of the platform.
//
// Lookups return (nil, nil) when the record does not exist. Returned records may be live;
// callers mutate them and then hand them back through the matching Save method.
// List methods return records in insertion order.
type RecordStore interface {
	SaveCompetition(c *models.Competition) error
	GetCompetition(id string) (*models.Competition, error)
	FindCompetitionByTitle(title string) (*models.Competition, error)
	ListCompetitions() ([]*models.Competition, error)
	// DeleteCompetition cascades to the competition's submissions and feedback.
	DeleteCompetition(id string) error

	SaveSubmission(s *models.Submission) error
	GetSubmission(id string) (*models.Submission, error)
	ListSubmissions(competitionID string) ([]*models.Submission, error)
	DeleteSubmission(id string) error

	SaveAccount(a *models.Account) error
	GetAccount(id string) (*models.Account, error)
	GetAccountByEmail(email string) (*models.Account, error)
	ListAccounts() ([]*models.Account, error)

	SaveProject(p *models.Project) error
	GetProject(id string) (*models.Project, error)
	FindProject(accountID, title string) (*models.Project, error)
	ListProjects(accountID string) ([]*models.Project, error)
	ListAllProjects() ([]*models.Project, error)

	SaveBallot(b *models.Ballot) error
	GetBallot(voterID, targetID string) (*models.Ballot, error)

	AppendNotification(accountID string, n models.Notification) error
	ListNotifications(accountID string) ([]models.Notification, error)

	AppendChatMessage(m models.ChatMessage) error
	ListChatMessages(room string) ([]models.ChatMessage, error)
	ListChatRooms() ([]string, error)

	AppendFeedback(f models.Feedback) error
	ListFeedback(competitionID string) ([]models.Feedback, error)
}
