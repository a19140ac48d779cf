package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type CompetitionStatus string

const (
	StatusPending CompetitionStatus = "PENDING"
	StatusActive  CompetitionStatus = "ACTIVE"
)

type Participation struct {
	ParticipantID string    `json:"participant_id"`
	JoinedAt      time.Time `json:"joined_at"`
}

type Competition struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Threshold    int             `json:"threshold"`
	Field        string          `json:"field,omitempty"`
	OwnerID      string          `json:"owner_id"`
	Participants []Participation `json:"participants"`
	CreatedAt    time.Time       `json:"created_at"`

	// NextOrdinal numbers submissions within the competition; ordinals are never reused.
	NextOrdinal int `json:"-"`
}

// Status is derived on every call and never stored.
func (c *Competition) Status() CompetitionStatus {
	if len(c.Participants) >= c.Threshold {
		return StatusActive
	}
	return StatusPending
}

func (c *Competition) ParticipantCount() int {
	return len(c.Participants)
}

func (c *Competition) HasParticipant(participantID string) bool {
	for _, p := range c.Participants {
		if p.ParticipantID == participantID {
			return true
		}
	}
	return false
}

// CompetitionView is what gets rendered back to callers.
type CompetitionView struct {
	*Competition
	Status           CompetitionStatus `json:"status"`
	ParticipantCount int               `json:"participant_count"`
}

func NewCompetitionView(c *Competition) CompetitionView {
	return CompetitionView{
		Competition:      c,
		Status:           c.Status(),
		ParticipantCount: c.ParticipantCount(),
	}
}

type ProposeCompetitionRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"required"`
	Threshold   int    `json:"threshold" validate:"min=1"`
	Field       string `json:"field" validate:"max=40"`
}

func (r *ProposeCompetitionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

type Feedback struct {
	CompetitionID string    `json:"competition_id"`
	Mentor        string    `json:"mentor"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}

type FeedbackRequest struct {
	Mentor string `json:"mentor" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

func (r *FeedbackRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
