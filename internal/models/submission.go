package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// FileRef is an opaque uploaded blob; the core keeps the name and bytes but never looks inside.
type FileRef struct {
	Name string `json:"name" validate:"required"`
	Data []byte `json:"-"`
}

type Submission struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	Ordinal       int       `json:"ordinal"`
	SubmitterID   string    `json:"submitter_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	File          *FileRef  `json:"file,omitempty"`
	Votes         int       `json:"votes"`
	VoterIDs      []string  `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Submission) HasVoter(voterID string) bool {
	for _, id := range s.VoterIDs {
		if id == voterID {
			return true
		}
	}
	return false
}

type SubmitWorkRequest struct {
	CompetitionID string   `json:"competition_id" validate:"required"`
	SubmitterID   string   `json:"submitter_id" validate:"required"`
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required"`
	File          *FileRef `json:"file,omitempty"`
}

func (r *SubmitWorkRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SubmissionUpdate carries the editable fields; nil pointers leave a field untouched.
type SubmissionUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	File        *FileRef `json:"file,omitempty"`
}

func (u *SubmissionUpdate) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}
