package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Verdict string

const (
	VerdictYes Verdict = "yes"
	VerdictNo  Verdict = "no"
)

type VoterBudget struct {
	VoterID   string    `json:"voter_id"`
	VotesLeft int       `json:"votes_left"`
	LastReset time.Time `json:"last_reset"`
}

// Ballot is the single standing vote of a voter on a target account.
type Ballot struct {
	VoterID   string    `json:"voter_id"`
	TargetID  string    `json:"target_id"`
	ProjectID string    `json:"project_id,omitempty"`
	Verdict   Verdict   `json:"verdict"`
	CastAt    time.Time `json:"cast_at"`
}

type VoteRequest struct {
	VoterID   string  `json:"voter_id" validate:"required"`
	TargetID  string  `json:"target_id" validate:"required"`
	ProjectID string  `json:"project_id,omitempty"`
	Verdict   Verdict `json:"verdict" validate:"required,oneof=yes no"`
}

func (r *VoteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
