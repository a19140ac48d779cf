package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Fields    []string  `json:"fields"`
	Avatar    *FileRef  `json:"avatar,omitempty"`
	XP        int       `json:"xp"`
	Badges    []Badge   `json:"badges"`
	YesVotes  int       `json:"yes_votes"`
	NoVotes   int       `json:"no_votes"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Account) HasBadge(name string) bool {
	for _, b := range a.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

func (a *Account) HasField(field string) bool {
	for _, f := range a.Fields {
		if f == field {
			return true
		}
	}
	return false
}

type AccountRequest struct {
	Name   string   `json:"name" validate:"required,max=120"`
	Email  string   `json:"email" validate:"required,email"`
	Fields []string `json:"fields" validate:"dive,required,max=40"`
	Avatar *FileRef `json:"avatar,omitempty"`
}

func (r *AccountRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
