package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type ProjectVersion struct {
	Description string    `json:"description"`
	Field       string    `json:"field"`
	Timestamp   time.Time `json:"timestamp"`
}

type Comment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID          string           `json:"id"`
	AccountID   string           `json:"account_id"`
	Title       string           `json:"title"`
	Field       string           `json:"field"`
	Description string           `json:"description"`
	File        *FileRef         `json:"file,omitempty"`
	Versions    []ProjectVersion `json:"versions"`
	Verified    bool             `json:"verified"`
	VerifiedBy  string           `json:"verified_by,omitempty"`
	Votes       int              `json:"votes"`
	Comments    []Comment        `json:"comments"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ProjectRequest struct {
	AccountID   string   `json:"account_id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Field       string   `json:"field" validate:"required,max=40"`
	Description string   `json:"description" validate:"required"`
	File        *FileRef `json:"file,omitempty"`
}

func (r *ProjectRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
