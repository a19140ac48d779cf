package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Notification struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	Room      string    `json:"room"`
	User      string    `json:"user"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatRequest struct {
	Room    string `json:"room" validate:"required,max=40"`
	User    string `json:"user" validate:"required"`
	Message string `json:"message" validate:"required,max=2000"`
}

func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
