// internal/community/chat.go
package community

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/shrimpsizemoose/fusionx/internal/errs"
	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

// Chat holds one room per field. Room names are slugged, so "Data Science" and
// "data-science" are the same room.
type Chat struct {
	store store.RecordStore
	now   func() time.Time
}

func NewChat(s store.RecordStore, now func() time.Time) *Chat {
	if now == nil {
		now = time.Now
	}
	return &Chat{store: s, now: now}
}

func RoomName(field string) string {
	return slug.Make(field)
}

func (c *Chat) Post(req models.ChatRequest) (*models.ChatMessage, []models.Activity, error) {
	req.User = strings.TrimSpace(req.User)
	req.Message = strings.TrimSpace(req.Message)
	req.Room = RoomName(req.Room)
	if err := req.Validate(); err != nil {
		return nil, nil, errs.FromValidator(err)
	}

	now := c.now()
	msg := models.ChatMessage{Room: req.Room, User: req.User, Message: req.Message, Timestamp: now}
	if err := c.store.AppendChatMessage(msg); err != nil {
		return nil, nil, fmt.Errorf("failed to post chat message: %w", err)
	}
	return &msg, []models.Activity{
		models.NewActivity(now, models.ActivityChatPosted, msg.Room, msg.User, "", ""),
	}, nil
}

func (c *Chat) History(room string) ([]models.ChatMessage, error) {
	msgs, err := c.store.ListChatMessages(RoomName(room))
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	return msgs, nil
}

func (c *Chat) Rooms() ([]string, error) {
	rooms, err := c.store.ListChatRooms()
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	return rooms, nil
}
