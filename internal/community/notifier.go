// internal/community/notifier.go
package community

import (
	"fmt"
	"time"

	"github.com/shrimpsizemoose/fusionx/internal/models"
	"github.com/shrimpsizemoose/fusionx/internal/store"
)

const DefaultDisplayLimit = 10

type Notifier struct {
	store store.RecordStore
	now   func() time.Time
}

func NewNotifier(s store.RecordStore, now func() time.Time) *Notifier {
	if now == nil {
		now = time.Now
	}
	return &Notifier{store: s, now: now}
}

func (n *Notifier) Notify(accountID, message string) error {
	if err := n.store.AppendNotification(accountID, models.Notification{
		Message:   message,
		CreatedAt: n.now(),
	}); err != nil {
		return fmt.Errorf("failed to notify %s: %w", accountID, err)
	}
	return nil
}

// Recent returns up to limit notifications, newest first.
func (n *Notifier) Recent(accountID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultDisplayLimit
	}
	all, err := n.store.ListNotifications(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]models.Notification, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
