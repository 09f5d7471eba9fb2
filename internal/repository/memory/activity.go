package memory

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

// ActivityRepository keeps the activity log in the store. It is used when
// MongoDB is not configured.
type ActivityRepository struct {
	s *Store
}

func NewActivityRepository(s *Store) *ActivityRepository {
	return &ActivityRepository{s: s}
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)

func (r *ActivityRepository) SaveBargainHistory(_ context.Context, entry *models.BargainHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.s.now()
	}
	r.s.history = append(r.s.history, *entry)
	return nil
}

// BargainHistory returns the recorded transitions of one bargain, oldest first.
func (r *ActivityRepository) BargainHistory(bargainID string) []models.BargainHistory {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := []models.BargainHistory{}
	for _, entry := range r.s.history {
		if entry.BargainID == bargainID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (r *ActivityRepository) SaveNotification(_ context.Context, notification *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	notification.ID = primitive.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = r.s.now()
	}
	r.s.notifications = append(r.s.notifications, *notification)
	return nil
}

func (r *ActivityRepository) ListNotifications(_ context.Context, userID string, limit int64) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	notifications := []models.Notification{}
	for _, notification := range r.s.notifications {
		if notification.UserID == userID {
			notifications = append(notifications, notification)
		}
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	if limit > 0 && int64(len(notifications)) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (r *ActivityRepository) SaveAuditLog(_ context.Context, entry *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.s.now()
	}
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

// AuditLogs returns every recorded audit entry, oldest first.
func (r *ActivityRepository) AuditLogs() []models.AuditLog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]models.AuditLog(nil), r.s.audit...)
}
