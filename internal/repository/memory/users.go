package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) conflicts(user *models.User) bool {
	for _, existing := range r.s.users {
		if existing.ID == user.ID {
			continue
		}
		if strings.EqualFold(existing.Email, user.Email) ||
			existing.Username == user.Username ||
			existing.Mobile == user.Mobile {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflicts(user) {
		return repository.ErrDuplicate
	}
	r.s.stamp(&user.BaseModel)
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.conflicts(user) {
		return repository.ErrDuplicate
	}
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if user := r.s.userRef(id); user != nil {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if match(user) {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *userRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepository) GetByUsernames(_ context.Context, usernames []string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(usernames))
	for _, name := range usernames {
		wanted[name] = true
	}
	users := []models.User{}
	for _, user := range r.s.users {
		if wanted[user.Username] {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *userRepository) FindConflicts(_ context.Context, email, username, mobile string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []models.User{}
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) || user.Username == username || user.Mobile == mobile {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepository) SearchVerified(_ context.Context, usernamePrefix string, page repository.Page) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	prefix := strings.ToLower(usernamePrefix)
	users := []models.User{}
	for _, user := range r.s.users {
		if user.IsVerified && strings.HasPrefix(strings.ToLower(user.Username), prefix) {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return paginate(users, page), int64(len(users)), nil
}

func (r *userRepository) SetPresence(_ context.Context, id uuid.UUID, online bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsOnline = online
	user.LastActive = &at
	r.s.users[id] = user
	return nil
}
