package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.stamp(&comment.BaseModel)
	stored := *comment
	stored.User, stored.Replies = nil, nil
	r.s.comments[comment.ID] = stored
	return nil
}

func (r *commentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &comment, nil
}

func (r *commentRepository) CreateReply(_ context.Context, reply *models.CommentReply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[reply.CommentID]
	if !ok {
		return repository.ErrNotFound
	}
	r.s.stamp(&reply.BaseModel)
	stored := *reply
	stored.User = nil
	r.s.replies[reply.ID] = stored

	comment.ReplyCount++
	r.s.comments[comment.ID] = comment
	return nil
}

func (r *commentRepository) ListByProduct(_ context.Context, productID uuid.UUID, page repository.Page) ([]models.Comment, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comments := []models.Comment{}
	for _, comment := range r.s.comments {
		if comment.ProductID != productID {
			continue
		}
		comment.User = r.s.userRef(comment.UserID)
		comment.Replies = []models.CommentReply{}
		for _, reply := range r.s.replies {
			if reply.CommentID == comment.ID {
				reply.User = r.s.userRef(reply.UserID)
				comment.Replies = append(comment.Replies, reply)
			}
		}
		sort.Slice(comment.Replies, func(i, j int) bool {
			return comment.Replies[i].CreatedAt.Before(comment.Replies[j].CreatedAt)
		})
		comments = append(comments, comment)
	}
	newestFirst(comments, func(c models.Comment) time.Time { return c.CreatedAt })
	return paginate(comments, page), int64(len(comments)), nil
}

type addressRepository struct {
	s *Store
}

func (r *addressRepository) clearDefault(userID, except uuid.UUID) {
	for id, address := range r.s.addresses {
		if address.UserID == userID && id != except && address.IsDefault {
			address.IsDefault = false
			r.s.addresses[id] = address
		}
	}
}

func (r *addressRepository) Create(_ context.Context, address *models.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.stamp(&address.BaseModel)
	if address.IsDefault {
		r.clearDefault(address.UserID, address.ID)
	}
	r.s.addresses[address.ID] = *address
	return nil
}

func (r *addressRepository) Update(_ context.Context, address *models.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addresses[address.ID]; !ok {
		return repository.ErrNotFound
	}
	address.UpdatedAt = r.s.now()
	if address.IsDefault {
		r.clearDefault(address.UserID, address.ID)
	}
	r.s.addresses[address.ID] = *address
	return nil
}

func (r *addressRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addresses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.addresses, id)
	return nil
}

func (r *addressRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	address, ok := r.s.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &address, nil
}

func (r *addressRepository) GetDefault(_ context.Context, userID uuid.UUID) (*models.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, address := range r.s.addresses {
		if address.UserID == userID && address.IsDefault {
			return &address, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *addressRepository) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, address := range r.s.addresses {
		if address.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *addressRepository) ListByUser(_ context.Context, userID uuid.UUID, page repository.Page) ([]models.Address, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	addresses := []models.Address{}
	for _, address := range r.s.addresses {
		if address.UserID == userID {
			addresses = append(addresses, address)
		}
	}
	sort.SliceStable(addresses, func(i, j int) bool {
		if addresses[i].IsDefault != addresses[j].IsDefault {
			return addresses[i].IsDefault
		}
		return addresses[i].CreatedAt.After(addresses[j].CreatedAt)
	})
	return paginate(addresses, page), int64(len(addresses)), nil
}

func (r *addressRepository) SetDefault(_ context.Context, userID, addressID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	address, ok := r.s.addresses[addressID]
	if !ok || address.UserID != userID {
		return repository.ErrNotFound
	}
	r.clearDefault(userID, addressID)
	address.IsDefault = true
	r.s.addresses[addressID] = address
	return nil
}

type followRepository struct {
	s *Store
}

func (r *followRepository) Create(_ context.Context, follow *models.Follow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.follows {
		if existing.FollowerID == follow.FollowerID && existing.FollowingID == follow.FollowingID {
			return repository.ErrDuplicate
		}
	}
	if follow.ID == uuid.Nil {
		follow.ID = uuid.New()
	}
	follow.CreatedAt = r.s.now()
	r.s.follows[follow.ID] = *follow
	return nil
}

func (r *followRepository) Delete(_ context.Context, followerID, followingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.follows {
		if existing.FollowerID == followerID && existing.FollowingID == followingID {
			delete(r.s.follows, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *followRepository) listUsers(pick func(models.Follow) (uuid.UUID, bool), page repository.Page) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	follows := []models.Follow{}
	for _, follow := range r.s.follows {
		if _, ok := pick(follow); ok {
			follows = append(follows, follow)
		}
	}
	newestFirst(follows, func(f models.Follow) time.Time { return f.CreatedAt })

	users := []models.User{}
	for _, follow := range follows {
		id, _ := pick(follow)
		if user := r.s.userRef(id); user != nil {
			users = append(users, *user)
		}
	}
	return paginate(users, page), int64(len(users)), nil
}

func (r *followRepository) ListFollowers(_ context.Context, userID uuid.UUID, page repository.Page) ([]models.User, int64, error) {
	return r.listUsers(func(f models.Follow) (uuid.UUID, bool) {
		return f.FollowerID, f.FollowingID == userID
	}, page)
}

func (r *followRepository) ListFollowing(_ context.Context, userID uuid.UUID, page repository.Page) ([]models.User, int64, error) {
	return r.listUsers(func(f models.Follow) (uuid.UUID, bool) {
		return f.FollowingID, f.FollowerID == userID
	}, page)
}

func (r *followRepository) Counts(_ context.Context, userID uuid.UUID) (int64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var followers, following int64
	for _, follow := range r.s.follows {
		if follow.FollowingID == userID {
			followers++
		}
		if follow.FollowerID == userID {
			following++
		}
	}
	return followers, following, nil
}

type reportRepository struct {
	s *Store
}

func (r *reportRepository) Create(_ context.Context, report *models.UserReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.stamp(&report.BaseModel)
	r.s.reports[report.ID] = *report
	return nil
}
