// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const mentionLimit = 10

type UserService struct {
	users         repository.UserRepository
	products      repository.ProductRepository
	follows       repository.FollowRepository
	reports       repository.ReportRepository
	storage       *StorageService
	notifications *NotificationService
}

type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Username   *string `json:"username" validate:"omitempty,username"`
	Gender     *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Occupation *string `json:"occupation" validate:"omitempty,max=100"`
	AboutMe    *string `json:"about_me" validate:"omitempty,max=1000"`
}

type ReportUserRequest struct {
	ReportedUserID string `json:"reported_user_id" validate:"required,uuid"`
	ReportOption   string `json:"report_option" validate:"required,max=100"`
	Reason         string `json:"reason" validate:"required,max=1000"`
}

// UserCard is a search result row.
type UserCard struct {
	models.UserSummary
	IsOnline  bool  `json:"is_online"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type PublicProfile struct {
	models.UserSummary
	AboutMe      string     `json:"about_me"`
	Occupation   string     `json:"occupation"`
	Gender       string     `json:"gender"`
	IsVerified   bool       `json:"is_verified"`
	HolidayMode  bool       `json:"holiday_mode"`
	IsOnline     bool       `json:"is_online"`
	LastActive   *time.Time `json:"last_active"`
	Followers    int64      `json:"followers"`
	Following    int64      `json:"following"`
	ProductCount int64      `json:"product_count"`
	MemberSince  time.Time  `json:"member_since"`
}

type HolidayModeResult struct {
	HolidayMode     bool  `json:"holiday_mode"`
	ProductsUpdated int64 `json:"products_updated"`
}

func NewUserService(repos repository.Repositories, storage *StorageService, notifications *NotificationService) *UserService {
	return &UserService{
		users:         repos.Users,
		products:      repos.Products,
		follows:       repos.Follows,
		reports:       repos.Reports,
		storage:       storage,
		notifications: notifications,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "failed to load user")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.users.GetByUsername(ctx, *req.Username)
		if err == nil && existing.ID != user.ID {
			return nil, ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, unexpected("failed to check username", err)
		}
		user.Username = *req.Username
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Occupation != nil {
		user.Occupation = *req.Occupation
	}
	if req.AboutMe != nil {
		user.AboutMe = *req.AboutMe
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, unexpected("failed to update profile", err)
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, header *multipart.FileHeader) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(ctx, header, s.storage.GetDefaultUploadOptions("avatars"))
	if err != nil {
		return nil, err
	}

	user.Avatar = result.URL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, unexpected("failed to update avatar", err)
	}
	return user, nil
}

// SearchUsers finds verified users whose username starts with the query.
func (s *UserService) SearchUsers(ctx context.Context, username string, params utils.PaginationParams) ([]UserCard, int64, error) {
	users, total, err := s.users.SearchVerified(ctx, strings.TrimSpace(username), repository.Page{
		Offset: params.Offset(),
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, 0, unexpected("failed to search users", err)
	}

	cards := make([]UserCard, 0, len(users))
	for i := range users {
		followers, following, err := s.follows.Counts(ctx, users[i].ID)
		if err != nil {
			return nil, 0, unexpected("failed to count follows", err)
		}
		cards = append(cards, UserCard{
			UserSummary: users[i].Summary(),
			IsOnline:    users[i].IsOnline,
			Followers:   followers,
			Following:   following,
		})
	}
	return cards, total, nil
}

func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "failed to load user")
	}

	followers, following, err := s.follows.Counts(ctx, user.ID)
	if err != nil {
		return nil, unexpected("failed to count follows", err)
	}
	products, err := s.products.CountBySeller(ctx, user.ID)
	if err != nil {
		return nil, unexpected("failed to count products", err)
	}

	return &PublicProfile{
		UserSummary:  user.Summary(),
		AboutMe:      user.AboutMe,
		Occupation:   user.Occupation,
		Gender:       user.Gender,
		IsVerified:   user.IsVerified,
		HolidayMode:  user.HolidayMode,
		IsOnline:     user.IsOnline,
		LastActive:   user.LastActive,
		Followers:    followers,
		Following:    following,
		ProductCount: products,
		MemberSince:  user.CreatedAt,
	}, nil
}

// Mentions suggests users to tag in comments.
func (s *UserService) Mentions(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "@")
	if query == "" {
		return []models.UserSummary{}, nil
	}

	users, _, err := s.users.SearchVerified(ctx, query, repository.Page{Limit: mentionLimit})
	if err != nil {
		return nil, unexpected("failed to search users", err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}

// SetHolidayMode hides the seller's available products while they are away
// and brings back exactly those products on return.
func (s *UserService) SetHolidayMode(ctx context.Context, userID uuid.UUID, enabled bool) (*HolidayModeResult, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.products.SetHolidayMode(ctx, userID, enabled)
	if err != nil {
		return nil, unexpected("failed to update holiday mode", err)
	}

	return &HolidayModeResult{HolidayMode: enabled, ProductsUpdated: updated}, nil
}

func (s *UserService) Follow(ctx context.Context, followerID, targetID uuid.UUID) error {
	if followerID == targetID {
		return ErrCannotFollowSelf
	}

	target, err := s.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !target.IsVerified {
		return ErrUserNotVerified
	}

	follow := &models.Follow{FollowerID: followerID, FollowingID: targetID}
	if err := s.follows.Create(ctx, follow); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		return unexpected("failed to follow user", err)
	}

	if follower, err := s.users.GetByID(ctx, followerID); err == nil {
		s.notifications.Notify(ctx, target, Notice{
			Type:      models.NotificationNewFollower,
			Title:     "New follower",
			Message:   "@" + follower.Username + " started following you",
			RelatedID: followerID.String(),
		})
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, targetID uuid.UUID) error {
	if followerID == targetID {
		return ErrNotFollowing
	}
	if _, err := s.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	if err := s.follows.Delete(ctx, followerID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFollowing
		}
		return unexpected("failed to unfollow user", err)
	}
	return nil
}

func (s *UserService) Followers(ctx context.Context, userID uuid.UUID, params utils.PaginationParams) ([]models.UserSummary, int64, error) {
	return s.followList(ctx, userID, params, s.follows.ListFollowers)
}

func (s *UserService) Following(ctx context.Context, userID uuid.UUID, params utils.PaginationParams) ([]models.UserSummary, int64, error) {
	return s.followList(ctx, userID, params, s.follows.ListFollowing)
}

func (s *UserService) followList(
	ctx context.Context,
	userID uuid.UUID,
	params utils.PaginationParams,
	list func(context.Context, uuid.UUID, repository.Page) ([]models.User, int64, error),
) ([]models.UserSummary, int64, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, 0, err
	}

	users, total, err := list(ctx, userID, repository.Page{Offset: params.Offset(), Limit: params.Limit})
	if err != nil {
		return nil, 0, unexpected("failed to list follows", err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, total, nil
}

func (s *UserService) Report(ctx context.Context, reporterID uuid.UUID, req *ReportUserRequest) (*models.UserReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	reportedID, err := uuid.Parse(req.ReportedUserID)
	if err != nil {
		return nil, badRequest(err)
	}
	if reportedID == reporterID {
		return nil, ErrCannotReportSelf
	}
	if _, err := s.GetUserByID(ctx, reportedID); err != nil {
		return nil, err
	}

	report := &models.UserReport{
		ReportedUserID: reportedID,
		ReportedByID:   reporterID,
		ReportOption:   req.ReportOption,
		Reason:         strings.TrimSpace(req.Reason),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, unexpected("failed to save report", err)
	}
	return report, nil
}

// TrackPresence records websocket connects and disconnects on the user row.
func (s *UserService) TrackPresence(ctx context.Context, userID string, online bool, at time.Time) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return
	}
	if err := s.users.SetPresence(ctx, id, online, at); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to update presence")
	}
}
