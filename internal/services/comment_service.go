// internal/services/comment_service.go
package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type CommentService struct {
	comments      repository.CommentRepository
	products      repository.ProductRepository
	users         repository.UserRepository
	notifications *NotificationService
}

type CommentRequest struct {
	Text            string   `json:"text" validate:"required,min=1,max=1000"`
	TaggedUsernames []string `json:"tagged_usernames,omitempty" validate:"max=10"`
}

func NewCommentService(repos repository.Repositories, notifications *NotificationService) *CommentService {
	return &CommentService{
		comments:      repos.Comments,
		products:      repos.Products,
		users:         repos.Users,
		notifications: notifications,
	}
}

// CreateComment posts on a product. With nobody tagged the seller is tagged,
// unless the seller is the one commenting.
func (s *CommentService) CreateComment(ctx context.Context, userID, productID uuid.UUID, req *CommentRequest) (*models.Comment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}

	tagged, err := s.resolveTags(ctx, req.TaggedUsernames)
	if err != nil {
		return nil, err
	}
	if len(tagged) == 0 && product.SellerID != userID {
		tagged = []uuid.UUID{product.SellerID}
	}

	comment := &models.Comment{
		ProductID:     productID,
		UserID:        userID,
		Text:          strings.TrimSpace(req.Text),
		TaggedUserIDs: idStrings(tagged),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, unexpected("failed to create comment", err)
	}

	comment.User = s.author(ctx, userID)
	s.notifyTagged(ctx, userID, tagged, comment.ID, product.Title)
	return comment, nil
}

// CreateReply answers a comment. With nobody tagged the original commenter
// is tagged, unless they are replying to themselves.
func (s *CommentService) CreateReply(ctx context.Context, userID, commentID uuid.UUID, req *CommentRequest) (*models.CommentReply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFoundOr(err, ErrCommentNotFound, "failed to load comment")
	}

	tagged, err := s.resolveTags(ctx, req.TaggedUsernames)
	if err != nil {
		return nil, err
	}
	if len(tagged) == 0 && comment.UserID != userID {
		tagged = []uuid.UUID{comment.UserID}
	}

	reply := &models.CommentReply{
		CommentID:     commentID,
		UserID:        userID,
		Text:          strings.TrimSpace(req.Text),
		TaggedUserIDs: idStrings(tagged),
	}
	if err := s.comments.CreateReply(ctx, reply); err != nil {
		return nil, notFoundOr(err, ErrCommentNotFound, "failed to create reply")
	}

	reply.User = s.author(ctx, userID)
	s.notifyTagged(ctx, userID, tagged, comment.ID, "")
	return reply, nil
}

func (s *CommentService) ListByProduct(ctx context.Context, productID uuid.UUID, params utils.PaginationParams) ([]models.Comment, int64, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, 0, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}

	comments, total, err := s.comments.ListByProduct(ctx, productID, repository.Page{Offset: params.Offset(), Limit: params.Limit})
	if err != nil {
		return nil, 0, unexpected("failed to list comments", err)
	}
	return comments, total, nil
}

// resolveTags turns usernames into user IDs. Unknown usernames are dropped.
func (s *CommentService) resolveTags(ctx context.Context, usernames []string) ([]uuid.UUID, error) {
	cleaned := make([]string, 0, len(usernames))
	seen := map[string]bool{}
	for _, name := range usernames {
		name = strings.TrimPrefix(strings.TrimSpace(name), "@")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	users, err := s.users.GetByUsernames(ctx, cleaned)
	if err != nil {
		return nil, unexpected("failed to resolve tagged users", err)
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids, nil
}

func (s *CommentService) author(ctx context.Context, userID uuid.UUID) *models.User {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}

func (s *CommentService) notifyTagged(ctx context.Context, authorID uuid.UUID, tagged []uuid.UUID, commentID uuid.UUID, productTitle string) {
	if s.notifications == nil || len(tagged) == 0 {
		return
	}
	recipients := make([]uuid.UUID, 0, len(tagged))
	for _, id := range tagged {
		if id != authorID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}
	users, err := s.users.GetByIDs(ctx, recipients)
	if err != nil {
		logrus.WithError(err).WithField("comment_id", commentID).Warn("Failed to load tagged users")
		return
	}

	message := "You were mentioned in a comment"
	if productTitle != "" {
		message += " on " + productTitle
	}
	for i := range users {
		s.notifications.Notify(ctx, &users[i], Notice{
			Type:      models.NotificationCommentTagged,
			Title:     "You were mentioned",
			Message:   message,
			RelatedID: commentID.String(),
		})
	}
}

func idStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
