package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

func TestCommentTagsSellerWhenNobodyIsTagged(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")
	product := f.product(t, seller.ID)

	comment, err := f.comments.CreateComment(f.ctx, buyer.ID, product.ID, &CommentRequest{Text: "Is this still available?"})
	require.NoError(t, err)
	assert.Equal(t, []string{seller.ID.String()}, []string(comment.TaggedUserIDs))
	require.NotNil(t, comment.User)
	assert.Equal(t, "buyer", comment.User.Username)

	notifications := f.notificationsFor(t, seller.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationCommentTagged, notifications[0].Type)

	own, err := f.comments.CreateComment(f.ctx, seller.ID, product.ID, &CommentRequest{Text: "Price drop this week"})
	require.NoError(t, err)
	assert.Empty(t, own.TaggedUserIDs)
}

func TestCommentResolvesTaggedUsernames(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")
	friend := f.user(t, "friend")
	product := f.product(t, seller.ID)

	comment, err := f.comments.CreateComment(f.ctx, buyer.ID, product.ID, &CommentRequest{
		Text:            "@friend look at this",
		TaggedUsernames: []string{"@friend", "friend", "nobody"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{friend.ID.String()}, []string(comment.TaggedUserIDs))
	assert.Empty(t, f.notificationsFor(t, seller.ID))
	assert.Len(t, f.notificationsFor(t, friend.ID), 1)

	_, err = f.comments.CreateComment(f.ctx, buyer.ID, uuid.New(), &CommentRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReplyTagsCommenterAndCountsReplies(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")
	product := f.product(t, seller.ID)

	comment, err := f.comments.CreateComment(f.ctx, buyer.ID, product.ID, &CommentRequest{Text: "Does it fit a size M?"})
	require.NoError(t, err)

	reply, err := f.comments.CreateReply(f.ctx, seller.ID, comment.ID, &CommentRequest{Text: "Yes it does"})
	require.NoError(t, err)
	assert.Equal(t, []string{buyer.ID.String()}, []string(reply.TaggedUserIDs))

	self, err := f.comments.CreateReply(f.ctx, buyer.ID, comment.ID, &CommentRequest{Text: "Thanks!"})
	require.NoError(t, err)
	assert.Empty(t, self.TaggedUserIDs)

	_, err = f.comments.CreateReply(f.ctx, buyer.ID, uuid.New(), &CommentRequest{Text: "hm"})
	assert.ErrorIs(t, err, ErrCommentNotFound)

	comments, total, err := f.comments.ListByProduct(f.ctx, product.ID, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, comments[0].ReplyCount)
	require.Len(t, comments[0].Replies, 2)
	assert.Equal(t, "Yes it does", comments[0].Replies[0].Text)
}
