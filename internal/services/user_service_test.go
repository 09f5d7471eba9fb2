package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

func TestFollowAndUnfollow(t *testing.T) {
	f := newFixture(t)
	asha := f.user(t, "asha")
	ravi := f.user(t, "ravi")

	assert.ErrorIs(t, f.users.Follow(f.ctx, asha.ID, asha.ID), ErrCannotFollowSelf)
	assert.ErrorIs(t, f.users.Follow(f.ctx, asha.ID, uuid.New()), ErrUserNotFound)

	require.NoError(t, f.users.Follow(f.ctx, asha.ID, ravi.ID))
	assert.ErrorIs(t, f.users.Follow(f.ctx, asha.ID, ravi.ID), ErrAlreadyFollowing)

	notifications := f.notificationsFor(t, ravi.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNewFollower, notifications[0].Type)

	followers, total, err := f.users.Followers(f.ctx, ravi.ID, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "asha", followers[0].Username)

	profile, err := f.users.GetPublicProfile(f.ctx, "ravi")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Followers)
	assert.Equal(t, int64(0), profile.Following)

	require.NoError(t, f.users.Unfollow(f.ctx, asha.ID, ravi.ID))
	assert.ErrorIs(t, f.users.Unfollow(f.ctx, asha.ID, ravi.ID), ErrNotFollowing)
	assert.ErrorIs(t, f.users.Unfollow(f.ctx, asha.ID, asha.ID), ErrNotFollowing)
}

func TestFollowRequiresVerifiedTarget(t *testing.T) {
	f := newFixture(t)
	asha := f.user(t, "asha")
	ghost := f.user(t, "ghost")
	ghost.IsVerified = false
	require.NoError(t, f.repos.Users.Update(f.ctx, ghost))

	assert.ErrorIs(t, f.users.Follow(f.ctx, asha.ID, ghost.ID), ErrUserNotVerified)
}

func TestHolidayModeRestoresOnlyParkedProducts(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	listed := f.product(t, seller.ID)
	sold := f.product(t, seller.ID, func(p *models.Product) { p.Status = models.ProductStatusSold })

	result, err := f.users.SetHolidayMode(f.ctx, seller.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ProductsUpdated)

	parked, err := f.repos.Products.GetByID(f.ctx, listed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusUnavailable, parked.Status)

	user, err := f.users.GetUserByID(f.ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, user.HolidayMode)

	result, err = f.users.SetHolidayMode(f.ctx, seller.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ProductsUpdated)

	restored, err := f.repos.Products.GetByID(f.ctx, listed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusAvailable, restored.Status)

	untouched, err := f.repos.Products.GetByID(f.ctx, sold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusSold, untouched.Status)
}

func TestReportUser(t *testing.T) {
	f := newFixture(t)
	asha := f.user(t, "asha")
	ravi := f.user(t, "ravi")

	_, err := f.users.Report(f.ctx, asha.ID, &ReportUserRequest{
		ReportedUserID: asha.ID.String(), ReportOption: "spam", Reason: "testing",
	})
	assert.ErrorIs(t, err, ErrCannotReportSelf)

	_, err = f.users.Report(f.ctx, asha.ID, &ReportUserRequest{
		ReportedUserID: uuid.NewString(), ReportOption: "spam", Reason: "testing",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)

	report, err := f.users.Report(f.ctx, asha.ID, &ReportUserRequest{
		ReportedUserID: ravi.ID.String(), ReportOption: "fake_listing", Reason: "  Photos are stock images ",
	})
	require.NoError(t, err)
	assert.Equal(t, ravi.ID, report.ReportedUserID)
	assert.Equal(t, "Photos are stock images", report.Reason)
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	f := newFixture(t)
	asha := f.user(t, "asha")
	f.user(t, "ravi")

	taken := "ravi"
	_, err := f.users.UpdateProfile(f.ctx, asha.ID, &UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	name, about := "Asha R", "Thrift lover"
	user, err := f.users.UpdateProfile(f.ctx, asha.ID, &UpdateProfileRequest{Name: &name, AboutMe: &about})
	require.NoError(t, err)
	assert.Equal(t, "Asha R", user.Name)
	assert.Equal(t, "asha", user.Username)
}

func TestMentionsAndPresence(t *testing.T) {
	f := newFixture(t)
	asha := f.user(t, "asha")
	f.user(t, "ashok")
	f.user(t, "ravi")

	found, err := f.users.Mentions(f.ctx, "@ash")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := f.users.Mentions(f.ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, empty)

	f.users.TrackPresence(f.ctx, asha.ID.String(), true, asha.CreatedAt)
	user, err := f.users.GetUserByID(f.ctx, asha.ID)
	require.NoError(t, err)
	assert.True(t, user.IsOnline)
}

func TestAddressDefaults(t *testing.T) {
	f := newFixture(t)
	asha := f.user(t, "asha")
	ravi := f.user(t, "ravi")

	home := f.address(t, asha.ID, "560001")
	assert.True(t, home.IsDefault, "first address becomes the default")
	office := f.address(t, asha.ID, "560002")
	assert.False(t, office.IsDefault)

	assert.ErrorIs(t, f.addresses.Delete(f.ctx, asha.ID, home.ID), ErrDefaultAddressDel)
	_, err := f.addresses.SetDefault(f.ctx, ravi.ID, office.ID)
	assert.ErrorIs(t, err, ErrAddressForbidden)

	_, err = f.addresses.SetDefault(f.ctx, asha.ID, office.ID)
	require.NoError(t, err)
	current, err := f.repos.Addresses.GetDefault(f.ctx, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, office.ID, current.ID)

	require.NoError(t, f.addresses.Delete(f.ctx, asha.ID, home.ID))
	_, total, err := f.addresses.List(f.ctx, asha.ID, utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
