// Package postgres implements the repository contracts on gorm.
package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

// NewRepositories builds every gorm-backed repository. The activity log lives
// in a document store and is wired separately.
func NewRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Users:     NewUserRepository(db),
		Products:  NewProductRepository(db),
		Bargains:  NewBargainRepository(db),
		Carts:     NewCartRepository(db),
		Orders:    NewOrderRepository(db),
		Wishlists: NewWishlistRepository(db),
		Comments:  NewCommentRepository(db),
		Addresses: NewAddressRepository(db),
		Follows:   NewFollowRepository(db),
		Reports:   NewReportRepository(db),
	}
}

// translate maps gorm errors onto the repository sentinels.
// The connection is opened with TranslateError so unique violations arrive as ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

func paginate(db *gorm.DB, page repository.Page) *gorm.DB {
	if page.Limit > 0 {
		db = db.Limit(page.Limit)
	}
	if page.Offset > 0 {
		db = db.Offset(page.Offset)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
