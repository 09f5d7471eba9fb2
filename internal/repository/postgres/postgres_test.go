package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), repository.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("wrapped: %w", gorm.ErrRecordNotFound)), repository.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), repository.ErrDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `ab\%c\_d\\`, escapeLike(`ab%c_d\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestPriceColumn(t *testing.T) {
	assert.Contains(t, priceColumn(models.PriceChannelCash), "'cash'")
	assert.Contains(t, priceColumn(""), "'cash'")
	assert.Contains(t, priceColumn(models.PriceChannelCoin), "'coin'")
	assert.Contains(t, priceColumn(models.PriceChannelMix), "'mix'")
}
