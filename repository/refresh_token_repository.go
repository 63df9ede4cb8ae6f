package repository

import (
	"errors"

	"gorm.io/gorm"

	"pipecrm/models"
)

// RefreshTokenRepository persists opaque refresh tokens
type RefreshTokenRepository struct {
	DB *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{DB: db}
}

func (r *RefreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.DB.Create(token).Error
}

func (r *RefreshTokenRepository) GetByToken(token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.DB.Where("token = ?", token).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

// DeleteByUser removes all tokens issued to a user; called before issuing a
// replacement so only one refresh token is live per user.
func (r *RefreshTokenRepository) DeleteByUser(userID uint) error {
	return r.DB.Unscoped().Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *RefreshTokenRepository) Revoke(token *models.RefreshToken) error {
	token.Revoked = true
	return r.DB.Save(token).Error
}
