package repo

import (
	"context"

	"shopfront/internal/models"
)

// CreateUser is a single atomic insert. The unique indexes on username
// and email make the store reject a duplicate with gorm.ErrDuplicatedKey;
// there is no check-then-insert window.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
