package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/atlas-sports/site-api/internal/models"
)

// AdminUserRepository reads the admin membership table.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates the repository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// FindByUserID returns the membership row of userID.
func (r *AdminUserRepository) FindByUserID(ctx context.Context, userID string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.GetContext(ctx, &admin, "SELECT user_id, role, created_at FROM admin_users WHERE user_id = $1", userID); err != nil {
		return nil, err
	}
	return &admin, nil
}
