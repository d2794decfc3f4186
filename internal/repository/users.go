package repository

import (
	"context"
	"database/sql"

	"eventify/internal/database"
	"eventify/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, city, phone, category, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_verified, created_at`

	return r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.City,
		user.Phone,
		user.Category,
		user.ProfileImage,
	).Scan(&user.ID, &user.IsVerified, &user.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, role, city, phone, category,
		       profile_image, is_verified, created_at
		FROM users
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.City,
		&user.Phone,
		&user.Category,
		&user.ProfileImage,
		&user.IsVerified,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, role, city, phone, category,
		       profile_image, is_verified, created_at
		FROM users
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.City,
		&user.Phone,
		&user.Category,
		&user.ProfileImage,
		&user.IsVerified,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

// ListVendors returns the vendor directory with per-vendor assignment counts.
// Empty city/category match everything.
func (r *UserRepository) ListVendors(ctx context.Context, city, category string) ([]models.VendorView, error) {
	var vendors []models.VendorView
	query := `
		SELECT u.id, u.name, u.email,
		       COALESCE(u.city, ''), COALESCE(u.phone, ''),
		       COALESCE(u.category, ''), COALESCE(u.profile_image, ''),
		       COUNT(ve.event_id)
		FROM users u
		LEFT JOIN vendor_events ve ON ve.vendor_id = u.id
		WHERE u.role = 'vendor'
		  AND ($1 = '' OR u.city = $1)
		  AND ($2 = '' OR u.category = $2)
		GROUP BY u.id
		ORDER BY u.name`

	rows, err := r.db.QueryContext(ctx, query, city, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.VendorView
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Email,
			&v.City,
			&v.Phone,
			&v.Category,
			&v.ProfileImage,
			&v.AssignedEventsCount,
		)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}

	return vendors, rows.Err()
}

// GetVendorView returns one vendor's directory entry with its assignment
// count, nil when the id is not a vendor
func (r *UserRepository) GetVendorView(ctx context.Context, id int64) (*models.VendorView, error) {
	v := &models.VendorView{}
	query := `
		SELECT u.id, u.name, u.email,
		       COALESCE(u.city, ''), COALESCE(u.phone, ''),
		       COALESCE(u.category, ''), COALESCE(u.profile_image, ''),
		       COUNT(ve.event_id)
		FROM users u
		LEFT JOIN vendor_events ve ON ve.vendor_id = u.id
		WHERE u.role = 'vendor' AND u.id = $1
		GROUP BY u.id`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.Name,
		&v.Email,
		&v.City,
		&v.Phone,
		&v.Category,
		&v.ProfileImage,
		&v.AssignedEventsCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return v, err
}

// ListOrganizers returns accounts with the organizer role
func (r *UserRepository) ListOrganizers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	query := `
		SELECT id, name, email, password_hash, role, city, phone, category,
		       profile_image, is_verified, created_at
		FROM users
		WHERE role = 'organizer'
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.City,
			&user.Phone,
			&user.Category,
			&user.ProfileImage,
			&user.IsVerified,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	query := `UPDATE users SET is_verified = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, verified, id)
	return err
}
