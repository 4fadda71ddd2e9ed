package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nkoncar/collecto-api/internal/database"
	"github.com/nkoncar/collecto-api/internal/models"
	"github.com/nkoncar/collecto-api/internal/oauth"
)

const userColumns = `id, email, name, avatar_url, provider, provider_id, role, is_active, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE provider = $1 AND provider_id = $2
	`, info.Provider, info.ID).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == nil {
		if user.Email != info.Email || user.Name != info.Name || (user.AvatarURL == nil && info.AvatarURL != "") {
			_, _ = s.db.Pool.Exec(ctx, `
				UPDATE users SET email = $1, name = $2, avatar_url = $3, updated_at = NOW()
				WHERE id = $4
			`, info.Email, info.Name, nullableString(info.AvatarURL), user.ID)
			user.Email = info.Email
			user.Name = info.Name
			if info.AvatarURL != "" {
				user.AvatarURL = &info.AvatarURL
			}
		}
		return &user, nil
	}

	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, info.Email, info.Name, nullableString(info.AvatarURL), info.Provider, info.ID).Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanOne(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	return s.scanOne(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, name, id))
}

// List returns every registered user, newest first. Admin dashboard only.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.AvatarURL,
			&u.Provider, &u.ProviderID, &u.Role, &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	return s.scanOne(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, role, id))
}

func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	return s.scanOne(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, active, id))
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return nil
}

func (s *UserService) scanOne(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.AvatarURL,
		&user.Provider, &user.ProviderID, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
