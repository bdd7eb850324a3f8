package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, phone, phone_country_code, world_id_verified, telegram_chat_id, created_at`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, name) VALUES ($1, $2) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Name).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *UserRepository) UpdateIdentity(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET phone = $2, phone_country_code = $3, world_id_verified = $4, telegram_chat_id = $5
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Phone, user.PhoneCountryCode, user.WorldIDVerified, user.TelegramChatID,
	)
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var phone, countryCode sql.NullString
	var chatID sql.NullInt64
	err := row.Scan(
		&user.ID, &user.Email, &user.Name,
		&phone, &countryCode, &user.WorldIDVerified, &chatID,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user.Phone = phone.String
	user.PhoneCountryCode = countryCode.String
	user.TelegramChatID = chatID.Int64
	return user, nil
}
