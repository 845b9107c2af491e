package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/penstore/internal/model"
	"github.com/jmoiron/sqlx"
)

const userColumns = "id, email, password_hash, name, role, created_at, updated_at"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES (:id, :email, :password_hash, :name, :role, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, u)
	return err
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := r.DB.Rebind(`SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER(?) LIMIT 1`)
	if err := r.DB.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
