package repository

import (
	"context"

	"fsanano/storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id, firstname, lastname, email, password, created_at, updated_at`

// CreateUser inserts u and returns the stored row. A second user with the
// same email fails with ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		`INSERT INTO "user" (firstname, lastname, email, password, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING `+userColumns,
		u.FirstName, u.LastName, u.Email, u.PasswordHash)
	if err != nil {
		return model.User{}, wrap("create user", err)
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, wrap("create user", err)
	}
	return created, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID int) (model.User, error) {
	return r.getUser(ctx, "get user by id", `user_id = $1`, userID)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, "get user by email", `email = $1`, email)
}

func (r *Repository) getUser(ctx context.Context, op, where string, arg any) (model.User, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `SELECT `+userColumns+` FROM "user" WHERE `+where, arg)
	if err != nil {
		return model.User{}, wrap(op, err)
	}
	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, wrap(op, err)
	}
	return u, nil
}

// UpdateUserName sets the first and last name of a user
func (r *Repository) UpdateUserName(ctx context.Context, userID int, firstName, lastName string) error {
	return r.updateUser(ctx, "update user name",
		`UPDATE "user" SET firstname = $1, lastname = $2, updated_at = CURRENT_TIMESTAMP WHERE user_id = $3`,
		firstName, lastName, userID)
}

// UpdateUserEmail sets the email of a user
func (r *Repository) UpdateUserEmail(ctx context.Context, userID int, email string) error {
	return r.updateUser(ctx, "update user email",
		`UPDATE "user" SET email = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`,
		email, userID)
}

// UpdateUserPassword stores a new password hash for a user
func (r *Repository) UpdateUserPassword(ctx context.Context, userID int, passwordHash string) error {
	return r.updateUser(ctx, "update user password",
		`UPDATE "user" SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`,
		passwordHash, userID)
}

func (r *Repository) updateUser(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrap(op, ErrNotFound)
	}
	return nil
}
