package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"userservice/internal/domain"
	"userservice/internal/domain/user"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, full_name, mob_num, pan_num, manager_id, created_at, updated_at, is_active`

func (r *UserRepository) GetActiveByID(ctx context.Context, userID string) (user.User, error) {
	var u user.User
	err := queryRow(ctx, r.db,
		`SELECT `+userColumns+`
		   FROM users
		  WHERE user_id = $1
		    AND is_active = TRUE`,
		userID,
	).Scan(&u.ID, &u.FullName, &u.MobNum, &u.PANNum, &u.ManagerID, &u.CreatedAt, &u.UpdatedAt, &u.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, &domain.DomainError{
			Code:       domain.ErrorCodeNotFound,
			Message:    "user not found",
			HTTPStatus: http.StatusNotFound,
		}
	}
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UserRepository) ListActive(ctx context.Context, f user.Filter) ([]user.User, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE`)

	addFilter := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		fmt.Fprintf(&sb, " AND %s = $%d", col, len(args))
	}
	addFilter("user_id", f.UserID)
	addFilter("mob_num", f.MobNum)
	addFilter("manager_id", f.ManagerID)

	sb.WriteString(" ORDER BY created_at, user_id")

	rows, err := query(ctx, r.db, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.MobNum, &u.PANNum, &u.ManagerID, &u.CreatedAt, &u.UpdatedAt, &u.IsActive); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *UserRepository) Deactivate(ctx context.Context, userID string) (int64, error) {
	res, err := exec(ctx, r.db,
		`UPDATE users
		    SET is_active = FALSE
		  WHERE user_id = $1
		    AND is_active = TRUE`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepository) DeactivateMatching(ctx context.Context, f user.Filter) (int64, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`UPDATE users SET is_active = FALSE WHERE is_active = TRUE`)

	if f.UserID != "" {
		args = append(args, f.UserID)
		fmt.Fprintf(&sb, " AND user_id = $%d", len(args))
	}
	if f.MobNum != "" {
		args = append(args, f.MobNum)
		fmt.Fprintf(&sb, " AND mob_num = $%d", len(args))
	}
	if len(args) == 0 {
		return 0, &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "provide either user_id or mob_num",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	res, err := exec(ctx, r.db, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepository) Insert(ctx context.Context, u user.User) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.FullName, u.MobNum, u.PANNum, u.ManagerID, u.CreatedAt, u.UpdatedAt, u.IsActive,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &domain.DomainError{
			Code:       domain.ErrorCodeConflict,
			Message:    conflictMessage(pgErr.ConstraintName),
			HTTPStatus: http.StatusConflict,
		}
	}
	return err
}

func conflictMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "mob_num"):
		return "mobile number already in use"
	case strings.Contains(constraint, "pan_num"):
		return "PAN number already in use"
	default:
		return "user already exists"
	}
}
