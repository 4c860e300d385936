package pg

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"userservice/internal/domain"
	"userservice/internal/domain/manager"
)

type ManagerRepository struct {
	db *sql.DB
}

func NewManagerRepository(db *sql.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) GetActive(ctx context.Context, managerID string) (manager.Manager, error) {
	var m manager.Manager
	err := queryRow(ctx, r.db,
		`SELECT manager_id, is_active
		   FROM managers
		  WHERE manager_id = $1
		    AND is_active = TRUE`,
		managerID,
	).Scan(&m.ID, &m.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return manager.Manager{}, &domain.DomainError{
			Code:       domain.ErrorCodeManagerNotFound,
			Message:    "manager not found or inactive",
			HTTPStatus: http.StatusBadRequest,
		}
	}
	if err != nil {
		return manager.Manager{}, err
	}

	return m, nil
}
