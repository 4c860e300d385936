package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"userservice/internal/domain"
	"userservice/internal/domain/manager"
)

type CreateParams struct {
	FullName  string
	MobNum    string
	PANNum    string
	ManagerID string
}

// UpdateData carries the requested field changes. Empty string means the
// field was not supplied.
type UpdateData struct {
	FullName  string
	MobNum    string
	PANNum    string
	ManagerID string
}

// UpdateResult is the per-id outcome of a best-effort batch update.
type UpdateResult struct {
	Updated   []string
	Missing   []string
	Conflicts []string
}

type Service interface {
	Create(ctx context.Context, p CreateParams) (User, error)
	List(ctx context.Context, f Filter) ([]User, error)
	Delete(ctx context.Context, userID, mobNum string) error
	Update(ctx context.Context, userIDs []string, data UpdateData) (UpdateResult, error)
}

type service struct {
	uow      domain.UnitOfWork
	users    Repository
	managers manager.Repository
	events   domain.EventBus
	ids      domain.IDGenerator
}

func NewService(
	uow domain.UnitOfWork,
	users Repository,
	managers manager.Repository,
	events domain.EventBus,
	ids domain.IDGenerator,
) Service {
	return &service{
		uow:      uow,
		users:    users,
		managers: managers,
		events:   events,
		ids:      ids,
	}
}

func (s *service) Create(ctx context.Context, p CreateParams) (User, error) {
	if strings.TrimSpace(p.FullName) == "" {
		return User{}, validationError("full_name is required")
	}

	mob, ok := NormalizeMobile(p.MobNum)
	if !ok {
		return User{}, validationError("invalid mobile number")
	}

	if !ValidPAN(p.PANNum) {
		return User{}, validationError("invalid PAN number")
	}

	var res User

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.managers.GetActive(ctx, p.ManagerID); err != nil {
			return err
		}

		now := time.Now().UTC()
		u := User{
			ID:        s.ids.NewID(),
			FullName:  p.FullName,
			MobNum:    mob,
			PANNum:    strings.ToUpper(p.PANNum),
			ManagerID: p.ManagerID,
			CreatedAt: now,
			UpdatedAt: now,
			IsActive:  true,
		}

		if err := s.users.Insert(ctx, u); err != nil {
			return err
		}
		res = u

		if s.events != nil {
			s.events.Publish(ctx, domain.Event{
				Type: "user.created",
				Payload: map[string]any{
					"user_id":    u.ID,
					"manager_id": u.ManagerID,
				},
			})
		}
		return nil
	})

	return res, err
}

func (s *service) List(ctx context.Context, f Filter) ([]User, error) {
	if f.MobNum != "" {
		mob, ok := NormalizeMobile(f.MobNum)
		if !ok {
			return nil, validationError("invalid mobile number")
		}
		f.MobNum = mob
	}

	return s.users.ListActive(ctx, f)
}

func (s *service) Delete(ctx context.Context, userID, mobNum string) error {
	if userID == "" && mobNum == "" {
		return validationError("provide either user_id or mob_num")
	}

	f := Filter{UserID: userID}
	if mobNum != "" {
		mob, ok := NormalizeMobile(mobNum)
		if !ok {
			return validationError("invalid mobile number")
		}
		f.MobNum = mob
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.users.DeactivateMatching(ctx, f)
		if err != nil {
			return err
		}
		if n == 0 {
			return &domain.DomainError{
				Code:       domain.ErrorCodeNotFound,
				Message:    "user not found",
				HTTPStatus: http.StatusNotFound,
			}
		}

		if s.events != nil {
			s.events.Publish(ctx, domain.Event{
				Type:    "user.deleted",
				Payload: map[string]any{"user_id": userID, "rows": n},
			})
		}
		return nil
	})
}

// Update replaces the active row of every id in userIDs. In manager-only
// mode the replacement keeps the old row's fields and takes the new
// manager_id; otherwise all four fields are required and every replacement
// takes the supplied values. Each id is processed in its own transaction and
// failures of one id do not abort the rest.
func (s *service) Update(ctx context.Context, userIDs []string, data UpdateData) (UpdateResult, error) {
	if len(userIDs) == 0 {
		return UpdateResult{}, validationError("invalid or missing user_ids")
	}

	managerOnly := data.ManagerID != "" &&
		data.FullName == "" && data.MobNum == "" && data.PANNum == ""

	if !managerOnly {
		if data.FullName == "" || data.MobNum == "" || data.PANNum == "" || data.ManagerID == "" {
			return UpdateResult{}, validationError("missing fields for update")
		}

		mob, ok := NormalizeMobile(data.MobNum)
		if !ok {
			return UpdateResult{}, validationError("invalid mobile number")
		}
		data.MobNum = mob

		if !ValidPAN(data.PANNum) {
			return UpdateResult{}, validationError("invalid PAN number")
		}
		data.PANNum = strings.ToUpper(data.PANNum)
	}

	if _, err := s.managers.GetActive(ctx, data.ManagerID); err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	now := time.Now().UTC()

	for _, id := range userIDs {
		err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
			current, err := s.users.GetActiveByID(ctx, id)
			if err != nil {
				return err
			}

			if _, err := s.users.Deactivate(ctx, id); err != nil {
				return err
			}

			repl := User{
				ID:        s.ids.NewID(),
				FullName:  current.FullName,
				MobNum:    current.MobNum,
				PANNum:    current.PANNum,
				ManagerID: data.ManagerID,
				CreatedAt: current.CreatedAt,
				UpdatedAt: now,
				IsActive:  true,
			}
			if !managerOnly {
				repl.FullName = data.FullName
				repl.MobNum = data.MobNum
				repl.PANNum = data.PANNum
			}

			return s.users.Insert(ctx, repl)
		})

		switch {
		case err == nil:
			res.Updated = append(res.Updated, id)
		case errCode(err) == domain.ErrorCodeNotFound:
			res.Missing = append(res.Missing, id)
		case errCode(err) == domain.ErrorCodeConflict:
			res.Conflicts = append(res.Conflicts, id)
		default:
			return UpdateResult{}, err
		}
	}

	if s.events != nil {
		s.events.Publish(ctx, domain.Event{
			Type: "user.updated",
			Payload: map[string]any{
				"manager_id": data.ManagerID,
				"updated":    len(res.Updated),
				"missing":    len(res.Missing),
				"conflicts":  len(res.Conflicts),
			},
		})
	}

	return res, nil
}

func validationError(msg string) error {
	return &domain.DomainError{
		Code:       domain.ErrorCodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

func errCode(err error) domain.ErrorCode {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
