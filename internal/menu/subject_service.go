package menu

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/google/uuid"
)

func (s *Service) ListSubjects(ctx context.Context, filter SubjectFilter) ([]SubjectMenuResponse, error) {
	rows, err := s.repo.ListSubjectMenus(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list subject menus", "error", err)
		return nil, internal.StorageError("get", "subject menu", err)
	}

	out := make([]SubjectMenuResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, SubjectFromDataModel(row).ToResponse())
	}
	return out, nil
}

func (s *Service) GetSubject(ctx context.Context, id uuid.UUID) (*SubjectMenuResponse, error) {
	subject, err := s.findSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := subject.ToResponse()
	return &resp, nil
}

func (s *Service) CreateSubject(ctx context.Context, dto SubjectMenuDTO) (*SubjectMenuResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	subject := &SubjectMenu{}
	subject.Apply(dto)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetSubjectMenuByCode(txCtx, subject.Code)
		if err != nil {
			return internal.StorageError("create", "subject menu", err)
		}
		if existing != nil {
			return ErrSubjectMenuExists
		}

		data := SubjectToDataModel(subject)
		if err := s.repo.CreateSubjectMenu(txCtx, data); err != nil {
			return internal.StorageError("create", "subject menu", err)
		}
		subject = SubjectFromDataModel(data)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create subject menu", "error", err, "code", subject.Code)
		return nil, err
	}

	resp := subject.ToResponse()
	return &resp, nil
}

func (s *Service) UpdateSubject(ctx context.Context, id uuid.UUID, dto SubjectMenuDTO) (*SubjectMenuResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var subject *SubjectMenu
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		subject, err = s.findSubject(txCtx, id)
		if err != nil {
			return err
		}
		subject.Apply(dto)

		existing, err := s.repo.GetSubjectMenuByCode(txCtx, subject.Code)
		if err != nil {
			return internal.StorageError("update", "subject menu", err)
		}
		if existing != nil && existing.ID != subject.ID {
			return ErrSubjectMenuExists
		}

		data := SubjectToDataModel(subject)
		if err := s.repo.UpdateSubjectMenu(txCtx, data); err != nil {
			return internal.StorageError("update", "subject menu", err)
		}
		subject = SubjectFromDataModel(data)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update subject menu", "error", err, "id", id)
		return nil, err
	}

	resp := subject.ToResponse()
	return &resp, nil
}

// DeleteSubject refuses while any menu still points at the subject.
func (s *Service) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.findSubject(txCtx, id); err != nil {
			return err
		}

		menus, err := s.repo.CountMenusBySubject(txCtx, id)
		if err != nil {
			return internal.StorageError("delete", "subject menu", err)
		}
		if menus > 0 {
			return ErrSubjectMenuInUse
		}

		if err := s.repo.DeleteSubjectMenu(txCtx, id); err != nil {
			s.logger.Error("failed to delete subject menu", "error", err, "id", id)
			return internal.StorageError("delete", "subject menu", err)
		}
		return nil
	})
}

func (s *Service) findSubject(ctx context.Context, id uuid.UUID) (*SubjectMenu, error) {
	data, err := s.repo.GetSubjectMenuByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get subject menu", "error", err, "id", id)
		return nil, internal.StorageError("get", "subject menu", err)
	}
	if data == nil {
		return nil, ErrSubjectMenuNotFound
	}
	return SubjectFromDataModel(data), nil
}
