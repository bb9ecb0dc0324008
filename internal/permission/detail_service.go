package permission

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/google/uuid"
)

// ListDetails returns every detail, or only those of permissionID when set.
func (s *Service) ListDetails(ctx context.Context, permissionID *uuid.UUID) ([]DetailResponse, error) {
	rows, err := s.repo.ListDetails(ctx, permissionID)
	if err != nil {
		s.logger.Error("failed to list permission details", "error", err)
		return nil, internal.StorageError("get", "permission detail", err)
	}
	return detailResponses(rows), nil
}

func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*DetailResponse, error) {
	d, err := s.findDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := d.ToResponse()
	return &resp, nil
}

func (s *Service) CreateDetail(ctx context.Context, dto DetailDTO) (*DetailResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := NewDetail(dto)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.find(txCtx, d.PermissionID); err != nil {
			return err
		}

		existing, err := s.repo.GetDetailByCode(txCtx, d.PermissionID, d.Code)
		if err != nil {
			return internal.StorageError("create", "permission detail", err)
		}
		if existing != nil {
			return ErrDetailExists
		}

		data := DetailToDataModel(d)
		if err := s.repo.CreateDetail(txCtx, data); err != nil {
			return internal.StorageError("create", "permission detail", err)
		}
		d = DetailFromDataModel(data)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create permission detail", "error", err, "code", d.Code)
		return nil, err
	}

	s.logger.Info("permission detail created", "id", d.ID, "permission_id", d.PermissionID, "code", d.Code)
	resp := d.ToResponse()
	return &resp, nil
}

// UpdateDetail may move the detail to another permission. Existing role
// grants of a moved detail are dropped.
func (s *Service) UpdateDetail(ctx context.Context, id uuid.UUID, dto DetailDTO) (*DetailResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var d *Detail
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		d, err = s.findDetail(txCtx, id)
		if err != nil {
			return err
		}

		previousParent, previousCode := d.PermissionID, d.Code
		d.Apply(dto)
		moved := d.PermissionID != previousParent

		if moved {
			if _, err := s.find(txCtx, d.PermissionID); err != nil {
				return err
			}
		}
		if moved || d.Code != previousCode {
			existing, err := s.repo.GetDetailByCode(txCtx, d.PermissionID, d.Code)
			if err != nil {
				return internal.StorageError("update", "permission detail", err)
			}
			if existing != nil && existing.ID != d.ID {
				return ErrDetailCodeTaken
			}
		}

		if moved {
			if err := s.repo.DeleteDetailGrants(txCtx, d.ID); err != nil {
				return internal.StorageError("update", "permission detail", err)
			}
		}

		data := DetailToDataModel(d)
		if err := s.repo.UpdateDetail(txCtx, data); err != nil {
			return ErrDetailCodeTaken.WithCause(err)
		}
		d = DetailFromDataModel(data)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update permission detail", "error", err, "id", id)
		return nil, err
	}

	resp := d.ToResponse()
	return &resp, nil
}

func (s *Service) DeleteDetail(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.findDetail(txCtx, id); err != nil {
			return err
		}

		if err := s.repo.DeleteDetail(txCtx, id); err != nil {
			s.logger.Error("failed to delete permission detail", "error", err, "id", id)
			return internal.StorageError("delete", "permission detail", err)
		}
		s.logger.Info("permission detail deleted", "id", id)
		return nil
	})
}

func (s *Service) findDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	data, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get permission detail", "error", err, "id", id)
		return nil, internal.StorageError("get", "permission detail", err)
	}
	if data == nil {
		return nil, ErrDetailNotFound
	}
	return DetailFromDataModel(data), nil
}
