package user

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/access"
	userDatamodel "github.com/frahmantamala/rbac-admin/internal/core/datamodel/user"
	"github.com/google/uuid"
)

// Profile lists every meta field of the caller's role with the caller's value.
func (s *Service) Profile(ctx context.Context, p *access.Principal) (*ProfileResponse, error) {
	u, err := s.find(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	metas, err := s.repo.MetaForRole(ctx, u.RoleID)
	if err != nil {
		s.logger.Error("failed to load user meta", "error", err, "role_id", u.RoleID)
		return nil, internal.StorageError("get", "profile", err)
	}
	details, err := s.repo.MetaDetails(ctx, u.ID)
	if err != nil {
		s.logger.Error("failed to load user meta values", "error", err, "id", u.ID)
		return nil, internal.StorageError("get", "profile", err)
	}

	byMeta := make(map[uuid.UUID]userDatamodel.UserMetaDetail, len(details))
	for _, d := range details {
		byMeta[d.MetaID] = d
	}

	values := make([]MetaValue, 0, len(metas))
	for _, m := range metas {
		v := MetaValue{MetaID: m.ID, MetaCode: m.MetaCode, MetaName: m.MetaName}
		if d, ok := byMeta[m.ID]; ok {
			id := d.ID
			v.MetaDetailID = &id
			v.MetaValue = d.MetaValue
		}
		values = append(values, v)
	}

	info := ProfileInfo{Name: u.Name, Email: u.Email, Status: u.IsActive, Avatar: u.Avatar}
	if u.Role != nil {
		info.RoleName = u.Role.Name
	}
	return &ProfileResponse{Info: info, UserMeta: values}, nil
}

// UpdateProfile renames the caller and stores meta values. Values for meta
// fields outside the caller's role are ignored; a missing value row is created
// only when a value is given.
func (s *Service) UpdateProfile(ctx context.Context, p *access.Principal, dto ProfileDTO) (*ProfileResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		u, err := s.find(txCtx, p.UserID)
		if err != nil {
			return err
		}
		u.Name = dto.Info.Name
		if err := s.repo.Update(txCtx, ToDataModel(u)); err != nil {
			return internal.StorageError("update", "profile", err)
		}

		metas, err := s.repo.MetaForRole(txCtx, u.RoleID)
		if err != nil {
			return internal.StorageError("update", "profile", err)
		}
		allowed := make(map[uuid.UUID]struct{}, len(metas))
		for _, m := range metas {
			allowed[m.ID] = struct{}{}
		}

		details, err := s.repo.MetaDetails(txCtx, u.ID)
		if err != nil {
			return internal.StorageError("update", "profile", err)
		}
		byMeta := make(map[uuid.UUID]userDatamodel.UserMetaDetail, len(details))
		for _, d := range details {
			byMeta[d.MetaID] = d
		}

		for _, in := range dto.UserMeta {
			if _, ok := allowed[in.MetaID]; !ok {
				continue
			}
			d, exists := byMeta[in.MetaID]
			if !exists {
				if in.MetaValue == nil {
					continue
				}
				d = userDatamodel.UserMetaDetail{MetaID: in.MetaID, UserID: u.ID}
			}
			d.MetaValue = in.MetaValue
			if err := s.repo.SaveMetaDetail(txCtx, &d); err != nil {
				return internal.StorageError("update", "profile", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update profile", "error", err, "id", p.UserID)
		return nil, err
	}

	return s.Profile(ctx, p)
}
