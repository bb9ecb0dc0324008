package auth

import (
	"strings"

	"github.com/frahmantamala/rbac-admin/internal/core/common/validation"
)

const maxEmailLength = 255

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize matches the stored form of user emails.
func (d LoginDTO) Normalize() LoginDTO {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	return d
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(maxEmailLength)
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
