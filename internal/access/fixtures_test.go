package access_test

import (
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type grantFixture struct {
	db *gorm.DB
}

func (f grantFixture) role(code string) *rbac.Role {
	r := &rbac.Role{Name: code, Code: code}
	Expect(f.db.Create(r).Error).To(Succeed())
	return r
}

func (f grantFixture) permission(code string) *rbac.Permission {
	p := &rbac.Permission{Name: code, Code: code}
	Expect(f.db.Create(p).Error).To(Succeed())
	return p
}

func (f grantFixture) detail(parent *rbac.Permission, code string) *rbac.PermissionDetail {
	d := &rbac.PermissionDetail{PermissionID: parent.ID, Name: code, Code: code}
	Expect(f.db.Create(d).Error).To(Succeed())
	return d
}

func (f grantFixture) grant(role *rbac.Role, p *rbac.Permission) {
	Expect(f.db.Create(&rbac.RolePermission{RoleID: role.ID, PermissionID: p.ID}).Error).To(Succeed())
}

func (f grantFixture) grantDetail(role *rbac.Role, d *rbac.PermissionDetail) {
	Expect(f.db.Create(&rbac.RolePermissionDetail{RoleID: role.ID, PermissionDetailID: d.ID}).Error).To(Succeed())
}
