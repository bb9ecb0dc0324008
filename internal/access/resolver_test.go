package access_test

import (
	"context"

	"github.com/frahmantamala/rbac-admin/internal/access"
	accessPostgres "github.com/frahmantamala/rbac-admin/internal/access/postgres"
	"github.com/frahmantamala/rbac-admin/internal/core/database"
	"github.com/frahmantamala/rbac-admin/internal/core/datamodel/rbac"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver", func() {
	var (
		ctx        context.Context
		fx         grantFixture
		resolver   *access.Resolver
		categories *rbac.Permission
		read       *rbac.PermissionDetail
		write      *rbac.PermissionDetail
		editor     *rbac.Role
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := database.OpenSQLite(":memory:")
		Expect(err).NotTo(HaveOccurred())
		fx = grantFixture{db: db}
		resolver = access.NewResolver(accessPostgres.NewGrantRepository(db))

		categories = fx.permission("categories")
		read = fx.detail(categories, "read")
		write = fx.detail(categories, "write")
		editor = fx.role("editor")
		fx.grant(editor, categories)
		fx.grantDetail(editor, write)
	})

	It("includes only details granted through role permission details", func() {
		set, err := resolver.Resolve(ctx, editor.ID, editor.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Bypass).To(BeFalse())
		Expect(set.PermissionCodes()).To(Equal([]string{"categories"}))
		Expect(set.DetailCodes()).To(Equal([]string{"write"}))
	})

	It("ignores a detail grant whose parent permission is not granted", func() {
		roles := fx.permission("roles")
		rolesRead := fx.detail(roles, "read")
		fx.grantDetail(editor, rolesRead)

		set, err := resolver.Resolve(ctx, editor.ID, editor.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.PermissionCodes()).To(Equal([]string{"categories"}))
		Expect(set.DetailCodes()).To(Equal([]string{"write"}))
	})

	It("returns an empty set for a role without grants", func() {
		viewer := fx.role("viewer")

		set, err := resolver.Resolve(ctx, viewer.ID, viewer.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Codes()).To(BeEmpty())
		Expect(set.Allows(access.Require("categories"))).To(BeFalse())
	})

	It("gives admin every permission, including ones created later", func() {
		admin := fx.role(access.RoleAdmin)

		set, err := resolver.Resolve(ctx, admin.ID, admin.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Bypass).To(BeTrue())
		Expect(set.DetailCodes()).To(ConsistOf("read", "write"))

		menu := fx.permission("menu")
		fx.detail(menu, "delete")

		set, err = resolver.Resolve(ctx, admin.ID, admin.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.PermissionCodes()).To(ConsistOf("categories", "menu"))
		Expect(set.Allows(access.Require("menu", "delete"))).To(BeTrue())
	})

	It("reflects grant changes on the next call", func() {
		fx.grantDetail(editor, read)

		set, err := resolver.Resolve(ctx, editor.ID, editor.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.DetailCodes()).To(Equal([]string{"read", "write"}))
	})

	It("is idempotent", func() {
		first, err := resolver.Resolve(ctx, editor.ID, editor.Code)
		Expect(err).NotTo(HaveOccurred())
		second, err := resolver.Resolve(ctx, editor.ID, editor.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Codes()).To(Equal(first.Codes()))
	})

	Describe("Tree", func() {
		It("nests granted details under their permission", func() {
			tree, err := resolver.Tree(ctx, editor.ID, editor.Code)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree).To(HaveLen(1))
			Expect(tree[0].PermissionCode).To(Equal("categories"))
			Expect(tree[0].PermissionDetails).To(HaveLen(1))
			Expect(tree[0].PermissionDetails[0].Code).To(Equal("write"))
		})

		It("orders permissions by name and keeps empty detail lists", func() {
			users := fx.permission("users")
			fx.grant(editor, users)
			audit := fx.permission("audit")
			fx.grant(editor, audit)

			tree, err := resolver.Tree(ctx, editor.ID, editor.Code)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree).To(HaveLen(3))
			Expect(tree[0].PermissionName).To(Equal("audit"))
			Expect(tree[0].PermissionDetails).NotTo(BeNil())
			Expect(tree[0].PermissionDetails).To(BeEmpty())
			Expect(tree[2].PermissionName).To(Equal("users"))
		})
	})
})

var _ = Describe("GrantSet", func() {
	set := &access.GrantSet{
		Permissions: map[string]struct{}{"categories": {}},
		Details:     map[string]struct{}{"write": {}},
	}

	DescribeTable("subset test over permission and detail codes",
		func(req access.Requirement, allowed bool) {
			Expect(set.Allows(req)).To(Equal(allowed))
		},
		Entry("permission only", access.Require("categories"), true),
		Entry("permission and granted detail", access.Require("categories", "write"), true),
		Entry("missing detail", access.Require("categories", "read"), false),
		Entry("missing permission", access.Require("roles", "write"), false),
		Entry("one of two details missing", access.Require("categories", "write", "read"), false),
		Entry("empty requirement", access.Requirement{}, true),
	)

	It("lets a bypass set through anything", func() {
		admin := &access.GrantSet{Bypass: true}
		Expect(admin.Allows(access.Require("anything", "at-all"))).To(BeTrue())
	})
})
