package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Require", func() {
	allRoles := []Role{RoleAdmin, RoleGuru, RoleSiswa}

	ginkgo.It("denies a missing session as unauthenticated", func() {
		d := Require(nil, RoleAdmin)
		gomega.Expect(d.Authorized()).To(gomega.BeFalse())
		gomega.Expect(d.Denial).To(gomega.Equal(DeniedUnauthenticated))
	})

	ginkgo.It("denies exactly when the role is not allowed", func() {
		allowedSets := [][]Role{
			{RoleAdmin},
			{RoleGuru},
			{RoleSiswa},
			{RoleAdmin, RoleGuru},
			{RoleGuru, RoleSiswa},
			{RoleAdmin, RoleGuru, RoleSiswa},
		}
		for _, allowed := range allowedSets {
			for _, role := range allRoles {
				session := &Session{UserID: 1, Role: role}
				d := Require(session, allowed...)

				member := false
				for _, a := range allowed {
					member = member || a == role
				}
				if member {
					gomega.Expect(d.Authorized()).To(gomega.BeTrue(), "%s in %v", role, allowed)
					gomega.Expect(d.Session).To(gomega.BeIdenticalTo(session))
				} else {
					gomega.Expect(d.Denial).To(gomega.Equal(DeniedForbidden), "%s not in %v", role, allowed)
					gomega.Expect(d.Session).To(gomega.BeNil())
				}
			}
		}
	})

	ginkgo.It("admits any authenticated role when no roles are listed", func() {
		for _, role := range allRoles {
			gomega.Expect(Require(&Session{UserID: 1, Role: role}).Authorized()).To(gomega.BeTrue())
		}
	})

	ginkgo.It("treats a session with an unknown role as no session", func() {
		d := Require(&Session{UserID: 1, Role: "superuser"}, RoleAdmin)
		gomega.Expect(d.Denial).To(gomega.Equal(DeniedUnauthenticated))
	})
})

var _ = ginkgo.Describe("ParseRole", func() {
	ginkgo.It("normalizes case and whitespace", func() {
		r, ok := ParseRole("  Guru ")
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(r).To(gomega.Equal(RoleGuru))
	})

	ginkgo.It("rejects unknown roles", func() {
		_, ok := ParseRole("teacher")
		gomega.Expect(ok).To(gomega.BeFalse())
	})
})
