package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("PasswordHasher", func() {
	ginkgo.It("uses cost 10 by default", func() {
		hash, err := NewPasswordHasher(0).Hash("password")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		cost, err := bcrypt.Cost([]byte(hash))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(cost).To(gomega.Equal(10))
	})

	ginkgo.It("salts every hash", func() {
		h := NewPasswordHasher(bcrypt.MinCost)
		first, _ := h.Hash("password")
		second, _ := h.Hash("password")
		gomega.Expect(first).ToNot(gomega.Equal(second))
		gomega.Expect(first).To(gomega.HaveLen(len(second)))
	})

	ginkgo.DescribeTable("Verify",
		func(plain, stored string, want bool) {
			h := NewPasswordHasher(bcrypt.MinCost)
			if stored == "<hash of password>" {
				stored, _ = h.Hash("password")
			}
			gomega.Expect(h.Verify(plain, stored)).To(gomega.Equal(want))
		},
		ginkgo.Entry("matching password", "password", "<hash of password>", true),
		ginkgo.Entry("wrong password", "Password", "<hash of password>", false),
		ginkgo.Entry("empty password", "", "<hash of password>", false),
		ginkgo.Entry("empty hash", "password", "", false),
		ginkgo.Entry("malformed hash", "password", "not-a-bcrypt-hash", false),
		ginkgo.Entry("truncated hash", "password", "$2a$10$abc", false),
	)

	ginkgo.It("rejects an empty password", func() {
		_, err := NewPasswordHasher(bcrypt.MinCost).Hash("")
		gomega.Expect(err).To(gomega.MatchError(ErrEmptyPassword))
	})
})
