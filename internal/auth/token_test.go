package auth

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const testSecret = "test-secret-that-is-at-least-32-chars!!"

func flipSignatureBit(token string, bit int) string {
	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	gomega.Expect(err).ToNot(gomega.HaveOccurred())
	sig[bit/8] ^= 1 << (bit % 8)
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)
	return strings.Join(parts, ".")
}

var _ = ginkgo.Describe("TokenService", func() {
	var (
		now     time.Time
		service *TokenService
		id      Identity
	)

	ginkgo.BeforeEach(func() {
		now = time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
		service = NewTokenService(testSecret, 0).WithClock(func() time.Time { return now })
		id = Identity{UserID: 42, Email: "guru@simmas.com", DisplayName: "Bu Guru", Role: RoleGuru}
	})

	ginkgo.It("round-trips the identity claims", func() {
		token, expiresAt, err := service.Issue(id, 0)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(expiresAt).To(gomega.Equal(now.Add(7 * 24 * time.Hour)))

		claims, ok := service.Verify(token)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(42)))
		gomega.Expect(claims.Email).To(gomega.Equal("guru@simmas.com"))
		gomega.Expect(claims.DisplayName).To(gomega.Equal("Bu Guru"))
		gomega.Expect(claims.Role).To(gomega.Equal(RoleGuru))
	})

	ginkgo.It("accepts the token until expiry and rejects it after", func() {
		token, _, err := service.Issue(id, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		now = now.Add(59 * time.Minute)
		_, ok := service.Verify(token)
		gomega.Expect(ok).To(gomega.BeTrue())

		now = now.Add(2 * time.Minute)
		_, ok = service.Verify(token)
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("rejects any single-bit mutation of the signature", func() {
		token, _, err := service.Issue(id, 0)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		for _, bit := range []int{0, 7, 64, 128, 255} {
			_, ok := service.Verify(flipSignatureBit(token, bit))
			gomega.Expect(ok).To(gomega.BeFalse(), "bit %d", bit)
		}
	})

	ginkgo.It("rejects tokens signed with another secret", func() {
		other := NewTokenService("another-secret-that-is-long-enough!!", 0)
		token, _, err := other.Issue(id, 0)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, ok := service.Verify(token)
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("rejects the none algorithm", func() {
		claims := &Claims{
			UserID: 1,
			Role:   RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, ok := service.Verify(unsigned)
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("rejects a validly signed token with an unknown role", func() {
		claims := &Claims{
			UserID: 1,
			Role:   Role("kepala_sekolah"),
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, ok := service.Verify(token)
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.DescribeTable("malformed input never panics",
		func(input string) {
			gomega.Expect(func() { service.Verify(input) }).ToNot(gomega.Panic())
			_, ok := service.Verify(input)
			gomega.Expect(ok).To(gomega.BeFalse())
		},
		ginkgo.Entry("empty", ""),
		ginkgo.Entry("garbage", "garbage"),
		ginkgo.Entry("two segments", "a.b"),
		ginkgo.Entry("bad base64", "!!!.???.***"),
	)

	ginkgo.It("refuses to issue for a role outside the enum", func() {
		_, _, err := service.Issue(Identity{UserID: 1, Role: "root"}, 0)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
