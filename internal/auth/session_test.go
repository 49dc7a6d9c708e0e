package auth

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/magang", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
	}
	return req
}

var _ = ginkgo.Describe("SessionResolver", func() {
	var (
		now      time.Time
		tokens   *TokenService
		resolver *SessionResolver
	)

	ginkgo.BeforeEach(func() {
		now = time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
		tokens = NewTokenService(testSecret, 0).WithClock(func() time.Time { return now })
		resolver = NewSessionResolver(tokens)
	})

	ginkgo.It("resolves a valid cookie into a session", func() {
		token, expiresAt, err := tokens.Issue(Identity{UserID: 5, Email: "siswa@simmas.com", DisplayName: "Budi", Role: RoleSiswa}, 0)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		session, ok := resolver.Resolve(requestWithCookie(token))
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(session.UserID).To(gomega.Equal(int64(5)))
		gomega.Expect(session.Role).To(gomega.Equal(RoleSiswa))
		gomega.Expect(session.DisplayName).To(gomega.Equal("Budi"))
		gomega.Expect(session.ExpiresAt.Unix()).To(gomega.Equal(expiresAt.Unix()))
	})

	ginkgo.It("treats absent, expired and tampered tokens identically", func() {
		token, _, err := tokens.Issue(Identity{UserID: 5, Role: RoleSiswa}, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		tampered := flipSignatureBit(token, 3)

		absent, okAbsent := resolver.Resolve(requestWithCookie(""))
		forged, okForged := resolver.Resolve(requestWithCookie(tampered))
		now = now.Add(2 * time.Hour)
		expired, okExpired := resolver.Resolve(requestWithCookie(token))

		for _, ok := range []bool{okAbsent, okForged, okExpired} {
			gomega.Expect(ok).To(gomega.BeFalse())
		}
		gomega.Expect(absent).To(gomega.BeNil())
		gomega.Expect(forged).To(gomega.BeNil())
		gomega.Expect(expired).To(gomega.BeNil())
	})

	ginkgo.It("ignores tokens carried anywhere but the session cookie", func() {
		token, _, _ := tokens.Issue(Identity{UserID: 1, Role: RoleAdmin}, 0)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: "other_cookie", Value: token})

		_, ok := resolver.Resolve(req)
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("rejects a signed token whose role is not one of the three roles", func() {
		claims := &Claims{
			UserID: 9,
			Role:   Role("ADMINISTRATOR"),
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, ok := resolver.Resolve(requestWithCookie(token))
		gomega.Expect(ok).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("CookieSettings", func() {
	ginkgo.It("sets an http-only lax cookie for the whole site", func() {
		w := httptest.NewRecorder()
		CookieSettings{Secure: true, TTL: 7 * 24 * time.Hour}.Set(w, "tok")

		cookies := w.Result().Cookies()
		gomega.Expect(cookies).To(gomega.HaveLen(1))
		c := cookies[0]
		gomega.Expect(c.Name).To(gomega.Equal(SessionCookieName))
		gomega.Expect(c.Value).To(gomega.Equal("tok"))
		gomega.Expect(c.HttpOnly).To(gomega.BeTrue())
		gomega.Expect(c.Secure).To(gomega.BeTrue())
		gomega.Expect(c.SameSite).To(gomega.Equal(http.SameSiteLaxMode))
		gomega.Expect(c.Path).To(gomega.Equal("/"))
		gomega.Expect(c.MaxAge).To(gomega.Equal(604800))
	})

	ginkgo.It("clears the cookie with Max-Age=0", func() {
		w := httptest.NewRecorder()
		CookieSettings{}.Clear(w)

		header := w.Header().Get("Set-Cookie")
		gomega.Expect(header).To(gomega.ContainSubstring(SessionCookieName + "="))
		gomega.Expect(header).To(gomega.ContainSubstring("Max-Age=0"))
	})
})
