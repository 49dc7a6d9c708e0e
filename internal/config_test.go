package internal_test

import (
	"time"

	"github.com/frahmantamala/simmas/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{Source: "postgres://localhost/simmas"},
		Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	It("fills defaults", func() {
		cfg := validConfig()
		Expect(cfg.Env).To(Equal("development"))
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.SessionTTL).To(Equal(7 * 24 * time.Hour))
		Expect(cfg.Lifecycle.EligibilityPolicy).To(Equal(internal.EligibilitySingleActive))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("requires a database source and a long secret", func() {
		cfg := validConfig()
		cfg.Database.Source = ""
		cfg.Security.JWTSecret = "short"
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("source is required")))
		Expect(err).To(MatchError(ContainSubstring("jwt_secret")))
	})

	It("rejects an unknown eligibility policy", func() {
		cfg := validConfig()
		cfg.Lifecycle.EligibilityPolicy = "unlimited"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("eligibility_policy")))
	})

	It("rejects a bcrypt cost outside 10..15", func() {
		cfg := validConfig()
		cfg.Security.BCryptCost = 4
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("splits allowed origins", func() {
		cfg := validConfig()
		cfg.Server.AllowedOrigins = " http://localhost:3000, ,https://simmas.sch.id"
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://localhost:3000", "https://simmas.sch.id"}))
	})

	It("splits and checks trusted proxies", func() {
		cfg := validConfig()
		cfg.Server.TrustedProxies = "10.0.0.0/8, 192.0.2.4"
		Expect(cfg.Server.Proxies()).To(Equal([]string{"10.0.0.0/8", "192.0.2.4"}))
		Expect(cfg.Validate()).To(Succeed())

		cfg.Server.TrustedProxies = "10.0.0.0/8,proxy.local"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("invalid trusted proxy proxy.local")))
	})

	It("builds from environment variables", func() {
		GinkgoT().Setenv("DATABASE_URL", "postgres://db/simmas")
		GinkgoT().Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
		GinkgoT().Setenv("ELIGIBILITY_POLICY", internal.EligibilitySingleLifetime)
		GinkgoT().Setenv("SCHEDULER_INTERVAL", "15m")

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Env).To(Equal("production"))
		Expect(cfg.IsProduction()).To(BeTrue())
		Expect(cfg.Database.Source).To(Equal("postgres://db/simmas"))
		Expect(cfg.Lifecycle.EligibilityPolicy).To(Equal(internal.EligibilitySingleLifetime))
		Expect(cfg.Lifecycle.SchedulerInterval).To(Equal(15 * time.Minute))
		Expect(cfg.Validate()).To(Succeed())
	})
})
