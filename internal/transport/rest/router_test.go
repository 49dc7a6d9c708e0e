package rest_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/simmas/internal/auth"
	authPostgres "github.com/frahmantamala/simmas/internal/auth/postgres"
	"github.com/frahmantamala/simmas/internal/core/datamodel/datamodeltest"
	userDatamodel "github.com/frahmantamala/simmas/internal/core/datamodel/user"
	"github.com/frahmantamala/simmas/internal/core/events"
	"github.com/frahmantamala/simmas/internal/dudi"
	dudiPostgres "github.com/frahmantamala/simmas/internal/dudi/postgres"
	"github.com/frahmantamala/simmas/internal/logbook"
	logbookPostgres "github.com/frahmantamala/simmas/internal/logbook/postgres"
	"github.com/frahmantamala/simmas/internal/magang"
	magangPostgres "github.com/frahmantamala/simmas/internal/magang/postgres"
	"github.com/frahmantamala/simmas/internal/stats"
	statsPostgres "github.com/frahmantamala/simmas/internal/stats/postgres"
	"github.com/frahmantamala/simmas/internal/transport/middleware"
	"github.com/frahmantamala/simmas/internal/transport/rest"
	"github.com/frahmantamala/simmas/internal/user"
	userPostgres "github.com/frahmantamala/simmas/internal/user/postgres"
	"github.com/frahmantamala/simmas/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		dudiID int64
		guruID int64
	)

	BeforeEach(func() {
		var err error
		db, err = datamodeltest.Open()
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		readDB := sqlx.NewDb(sqlDB, "sqlite3")

		lg := logger.Discard()
		hasher := auth.NewPasswordHasher(4)
		hash, err := hasher.Hash("password")
		Expect(err).NotTo(HaveOccurred())

		_, err = datamodeltest.CreateUser(db, "admin@simmas.com", "Administrator", "admin", hash)
		Expect(err).NotTo(HaveOccurred())
		gu, g, err := datamodeltest.CreateGuruUser(db, "guru@simmas.com", "198501012010011001")
		Expect(err).NotTo(HaveOccurred())
		su, _, err := datamodeltest.CreateSiswaUser(db, "siswa@simmas.com", "2024001")
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(&userDatamodel.User{}).
			Where("id IN ?", []int64{gu.ID, su.ID}).
			Update("password_hash", hash).Error).To(Succeed())
		guruID = g.ID

		d, err := datamodeltest.CreateDudi(db, "PT Maju Bersama", 1, "aktif")
		Expect(err).NotTo(HaveOccurred())
		dudiID = d.ID

		bus := events.NewEventBus(lg)
		events.RegisterAuditLog(bus, lg)

		tokens := auth.NewTokenService("router-test-secret-0123456789abcdef", 0)
		profiles := user.NewService(userPostgres.NewUserRepository(db), lg)
		engine := magang.NewEngine(magangPostgres.NewMagangRepository(db), profiles, bus, lg,
			magang.WithMetrics(magang.NewMetrics(prometheus.NewRegistry())))

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Handlers{
			DB:           readDB,
			Auth:         auth.NewHandler(auth.NewService(authPostgres.NewRepository(db), hasher, tokens, lg), auth.CookieSettings{}, lg),
			AuthMW:       auth.NewMiddleware(auth.NewSessionResolver(tokens), lg),
			User:         user.NewHandler(profiles, lg),
			Magang:       magang.NewHandler(engine, lg),
			Logbook:      logbook.NewHandler(logbook.NewService(logbookPostgres.NewLogbookRepository(db), profiles, bus, lg), lg),
			Dudi:         dudi.NewHandler(dudi.NewService(dudiPostgres.NewDudiRepository(db), lg), lg),
			Stats:        stats.NewHandler(stats.NewService(statsPostgres.NewStatsRepository(readDB), lg), lg),
			LoginLimiter: middleware.NewRateLimiter(60, 20),
			Metrics:      middleware.NewHTTPMetrics(prometheus.NewRegistry()),
			MetricsPath:  "/metrics",
			OpenAPIPath:  "../../../api/openapi.yml",
			Logger:       lg,
		})
	})

	AfterEach(func() {
		Expect(datamodeltest.Close(db)).To(Succeed())
	})

	do := func(method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		return rec, env
	}

	login := func(email string) *http.Cookie {
		rec, _ := do(http.MethodPost, "/api/auth/login", fmt.Sprintf(`{"email":%q,"password":"password"}`, email))
		Expect(rec.Code).To(Equal(http.StatusOK))
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.SessionCookieName {
				return c
			}
		}
		Fail("no session cookie for " + email)
		return nil
	}

	It("lets the admin read stats and keeps everyone else out", func() {
		admin := login("admin@simmas.com")

		rec, env := do(http.MethodGet, "/api/v1/admin/stats", "", admin)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())

		var s stats.Stats
		Expect(json.Unmarshal(env.Data, &s)).To(Succeed())
		Expect(s.TotalUsers).To(Equal(int64(3)))
		Expect(s.UsersByRole).To(HaveKeyWithValue("admin", int64(1)))
		Expect(s.DudiByStatus).To(HaveKeyWithValue("aktif", int64(1)))

		rec, env = do(http.MethodGet, "/api/v1/admin/stats", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Error.Type).To(Equal("UNAUTHENTICATED"))

		rec, env = do(http.MethodGet, "/api/v1/admin/stats", "", login("guru@simmas.com"))
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(env.Error.Type).To(Equal("FORBIDDEN"))
	})

	It("rejects bad credentials with one message", func() {
		rec, env := do(http.MethodPost, "/api/auth/login", `{"email":"admin@simmas.com","password":"wrong"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Success).To(BeFalse())

		rec, _ = do(http.MethodPost, "/api/auth/login", `{"email":"nobody@simmas.com","password":"password"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("runs an internship from application to completion", func() {
		siswa := login("siswa@simmas.com")
		guru := login("guru@simmas.com")

		rec, env := do(http.MethodPost, "/api/v1/magang", fmt.Sprintf(
			`{"dudi_id":%d,"guru_id":%d,"tanggal_mulai":"2024-01-08","tanggal_selesai":"2024-04-08"}`, dudiID, guruID), siswa)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var m magang.Magang
		Expect(json.Unmarshal(env.Data, &m)).To(Succeed())
		Expect(m.Status).To(Equal(magang.StatusPending))
		path := fmt.Sprintf("/api/v1/magang/%d", m.ID)

		rec, _ = do(http.MethodPost, path+"/transitions", `{"action":"approve"}`, siswa)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec, _ = do(http.MethodPost, path+"/transitions", `{"action":"start"}`, guru)
		Expect(rec.Code).To(Equal(http.StatusConflict))

		for _, action := range []string{"approve", "start"} {
			rec, env = do(http.MethodPost, path+"/transitions", fmt.Sprintf(`{"action":%q}`, action), guru)
			Expect(rec.Code).To(Equal(http.StatusOK), action)
		}
		Expect(json.Unmarshal(env.Data, &m)).To(Succeed())
		Expect(m.Status).To(Equal(magang.StatusBerlangsung))

		rec, env = do(http.MethodPost, path+"/logbook", `{"tanggal":"2024-01-09","kegiatan":"Instalasi jaringan kantor"}`, siswa)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var entry logbook.Entry
		Expect(json.Unmarshal(env.Data, &entry)).To(Succeed())

		rec, _ = do(http.MethodPost, fmt.Sprintf("/api/v1/logbook/%d/verify", entry.ID), `{"decision":"approved"}`, guru)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec, _ = do(http.MethodPost, path+"/transitions", `{"action":"complete"}`, guru)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec, env = do(http.MethodPost, path+"/transitions", `{"action":"complete","nilai_akhir":88.5}`, guru)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(env.Data, &m)).To(Succeed())
		Expect(m.Status).To(Equal(magang.StatusSelesai))
		Expect(*m.NilaiAkhir).To(Equal(88.5))

		rec, env = do(http.MethodGet, path+"/logbook", "", siswa)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var entries []logbook.Entry
		Expect(json.Unmarshal(env.Data, &entries)).To(Succeed())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].StatusVerifikasi).To(Equal(logbook.StatusApproved))
	})

	It("serves health, the api document and metrics", func() {
		rec, _ := do(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"healthy"`))
		Expect(rec.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())

		rec, _ = do(http.MethodGet, "/openapi.yml", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))

		rec, _ = do(http.MethodGet, "/metrics", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`route="/api/v1/health"`))
	})

	It("reports unhealthy when the database is gone", func() {
		sqlDB, _ := db.DB()
		Expect(sqlDB.Close()).To(Succeed())

		rec, _ := do(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))

		db, _ = datamodeltest.Open()
	})
})
