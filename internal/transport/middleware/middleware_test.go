package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/transport"
	"github.com/frahmantamala/simmas/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"success":true}`))
})

var _ = Describe("RateLimiter", func() {
	var (
		limiter *RateLimiter
		now     time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
		limiter = NewRateLimiter(10, 2)
		limiter.now = func() time.Time { return now }
	})

	It("allows the burst then rejects", func() {
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
		Expect(limiter.Allow("10.0.0.1")).To(BeFalse())
	})

	It("keeps separate buckets per ip", func() {
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
		Expect(limiter.Allow("10.0.0.2")).To(BeTrue())
	})

	It("refills over time", func() {
		limiter.Allow("10.0.0.1")
		limiter.Allow("10.0.0.1")
		Expect(limiter.Allow("10.0.0.1")).To(BeFalse())

		now = now.Add(6 * time.Second)
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
	})

	It("evicts idle buckets", func() {
		limiter.Allow("10.0.0.1")
		now = now.Add(limiterTTL + time.Second)
		limiter.evict()
		Expect(limiter.buckets).To(BeEmpty())
	})

	It("answers 429 with the error envelope", func() {
		h := limiter.Middleware(okHandler)
		var rec *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, req)
		}

		Expect(rec.Code).To(Equal(http.StatusTooManyRequests))
		var env transport.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Success).To(BeFalse())
		Expect(env.Error.Type).To(Equal(internal.ErrorTypeRateLimited))
	})
})

var _ = Describe("clientIP", func() {
	var limiter *RateLimiter

	BeforeEach(func() {
		limiter = NewRateLimiter(10, 1)
	})

	It("ignores forwarded addresses from an untrusted peer", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.4:5123"
		req.Header.Set("X-Forwarded-For", "198.51.100.7")
		Expect(limiter.clientIP(req)).To(Equal("192.0.2.4"))
	})

	It("takes the first untrusted hop behind a trusted proxy", func() {
		Expect(limiter.TrustProxies([]string{"10.0.0.0/8", "192.0.2.4"})).To(Succeed())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.4:5123"
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7 , 10.1.2.3")
		Expect(limiter.clientIP(req)).To(Equal("198.51.100.7"))
	})

	It("rejects malformed proxy entries", func() {
		Expect(limiter.TrustProxies([]string{"not-an-ip"})).NotTo(Succeed())
		Expect(limiter.TrustProxies([]string{"10.0.0.0/99"})).NotTo(Succeed())
	})

	It("does not open new buckets for rotated forwarded addresses", func() {
		h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		allowed := 0
		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.RemoteAddr = "192.0.2.4:5123"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				allowed++
			}
		}
		Expect(allowed).To(Equal(1))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a 500 envelope without leaking the value", func() {
		h := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("secret detail")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret detail"))
		var env transport.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Error.Type).To(Equal(internal.ErrorTypeInternal))
	})
})

var _ = Describe("RequestID", func() {
	It("mints a trace id when none is sent", func() {
		rec := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})

	It("echoes a caller supplied trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-abc")
		rec := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-abc"))
	})

	It("replaces an oversized trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, strings.Repeat("x", 100))
		rec := httptest.NewRecorder()
		RequestID(okHandler).ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("CORS", func() {
	h := CORS([]string{"http://localhost:3000", " https://simmas.sch.id/"})(okHandler)

	It("echoes an allowed origin with credentials", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://simmas.sch.id")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://simmas.sch.id"))
		Expect(rec.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("ignores unknown origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("short-circuits preflight", func() {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})
})

var _ = Describe("SecurityHeaders", func() {
	It("sets hardening headers", func() {
		rec := httptest.NewRecorder()
		SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get("X-Content-Type-Options")).To(Equal("nosniff"))
		Expect(rec.Header().Get("X-Frame-Options")).To(Equal("DENY"))
	})
})

var _ = Describe("HTTPMetrics", func() {
	It("labels requests by route pattern", func() {
		reg := prometheus.NewRegistry()
		m := NewHTTPMetrics(reg)

		r := chi.NewRouter()
		r.Use(m.Instrument)
		r.Get("/magang/{id}", okHandler)

		for _, id := range []string{"1", "2", "3"} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/magang/"+id, nil))
		}

		Expect(testutil.ToFloat64(m.requests.WithLabelValues("GET", "/magang/{id}", "200"))).To(Equal(3.0))
		Expect(testutil.ToFloat64(m.inFlight)).To(Equal(0.0))

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Body.String()).To(ContainSubstring("simmas_http_requests_total"))
	})

	It("joins mounted patterns", func() {
		Expect(joinPattern("/api/v1/*", "/magang/{id}")).To(Equal("/api/v1/magang/{id}"))
		Expect(joinPattern("", "/health")).To(Equal("/health"))
	})
})

var _ = Describe("log filtering", func() {
	It("masks sensitive json keys at any depth", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@b.c","password":"hunter2","nested":{"simmas_token":"x"}}`))
		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).To(ContainSubstring(`"email":"a@b.c"`))
		Expect(out).NotTo(ContainSubstring(`"simmas_token":"x"`))
	})

	It("masks cookie and authorization headers", func() {
		h := http.Header{}
		h.Set("Cookie", "simmas_token=abc")
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")
		f := filterSensitiveHeaders(h)
		Expect(f["Cookie"]).To(Equal("[FILTERED]"))
		Expect(f["Authorization"]).To(Equal("[FILTERED]"))
		Expect(f["Accept"]).To(Equal("application/json"))
	})

	It("passes the response through unchanged", func() {
		rec := httptest.NewRecorder()
		LoggingMiddleware(logger.Discard())(okHandler).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":1}`)))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal(`{"success":true}`))
	})
})
