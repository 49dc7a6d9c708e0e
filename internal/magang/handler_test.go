package magang_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/magang"
	"github.com/frahmantamala/simmas/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeEngine struct {
	lastAction magang.Action
	lastInput  magang.TransitionInput
	lastFilter magang.ListFilter
	err        error
}

func (f *fakeEngine) Apply(ctx context.Context, actor auth.Actor, dto magang.CreateMagangDTO) (*magang.Magang, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &magang.Magang{ID: 1, Status: magang.StatusPending, DudiID: dto.DudiID}, nil
}

func (f *fakeEngine) AttemptTransition(ctx context.Context, id int64, action magang.Action, actor auth.Actor, in magang.TransitionInput) (*magang.Magang, error) {
	f.lastAction, f.lastInput = action, in
	if f.err != nil {
		return nil, f.err
	}
	return &magang.Magang{ID: id, Status: magang.StatusDiterima}, nil
}

func (f *fakeEngine) List(ctx context.Context, actor auth.Actor, filter magang.ListFilter) ([]*magang.Magang, error) {
	f.lastFilter = filter
	return []*magang.Magang{}, f.err
}

func (f *fakeEngine) Get(ctx context.Context, actor auth.Actor, id int64) (*magang.Magang, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &magang.Magang{ID: id}, nil
}

var _ = Describe("Handler", func() {
	var (
		engine *fakeEngine
		router chi.Router
	)

	BeforeEach(func() {
		engine = &fakeEngine{}
		h := magang.NewHandler(engine, logger.Discard())
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := auth.ContextWithSession(r.Context(), &auth.Session{UserID: 7, Role: auth.RoleGuru})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
		router.Post("/magang", h.Create)
		router.Get("/magang", h.List)
		router.Get("/magang/{id}", h.Get)
		router.Post("/magang/{id}/transitions", h.Transition)
	})

	do := func(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		var env map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	It("passes the action and grade through to the engine", func() {
		rec, env := do(http.MethodPost, "/magang/4/transitions", `{"action":"complete","nilai_akhir":91}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env["success"]).To(BeTrue())
		Expect(engine.lastAction).To(Equal(magang.ActionComplete))
		Expect(*engine.lastInput.NilaiAkhir).To(Equal(91.0))
	})

	It("rejects unknown actions and bad ids with 400", func() {
		rec, _ := do(http.MethodPost, "/magang/4/transitions", `{"action":"teleport"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec, env := do(http.MethodPost, "/magang/abc/transitions", `{"action":"approve"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env["error"]).To(HaveKeyWithValue("code", "INVALID_ID"))
	})

	It("maps engine errors to their status codes", func() {
		cases := map[error]int{
			magang.ErrQuotaFull:        http.StatusConflict,
			magang.ErrNotAssigned:      http.StatusForbidden,
			magang.ErrMagangNotFound:   http.StatusNotFound,
			magang.ErrStartNotReached:  http.StatusConflict,
			magang.ErrActiveInternship: http.StatusConflict,
		}
		for err, status := range cases {
			engine.err = err
			rec, env := do(http.MethodPost, "/magang/4/transitions", `{"action":"approve"}`)
			Expect(rec.Code).To(Equal(status))
			Expect(env["success"]).To(BeFalse())
		}
	})

	It("creates with 201", func() {
		rec, env := do(http.MethodPost, "/magang", `{"dudi_id":3,"guru_id":2,"tanggal_mulai":"2025-08-01","tanggal_selesai":"2025-11-30"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env["data"]).To(HaveKeyWithValue("status", "pending"))
	})

	It("parses list filters", func() {
		rec, _ := do(http.MethodGet, "/magang?status=diterima&dudi_id=3&limit=5", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(engine.lastFilter).To(Equal(magang.ListFilter{Status: magang.StatusDiterima, DudiID: 3, Limit: 5}))

		rec, _ = do(http.MethodGet, "/magang?status=lulus", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
