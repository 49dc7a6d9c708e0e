package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	users, dudi, magang []Count
	pending             int64
	err                 error
}

func (m *mockRepository) UsersByRole(context.Context) ([]Count, error)    { return m.users, m.err }
func (m *mockRepository) DudiByStatus(context.Context) ([]Count, error)   { return m.dudi, nil }
func (m *mockRepository) MagangByStatus(context.Context) ([]Count, error) { return m.magang, nil }
func (m *mockRepository) PendingLogbooks(context.Context) (int64, error)  { return m.pending, nil }

var _ = Describe("Service", func() {
	var (
		repo *mockRepository
		svc  *Service
		now  time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 9, 1, 7, 30, 0, 0, time.UTC)
		repo = &mockRepository{
			users:   []Count{{Label: "admin", Total: 1}, {Label: "siswa", Total: 30}},
			dudi:    []Count{{Label: "aktif", Total: 4}},
			magang:  []Count{{Label: "pending", Total: 3}, {Label: "berlangsung", Total: 9}},
			pending: 12,
		}
		svc = NewService(repo, logger.Discard())
		svc.now = func() time.Time { return now }
	})

	It("fills every bucket and totals", func() {
		st, err := svc.Summary(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(st.UsersByRole).To(Equal(map[string]int64{"admin": 1, "guru": 0, "siswa": 30}))
		Expect(st.TotalUsers).To(Equal(int64(31)))
		Expect(st.DudiByStatus).To(HaveKeyWithValue("nonaktif", int64(0)))
		Expect(st.MagangByStatus).To(HaveLen(5))
		Expect(st.TotalMagang).To(Equal(int64(12)))
		Expect(st.PendingLogbooks).To(Equal(int64(12)))
		Expect(st.GeneratedAt).To(Equal(now))
	})

	It("wraps repository failures as internal errors", func() {
		repo.err = errors.New("connection reset")

		_, err := svc.Summary(context.Background())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})

	Describe("Handler", func() {
		It("writes the summary in the envelope", func() {
			rec := httptest.NewRecorder()
			NewHandler(svc, logger.Discard()).GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body struct {
				Success bool  `json:"success"`
				Data    Stats `json:"data"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Success).To(BeTrue())
			Expect(body.Data.TotalUsers).To(Equal(int64(31)))
		})

		It("hides the cause of a failure", func() {
			repo.err = errors.New("pq: password authentication failed")
			rec := httptest.NewRecorder()
			NewHandler(svc, logger.Discard()).GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).NotTo(ContainSubstring("password authentication"))
		})
	})
})
