package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	goredis "github.com/redis/go-redis/v9"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("HealthHandler", func() {
	var (
		db   *sqlx.DB
		mock sqlmock.Sqlmock
	)

	BeforeEach(func() {
		raw, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		Expect(err).NotTo(HaveOccurred())
		db, mock = sqlx.NewDb(raw, "sqlmock"), m
		DeferCleanup(func() {
			mock.ExpectClose()
			Expect(raw.Close()).To(Succeed())
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})
	})

	check := func(h *HealthHandler) (int, HealthResponse) {
		rec := httptest.NewRecorder()
		h.healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		var resp HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return rec.Code, resp
	}

	It("answers the liveness ping without touching the database", func() {
		rec := httptest.NewRecorder()
		NewHealthHandler(db, nil).pingHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"OK"`))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("is healthy when the database answers", func() {
		mock.ExpectPing()

		code, resp := check(NewHealthHandler(db, nil))
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(HealthHealthy))
		Expect(resp.Components).To(HaveKey("database"))
		Expect(resp.Components).NotTo(HaveKey("redis"))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("is unavailable when the ping fails", func() {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		code, resp := check(NewHealthHandler(db, nil))
		Expect(code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Status).To(Equal(HealthUnhealthy))
		Expect(resp.Components["database"].Message).To(ContainSubstring("connection refused"))
	})

	Context("with redis", func() {
		var (
			mr  *miniredis.Miniredis
			rdb *goredis.Client
		)

		BeforeEach(func() {
			mr = miniredis.RunT(GinkgoT())
			rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
			DeferCleanup(rdb.Close)
		})

		It("reports both components", func() {
			mock.ExpectPing()

			code, resp := check(NewHealthHandler(db, rdb))
			Expect(code).To(Equal(http.StatusOK))
			Expect(resp.Components).To(HaveKey("redis"))
			Expect(resp.Components["redis"].Status).To(Equal(HealthHealthy))
		})

		It("is unavailable when redis is down", func() {
			mock.ExpectPing()
			mr.Close()

			code, resp := check(NewHealthHandler(db, rdb))
			Expect(code).To(Equal(http.StatusServiceUnavailable))
			Expect(resp.Components["database"].Status).To(Equal(HealthHealthy))
			Expect(resp.Components["redis"].Status).To(Equal(HealthUnhealthy))
		})
	})
})
