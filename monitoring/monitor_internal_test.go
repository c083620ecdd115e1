package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MainEpicenter/timeloop/hooking"
)

type sampleWorker struct {
	hooking.HookableBase

	name    string
	Visited uint64
	Best    *sampleResult
}

type sampleResult struct {
	Cost float64
}

func (w *sampleWorker) Name() string {
	return w.name
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		router http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		router = m.Router()
	})

	It("should fall back to a random port", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(32776)
		Expect(m.portNumber).To(Equal(32776))
	})

	It("should list the registered workers", func() {
		m.RegisterWorker(&sampleWorker{name: "search-0"})
		m.RegisterWorker(&sampleWorker{name: "search-1"})

		rec := get("/api/list_workers")

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"search-0", "search-1"}))
	})

	It("should serialize a worker", func() {
		m.RegisterWorker(&sampleWorker{name: "search-0", Visited: 42})

		rec := get("/api/worker/search-0")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Visited"))
		Expect(rec.Body.String()).To(ContainSubstring("42"))
	})

	It("should report an unknown worker", func() {
		rec := get("/api/worker/nobody")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a malformed field request", func() {
		rec := get("/api/field/" + url.PathEscape("{not json"))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should track the progress bars", func() {
		bar := m.CreateProgressBar("search-0", 100)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)
		other := m.CreateProgressBar("search-1", 0)

		rec := get("/api/progress")

		var bars []ProgressBar
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(2))
		Expect(bars[0].Name).To(Equal("search-0"))
		Expect(bars[0].Total).To(Equal(uint64(100)))
		Expect(bars[0].Finished).To(Equal(uint64(2)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))
		Expect(bars[0].ID).NotTo(Equal(bars[1].ID))

		m.CompleteProgressBar(bar)
		m.CompleteProgressBar(other)

		rec = get("/api/progress")
		Expect(rec.Body.String()).To(Equal("[]"))
	})

	It("should report the resources of the process", func() {
		rec := get("/api/resource")

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the web page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})
})
