package mapper

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/MainEpicenter/timeloop/hooking"
	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/mapspace"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/monitoring"
	"github.com/MainEpicenter/timeloop/problem"
	"github.com/MainEpicenter/timeloop/search"
)

var _ = Describe("Mapper", func() {
	var (
		specs    model.Specs
		workload *problem.Workload
	)

	BeforeEach(func() {
		var err error
		specs, err = model.ParseSpecs(
			[]model.BufferConfig{
				{
					Name:        "Buffer",
					Instances:   u64(1),
					Size:        u64(16),
					WordBits:    16,
					ReadEnergy:  1,
					WriteEnergy: 1,
				},
				{
					Name:        "DRAM",
					Instances:   u64(1),
					WordBits:    16,
					ReadEnergy:  100,
					WriteEnergy: 100,
				},
			},
			model.ArithmeticConfig{
				Name:        "MAC",
				Instances:   u64(2),
				MeshX:       u64(2),
				WordBits:    16,
				EnergyPerOp: 1,
			},
		)
		Expect(err).NotTo(HaveOccurred())

		workload = problem.NewGEMM("gemm", 4, 2, 2)
	})

	build := func(threads int) Builder {
		return MakeBuilder().
			WithSpecs(specs).
			WithWorkload(workload).
			WithThreads(threads).
			WithMetric(MetricEnergy).
			WithLogger(slog.New(slog.DiscardHandler))
	}

	It("should find the same best mapping with any number of threads",
		func() {
			single, err := build(1).Build().Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			parallel, err := build(3).Build().Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			Expect(parallel.Cost).To(Equal(single.Cost))
			Expect(parallel.Workers).To(HaveLen(3))

			var valid, visited uint64
			for _, w := range parallel.Workers {
				valid += w.Valid
				visited += w.Visited
			}

			Expect(valid).To(Equal(single.Workers[0].Valid))
			Expect(visited).To(Equal(single.Workers[0].Visited))
		})

	It("should report the metrics of the best mapping", func() {
		result, err := build(2).Build().Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Mapping).NotTo(BeNil())
		Expect(result.Metrics.Energy).To(BeNumerically("~", result.Cost, 1e-9))
		Expect(result.Metrics.MACCs).To(Equal(workload.MACCs()))
		Expect(result.Report).To(ContainSubstring("Total topology energy"))

		var sb strings.Builder
		result.PrettyPrint(&sb, specs.StorageLevelNames())
		Expect(sb.String()).To(ContainSubstring("Mapping ID: " + result.Mapping.ID))
		Expect(sb.String()).To(ContainSubstring("DRAM"))
	})

	It("should stop after the search size", func() {
		result, err := build(1).
			WithSearchSize(1).
			Build().
			Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Workers[0].Valid).To(Equal(uint64(1)))
	})

	It("should not search after the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := build(2).Build().Run(ctx)

		Expect(err).To(MatchError(ErrNoValidMapping))
	})

	It("should refuse a space that does not fit in 64 bits", func() {
		wide := &problem.Workload{Name: "wide"}
		for i := 0; i < 21; i++ {
			wide.Dimensions = append(wide.Dimensions, "D"+strconv.Itoa(i))
			wide.Bounds = append(wide.Bounds, 4)
		}

		_, err := MakeBuilder().
			WithSpecs(specs).
			WithWorkload(wide).
			WithLogger(slog.New(slog.DiscardHandler)).
			Build().
			Run(context.Background())

		Expect(err).To(MatchError(mapspace.ErrSpaceTooLarge))
	})

	It("should invoke the hooks", func() {
		var newBest, branches int

		hook := hooking.HookFunc(func(ctx hooking.HookCtx) {
			switch ctx.Pos {
			case HookPosNewBest:
				Expect(ctx.Item).To(BeAssignableToTypeOf(&mapping.Mapping{}))
				newBest++
			case search.HookPosBranchDone:
				branches++
			}
		})

		_, err := build(1).WithHook(hook).Build().Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(newBest).To(BeNumerically(">", 0))
		Expect(branches).To(BeNumerically(">", 0))
	})

	It("should dump the branch costs of each worker in order", func() {
		path := filepath.Join(GinkgoT().TempDir(), "gemm_if_cost")
		dumper := search.NewCostDumper(path)
		dumper.Init()

		var mu sync.Mutex
		emitted := map[string][]search.BranchRecord{}
		capture := hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos != search.HookPosBranchDone {
				return
			}

			r := ctx.Item.(search.BranchRecord)

			mu.Lock()
			emitted[r.SearchID] = append(emitted[r.SearchID], r)
			mu.Unlock()
		})

		_, err := build(3).
			WithHook(dumper).
			WithHook(capture).
			Build().
			Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(dumper.Close()).To(Succeed())

		content, err := os.ReadFile(path + ".csv")
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		dumped := map[string][]search.BranchRecord{}
		for _, line := range lines[1:] {
			fields := strings.Split(line, ", ")
			Expect(fields).To(HaveLen(3))

			f, err := strconv.ParseUint(fields[1], 10, 64)
			Expect(err).NotTo(HaveOccurred())

			c, err := strconv.ParseFloat(fields[2], 64)
			Expect(err).NotTo(HaveOccurred())

			dumped[fields[0]] = append(dumped[fields[0]], search.BranchRecord{
				SearchID:      fields[0],
				Factorization: f,
				BestCost:      c,
			})
		}

		Expect(len(emitted)).To(BeNumerically(">", 1))
		Expect(dumped).To(Equal(emitted))
	})

	It("should report progress to a monitor", func() {
		monitor := monitoring.NewMonitor()

		_, err := build(2).WithMonitor(monitor).Build().Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
	})

	Context("with a data recorder", func() {
		var (
			mockCtrl *gomock.Controller
			recorder *MockDataRecorder
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			recorder = NewMockDataRecorder(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should store the best mapping and the worker stats", func() {
			recorder.EXPECT().ListTables().Return(nil).Times(2)
			recorder.EXPECT().CreateTable(BestMappingTable, BestMappingEntry{})
			recorder.EXPECT().CreateTable(WorkerStatsTable, WorkerStatsEntry{})
			recorder.EXPECT().
				InsertData(BestMappingTable, gomock.Any()).
				Do(func(_ string, entry any) {
					e := entry.(BestMappingEntry)
					Expect(e.Workload).To(Equal("gemm"))
					Expect(e.Metric).To(Equal("energy"))
				})
			recorder.EXPECT().InsertData(WorkerStatsTable, gomock.Any()).Times(2)

			_, err := build(2).
				WithDataRecorder(recorder).
				Build().
				Run(context.Background())

			Expect(err).NotTo(HaveOccurred())
		})

		It("should not create a table twice", func() {
			recorder.EXPECT().
				ListTables().
				Return([]string{BestMappingTable, WorkerStatsTable}).
				Times(2)

			build(1).WithDataRecorder(recorder).Build()
		})
	})
})

var _ = Describe("worker", func() {
	It("should stop when the best cost stops improving", func() {
		w := &worker{
			name:    "w",
			victory: 2,
			logger:  slog.New(slog.DiscardHandler),
		}
		m := &mapping.Mapping{ID: "0,0,0,0"}

		w.consider(m, 5)
		Expect(w.done()).To(BeFalse())

		w.consider(m, 6)
		Expect(w.done()).To(BeFalse())

		w.consider(m, 4)
		Expect(w.BestCost).To(Equal(4.0))
		Expect(w.done()).To(BeFalse())

		w.consider(m, 4)
		w.consider(m, 7)
		Expect(w.done()).To(BeTrue())
	})
})
