package mapspace

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MainEpicenter/timeloop/mapping"
	"github.com/MainEpicenter/timeloop/model"
	"github.com/MainEpicenter/timeloop/problem"
)

func u64(v uint64) *uint64 {
	return &v
}

var _ = Describe("TiledSpace", func() {
	const (
		dimM = 0
		dimN = 1
	)

	var specs model.Specs

	BeforeEach(func() {
		var err error
		specs, err = model.ParseSpecs(
			[]model.BufferConfig{
				{Name: "Buffer", Instances: u64(1)},
				{Name: "DRAM", Instances: u64(1)},
			},
			model.ArithmeticConfig{Instances: u64(2), MeshX: u64(2)},
		)
		Expect(err).NotTo(HaveOccurred())
	})

	build := func(m, n, k int) *TiledSpace {
		s, err := MakeBuilder().
			WithSpecs(specs).
			WithWorkload(problem.NewGEMM("gemm", m, n, k)).
			Build()
		Expect(err).NotTo(HaveOccurred())

		return s
	}

	It("should size the dimensions", func() {
		s := build(2, 1, 1)

		Expect(s.Size(IndexFactorization)).To(Equal(uint64(3)))
		Expect(s.Size(DatatypeBypass)).To(Equal(uint64(8)))
		Expect(s.AllSizes()).To(Equal([NumDimensions]uint64{3, 1, 1, 8}))
	})

	It("should place a temporal factor", func() {
		s := build(2, 1, 1)

		// Factorizations of M are ordered [1 1 2], [1 2 1], [2 1 1].
		m, err := s.ConstructMapping(ID{2, 0, 0, 0})

		Expect(err).NotTo(HaveOccurred())
		Expect(m.ID).To(Equal("2,0,0,0"))
		Expect(m.Nest.LevelLoops(0)).To(Equal([]mapping.Loop{
			{Dimension: dimM, Bound: 2},
		}))
		Expect(m.Nest.LevelLoops(1)).To(BeEmpty())
	})

	It("should place a spatial factor on a mesh axis", func() {
		s := build(2, 1, 1)
		s.InitPruned(1)

		Expect(s.Size(Spatial)).To(Equal(uint64(2)))

		m, err := s.ConstructMapping(ID{1, 0, 0, 0})

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Nest.LevelLoops(0)).To(Equal([]mapping.Loop{
			{Dimension: dimM, Bound: 2, Spatial: true, Axis: mapping.AxisX},
		}))

		_, err = s.ConstructMapping(ID{1, 0, 1, 0})
		Expect(err).To(MatchError(ErrMappingConstruction))
	})

	It("should prune factorizations that exceed the fanout", func() {
		s := build(4, 1, 1)

		var infeasible uint64
		found := false
		for i := uint64(0); i < s.Size(IndexFactorization); i++ {
			b := s.t.branch(i)
			if !b.feasible {
				infeasible = i
				found = true
			}
		}
		Expect(found).To(BeTrue())

		s.InitPruned(infeasible)

		Expect(s.Size(LoopPermutation)).To(Equal(uint64(1)))
		Expect(s.Size(Spatial)).To(Equal(uint64(1)))

		_, err := s.ConstructMapping(ID{infeasible, 0, 0, 0})
		Expect(err).To(MatchError(ErrMappingConstruction))
	})

	It("should permute the temporal loops of a level", func() {
		s := build(2, 2, 1)

		// Both M and N use their factorization [2 1 1].
		ifIndex := uint64(2 + 3*2)
		s.InitPruned(ifIndex)
		Expect(s.Size(LoopPermutation)).To(Equal(uint64(2)))

		first, err := s.ConstructMapping(ID{ifIndex, 0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		second, err := s.ConstructMapping(ID{ifIndex, 1, 0, 0})
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Nest.LevelLoops(0)).To(Equal([]mapping.Loop{
			{Dimension: dimM, Bound: 2}, {Dimension: dimN, Bound: 2},
		}))
		Expect(second.Nest.LevelLoops(0)).To(Equal([]mapping.Loop{
			{Dimension: dimN, Bound: 2}, {Dimension: dimM, Bound: 2},
		}))
	})

	It("should decode the bypass decisions", func() {
		s := build(2, 1, 1)

		m, err := s.ConstructMapping(ID{2, 0, 0, 5})

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Keeps(problem.Weights, 0)).To(BeFalse())
		Expect(m.Keeps(problem.Inputs, 0)).To(BeTrue())
		Expect(m.Keeps(problem.Outputs, 0)).To(BeFalse())
		for _, dt := range problem.AllDataTypes() {
			Expect(m.Keeps(dt, 1)).To(BeTrue())
		}
	})

	It("should reject values out of range", func() {
		s := build(2, 1, 1)

		_, err := s.ConstructMapping(ID{0, 0, 0, 8})
		Expect(err).To(MatchError(ErrMappingConstruction))

		_, err = s.ConstructMapping(ID{3, 0, 0, 0})
		Expect(err).To(MatchError(ErrMappingConstruction))
	})

	It("should split the index factorizations", func() {
		s := build(4, 1, 1)
		Expect(s.Size(IndexFactorization)).To(Equal(uint64(6)))

		parts := s.Split(4)

		Expect(parts).To(HaveLen(3))
		total := uint64(0)
		for _, p := range parts {
			Expect(p.Size(IndexFactorization)).To(Equal(uint64(2)))
			total += p.Size(IndexFactorization)
		}
		Expect(total).To(Equal(uint64(6)))

		m, err := parts[2].ConstructMapping(ID{0, 0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.ID).To(Equal("4,0,0,0"))
	})

	Context("with a deep hierarchy", func() {
		hierarchy := func(numLevels int) model.Specs {
			buffers := make([]model.BufferConfig, numLevels)
			for i := range buffers {
				buffers[i] = model.BufferConfig{
					Name:      fmt.Sprintf("L%d", i),
					Instances: u64(1),
				}
			}

			s, err := model.ParseSpecs(buffers,
				model.ArithmeticConfig{Instances: u64(1)})
			Expect(err).NotTo(HaveOccurred())

			return s
		}

		It("should size a space that fits", func() {
			s, err := MakeBuilder().
				WithSpecs(hierarchy(6)).
				WithWorkload(problem.NewGEMM("gemm", 64, 64, 64)).
				Build()

			Expect(err).NotTo(HaveOccurred())
			// 64 = 2^6 splits over 6 levels in C(11, 5) = 462 ways.
			Expect(s.Size(IndexFactorization)).To(Equal(uint64(462 * 462 * 462)))
			Expect(s.Size(DatatypeBypass)).To(Equal(uint64(1) << 15))
		})

		It("should refuse too many index factorizations", func() {
			_, err := MakeBuilder().
				WithSpecs(hierarchy(12)).
				WithWorkload(
					problem.NewConv("conv", 3, 3, 224, 224, 256, 256, 16)).
				Build()

			Expect(err).To(MatchError(ErrSpaceTooLarge))
		})

		It("should refuse too many bypass bits", func() {
			_, err := MakeBuilder().
				WithSpecs(hierarchy(23)).
				WithWorkload(problem.NewGEMM("gemm", 1, 1, 1)).
				Build()

			Expect(err).To(MatchError(ErrSpaceTooLarge))
		})

		It("should refuse too many loop permutations", func() {
			// 21 dimensions of bound 4 can all sit on the inner level,
			// which then has 21! orders.
			w := &problem.Workload{Name: "wide"}
			for i := 0; i < 21; i++ {
				w.Dimensions = append(w.Dimensions, fmt.Sprintf("D%d", i))
				w.Bounds = append(w.Bounds, 4)
			}

			_, err := MakeBuilder().
				WithSpecs(hierarchy(2)).
				WithWorkload(w).
				Build()

			Expect(err).To(MatchError(ErrSpaceTooLarge))
		})
	})
})
