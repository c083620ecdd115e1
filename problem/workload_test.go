package problem

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Workload", func() {
	It("should count MACCs of a GEMM", func() {
		w := NewGEMM("gemm", 4, 8, 16)

		Expect(w.Validate()).To(Succeed())
		Expect(w.MACCs()).To(Equal(uint64(4 * 8 * 16)))
	})

	It("should compute data space sizes", func() {
		w := NewGEMM("gemm", 4, 8, 16)

		Expect(w.DataSpaceSize(Weights)).To(Equal(uint64(16 * 8)))
		Expect(w.DataSpaceSize(Inputs)).To(Equal(uint64(4 * 16)))
		Expect(w.DataSpaceSize(Outputs)).To(Equal(uint64(4 * 8)))
	})

	It("should size sliding windows", func() {
		w := NewConv("conv", 3, 3, 8, 8, 4, 2, 1)

		Expect(w.Validate()).To(Succeed())
		Expect(w.DataSpaceSize(Inputs)).To(Equal(uint64(10 * 10 * 4)))
		Expect(w.TileSize(Inputs, []int{3, 1, 2, 1, 1, 1, 1})).
			To(Equal(uint64(4)))
	})

	It("should tell relevant dimensions", func() {
		w := NewGEMM("gemm", 4, 8, 16)
		m, _ := w.DimensionIndex("M")
		k, _ := w.DimensionIndex("K")

		Expect(w.IsRelevant(Weights, m)).To(BeFalse())
		Expect(w.IsRelevant(Weights, k)).To(BeTrue())
		Expect(w.IsRelevant(Outputs, k)).To(BeFalse())
	})

	It("should reject mismatched bounds", func() {
		w := NewGEMM("gemm", 4, 8, 16)
		w.Bounds = w.Bounds[:2]

		Expect(w.Validate()).To(MatchError(ErrInvalidWorkload))
	})

	It("should reject non-positive bounds", func() {
		w := NewGEMM("gemm", 4, 0, 16)

		Expect(w.Validate()).To(MatchError(ErrInvalidWorkload))
	})

	It("should name data types", func() {
		Expect(Outputs.String()).To(Equal("Outputs"))
		Expect(DataType(7).String()).To(Equal("DataType(7)"))
	})
})
