package mapspace

import "math/bits"

// orderedFactorizations lists every way of writing n as an ordered product
// of k positive factors.
func orderedFactorizations(n, k int) [][]int {
	if k == 0 {
		if n == 1 {
			return [][]int{{}}
		}

		return nil
	}

	if k == 1 {
		return [][]int{{n}}
	}

	var result [][]int

	for f := 1; f <= n; f++ {
		if n%f != 0 {
			continue
		}

		for _, rest := range orderedFactorizations(n/f, k-1) {
			factors := make([]int, 0, k)
			factors = append(factors, f)
			factors = append(factors, rest...)
			result = append(result, factors)
		}
	}

	return result
}

func factorial(n int) uint64 {
	f := uint64(1)
	for i := 2; i <= n; i++ {
		f *= uint64(i)
	}

	return f
}

// nthPermutation returns the permutation of items with the given Lehmer
// index.
func nthPermutation(items []int, index uint64) []int {
	pool := append([]int(nil), items...)
	perm := make([]int, 0, len(items))

	for i := len(pool); i > 0; i-- {
		f := factorial(i - 1)
		pick := index / f
		index %= f

		perm = append(perm, pool[pick])
		pool = append(pool[:pick], pool[pick+1:]...)
	}

	return perm
}

// mulUint64 returns a*b and false if the product does not fit in 64 bits.
func mulUint64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

func checkedFactorial(n int) (uint64, bool) {
	f := uint64(1)
	for i := 2; i <= n; i++ {
		var ok bool
		if f, ok = mulUint64(f, uint64(i)); !ok {
			return 0, false
		}
	}

	return f, true
}

// primeFactorCount counts the prime factors of n with multiplicity. A
// factorization of n has at most that many factors above 1.
func primeFactorCount(n int) int {
	count := 0
	for p := 2; p*p <= n; p++ {
		for n%p == 0 {
			n /= p
			count++
		}
	}

	if n > 1 {
		count++
	}

	return count
}
