package matrix

import (
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Samples returns up to n distinct values of k, edges first: 0, 1, max,
// min, -1, max-1, min+1, 2, max/2, then 3, 4, ... until n are found.
func Samples(k storage.Kind, n int) []storage.Word {
	if !k.Valid() || n <= 0 {
		return nil
	}
	minM, maxM := k.MinMag(), k.MaxMag()
	candidates := []storage.Mag{
		{},
		{Abs: 1},
		maxM,
		minM,
		{Neg: true, Abs: 1},
		{Abs: maxM.Abs - 1},
		minPlusOne(minM),
		{Abs: 2},
		{Abs: maxM.Abs / 2},
	}

	out := make([]storage.Word, 0, n)
	seen := make(map[storage.Mag]bool, n)
	add := func(m storage.Mag) {
		m = m.Normalize()
		if len(out) >= n || seen[m] {
			return
		}
		w, ok := storage.FromMag(k, m)
		if !ok {
			return
		}
		seen[m] = true
		out = append(out, w)
	}
	for _, m := range candidates {
		add(m)
	}
	for v := uint64(3); len(out) < n && v <= maxM.Abs; v++ {
		add(storage.Mag{Abs: v})
	}
	return out
}

func minPlusOne(m storage.Mag) storage.Mag {
	if !m.Neg {
		return storage.Mag{Abs: m.Abs + 1}
	}
	return storage.Mag{Neg: true, Abs: m.Abs - 1}
}
