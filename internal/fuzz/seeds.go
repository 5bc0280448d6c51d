package fuzztests

import (
	"testing"

	"github.com/buckaroo-pm/boost-safe-numerics/internal/matrix"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/promote"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// seedSamples is how many edge values per kind enter the corpus.
const seedSamples = 4

var (
	fuzzOps      = ops.Arithmetic()
	fuzzKinds    = storage.All()
	fuzzPolicies = []promote.Policy{promote.Default{}, promote.Native{}, promote.Narrowest{}}
)

// input is one decoded fuzz case.
type input struct {
	op     ops.Op
	left   storage.Word
	right  storage.Word
	policy promote.Policy
}

func decode(op, lk, rk uint8, a, b uint64, policy uint8) input {
	l := fuzzKinds[int(lk)%len(fuzzKinds)]
	r := fuzzKinds[int(rk)%len(fuzzKinds)]
	return input{
		op:     fuzzOps[int(op)%len(fuzzOps)],
		left:   storage.Wrap(l, a),
		right:  storage.Wrap(r, b),
		policy: fuzzPolicies[int(policy)%len(fuzzPolicies)],
	}
}

// addEdgeSeeds seeds every operator with the edge samples of a few kind
// pairs: same kind, mixed signedness and mixed width.
func addEdgeSeeds(f *testing.F) {
	pairs := [][2]int{{0, 0}, {0, 4}, {3, 7}, {7, 3}, {1, 6}}
	for oi := range fuzzOps {
		for _, pair := range pairs {
			lk, rk := pair[0]%len(fuzzKinds), pair[1]%len(fuzzKinds)
			ls := matrix.Samples(fuzzKinds[lk], seedSamples)
			rs := matrix.Samples(fuzzKinds[rk], seedSamples)
			for i := range ls {
				for j := range rs {
					f.Add(uint8(oi), uint8(lk), uint8(rk), ls[i].Bits, rs[j].Bits, uint8((i+j)%len(fuzzPolicies)))
				}
			}
		}
	}
}
