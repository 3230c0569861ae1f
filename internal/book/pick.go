package book

import "math/rand/v2"

// pick selects one record of a same-key run. With best set it returns the
// first record of maximum weight. Otherwise the choice is proportional to
// weight, or uniform when every weight is zero.
func pick(recs []Record, best bool, rng *rand.Rand) Record {
	if best {
		top := recs[0]
		for _, r := range recs[1:] {
			if r.Weight > top.Weight {
				top = r
			}
		}
		return top
	}

	var sum uint64
	for _, r := range recs {
		sum += uint64(r.Weight)
	}
	if sum == 0 {
		return recs[rng.IntN(len(recs))]
	}

	draw := rng.Uint64N(sum)
	var acc uint64
	for _, r := range recs {
		acc += uint64(r.Weight)
		if acc > draw {
			return r
		}
	}
	return recs[len(recs)-1]
}
