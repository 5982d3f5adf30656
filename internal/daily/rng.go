package daily

// Rand is a Mulberry32 generator. The sequence is part of the daily challenge
// contract and must stay bit-for-bit stable.
type Rand struct {
	state uint32
}

// NewRand seeds a generator.
func NewRand(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Float64 returns the next value in [0,1).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}

// Intn returns floor(Float64()*n).
func (r *Rand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Shuffle permutes items in place with Fisher-Yates, walking from the end.
func Shuffle[T any](r *Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
