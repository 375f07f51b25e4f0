package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Every shoe,
// bot and simulation worker derives its generator here so a seed printed in a
// log line is enough to replay a session.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// Seed resolves an optional seed flag, falling back to the wall clock.
func Seed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

// Derive returns the seed for the n-th independent stream of a parent seed.
func Derive(parent int64, n int) int64 {
	return int64(splitmix(uint64(parent) + uint64(n)*goldenRatio64))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
