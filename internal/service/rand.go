package service

import (
	"hash/maphash"
	"math/rand/v2"
	"sync"
)

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// NewRand returns a randomly seeded generator that is safe for concurrent
// use.
func NewRand() *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	)})
}
