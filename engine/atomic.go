package engine

import (
	"math"
	"sync/atomic"
)

// atomicFloat64 bit-casts a float64 through an atomic.Uint64 so it can be
// stored and loaded from either thread without a lock.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }
func (a *atomicFloat64) Load() float64   { return math.Float64frombits(a.bits.Load()) }
