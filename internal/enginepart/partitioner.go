// Package enginepart implements the token partitioner: splitting a
// ring's full token space into a fixed number of compute-engine
// partitions and mapping partition id to token range.
package enginepart

import (
	"fmt"
	"math/big"

	"github.com/nethalo/bulkreader/internal/ring"
)

// Partitioner splits a partitioner's token space into n contiguous,
// equal-width (up to integer rounding) partitions, numbered 0..n-1 in
// ascending token order.
type Partitioner struct {
	min, max big.Int
	width    big.Int
	count    int
}

// New builds a Partitioner over p's token range, divided into count
// partitions. count must be positive.
func New(p ring.Partitioner, count int) (*Partitioner, error) {
	if count <= 0 {
		return nil, fmt.Errorf("partition count must be positive, got %d", count)
	}

	tp := &Partitioner{count: count}
	tp.min.Set(p.MinToken().BigInt())
	tp.max.Set(p.MaxToken().BigInt())

	span := new(big.Int).Sub(&tp.max, &tp.min)
	tp.width.Quo(span, big.NewInt(int64(count)))
	if tp.width.Sign() == 0 {
		return nil, fmt.Errorf("partition count %d too large for token span", count)
	}
	return tp, nil
}

// PartitionCount returns the number of partitions this Partitioner was
// built with.
func (tp *Partitioner) PartitionCount() int { return tp.count }

// RangeFor returns the token range owned by partition id. The last
// partition absorbs any remainder from integer division so the final
// upper bound always equals the ring's max token exactly.
func (tp *Partitioner) RangeFor(id int) (ring.Range, error) {
	if id < 0 || id >= tp.count {
		return ring.Range{}, fmt.Errorf("partition id %d out of range [0, %d)", id, tp.count)
	}

	lower := new(big.Int).Add(&tp.min, new(big.Int).Mul(&tp.width, big.NewInt(int64(id))))
	var upper big.Int
	if id == tp.count-1 {
		upper.Set(&tp.max)
	} else {
		upper.Add(&tp.min, new(big.Int).Mul(&tp.width, big.NewInt(int64(id+1))))
	}

	return ring.NewRange(ring.NewTokenFromBigInt(lower), ring.NewTokenFromBigInt(&upper))
}

// PartitionFor returns the id of the partition whose (lower, upper]
// range contains t, by dividing t's offset from min by the bucket
// width; min itself, which no range contains, maps to partition 0.
// t must lie within [min, max].
func (tp *Partitioner) PartitionFor(t ring.Token) (int, error) {
	v := t.BigInt()
	if v.Cmp(&tp.min) < 0 || v.Cmp(&tp.max) > 0 {
		return 0, fmt.Errorf("token %s outside partitioner range", t)
	}

	offset := new(big.Int).Sub(v, &tp.min)
	if offset.Sign() > 0 {
		// Upper bounds are inclusive: a token equal to a bucket's upper
		// bound belongs to that bucket, not the next one.
		offset.Sub(offset, big.NewInt(1))
	}
	id := new(big.Int).Quo(offset, &tp.width)
	idInt := int(id.Int64())
	if idInt >= tp.count {
		idInt = tp.count - 1
	}
	return idInt, nil
}
