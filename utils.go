package pfsoln

import (
	"golang.org/x/exp/constraints"
)

func sum[T constraints.Float | constraints.Integer](s []T) T {
	var total T
	for _, v := range s {
		total += v
	}
	return total
}
