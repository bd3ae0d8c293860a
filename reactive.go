package pfsoln

// updateReactive produces a reactive dispatch for every in-service
// generator such that, summed per bus, it reproduces the injected
// reactive power plus the local reactive demand. Buses hosting several
// generators have the total split first equally, then in proportion to
// each generator's own reactive range.
func (s *Solution) updateReactive(baseMVA float64, bus BusTable, gen GenTable, on, gbus []int, sbus []complex128) {
	for i := range gen {
		gen[i].Qg = 0
	}

	// inj Q + local Qd; co-located generators all receive the bus
	// total here, the duplication is removed below
	for k, g := range on {
		gen[g].Qg = imag(sbus[k])*baseMVA + bus[gbus[k]].Qd
	}

	if len(on) < 2 {
		return
	}

	atBus := groupByBus(on, gbus)
	equalSplit(gen, atBus)
	saved := zeroRangeSplits(gen, atBus)
	proportionalSplit(gen, atBus, s.Config.Eps)
	restoreSplits(gen, saved)
}

// groupByBus maps each hosting bus to the in-service generators at it.
func groupByBus(on, gbus []int) map[int][]int {
	atBus := make(map[int][]int, len(on))
	for k, g := range on {
		atBus[gbus[k]] = append(atBus[gbus[k]], g)
	}
	return atBus
}

// equalSplit divides each generator's provisional Qg by the number of
// in-service generators at its bus.
func equalSplit(gen GenTable, atBus map[int][]int) {
	for _, gens := range atBus {
		for _, g := range gens {
			gen[g].Qg /= float64(len(gens))
		}
	}
}

// zeroRangeSplits collects the equal-split Qg of every generator at a
// bus whose aggregate reactive range is zero. The proportional formula
// is degenerate there and their values must be restored afterwards.
func zeroRangeSplits(gen GenTable, atBus map[int][]int) map[int]float64 {
	saved := make(map[int]float64)
	for _, gens := range atBus {
		var qgMin, qgMax float64
		for _, g := range gens {
			qgMin += gen[g].Qmin
			qgMax += gen[g].Qmax
		}
		if qgMin == qgMax {
			for _, g := range gens {
				saved[g] = gen[g].Qg
			}
		}
	}
	return saved
}

// proportionalSplit redistributes each bus's total Qg in proportion to
// the generators' own reactive ranges. eps keeps the denominator off
// zero for buses with no aggregate range; those results are overwritten
// by restoreSplits anyway. The per-bus aggregates are computed before
// any generator of that bus is written.
func proportionalSplit(gen GenTable, atBus map[int][]int, eps float64) {
	for _, gens := range atBus {
		var qgTot, qgMin, qgMax float64
		for _, g := range gens {
			qgTot += gen[g].Qg
			qgMin += gen[g].Qmin
			qgMax += gen[g].Qmax
		}
		for _, g := range gens {
			gen[g].Qg = gen[g].Qmin + (qgTot-qgMin)/(qgMax-qgMin+eps)*(gen[g].Qmax-gen[g].Qmin)
		}
	}
}

// restoreSplits writes back the saved equal-split values.
func restoreSplits(gen GenTable, saved map[int]float64) {
	for g, qg := range saved {
		gen[g].Qg = qg
	}
}
