package pfsoln

import "fmt"

// updateSlack derives the active power the reference-bus generators
// must supply: injected active power plus local demand. With several
// generators at a reference bus, the fixed-injection ones among them
// absorb the residual left by the dispatched generators, whose Pg is
// not altered. Reference buses do not interact.
func updateSlack(baseMVA float64, bus BusTable, gen GenTable, ref, refGens []int, on, gbus []int, sbus []complex128) error {
	fixed := make(map[int]bool, len(refGens))
	for _, g := range refGens {
		fixed[g] = true
	}

	for _, r := range ref {
		// in-service generators at this reference bus
		atBus := make([]int, 0, 1)
		var pBus float64
		for k, g := range on {
			if gbus[k] != r {
				continue
			}
			if len(atBus) == 0 {
				// inj P + local Pd
				pBus = real(sbus[k])*baseMVA + bus[r].Pd
			}
			atBus = append(atBus, g)
		}

		if len(atBus) == 0 {
			return fmt.Errorf("reference bus %d has no in-service generator", r)
		}
		if len(atBus) == 1 {
			gen[atBus[0]].Pg = pBus
			continue
		}

		// fixed-injection vs dispatched partition
		extGrids := make([]int, 0, len(atBus))
		dispatched := make([]float64, 0, len(atBus))
		for _, g := range atBus {
			if fixed[g] {
				extGrids = append(extGrids, g)
			} else {
				dispatched = append(dispatched, gen[g].Pg)
			}
		}
		if len(extGrids) == 0 {
			return fmt.Errorf("reference bus %d hosts %d generators but none is in the fixed-injection set", r, len(atBus))
		}

		share := (pBus - sum(dispatched)) / float64(len(extGrids))
		for _, g := range extGrids {
			gen[g].Pg = share
		}
	}

	return nil
}
