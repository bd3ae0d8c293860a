package pfsoln

import (
	"fmt"
	"math/cmplx"
)

// Update back-fills the derived quantities of a converged power-flow
// solution: bus voltage magnitude and angle, generator reactive
// dispatch, slack-bus active dispatch and per-branch terminal flows.
//
// baseMVA is the system base power. V is the solved complex bus
// voltage vector. Ybus, Yf and Yt are the bus and branch admittance
// operators. ref holds the reference (slack) bus indices and refGens
// the generator-table indices of the fixed-injection generators among
// them. ibus is an optional externally injected current vector; nil
// means zero. The tables are mutated in place and also returned.
//
// Update is not safe for concurrent calls on the same tables.
func (s *Solution) Update(baseMVA float64, bus BusTable, gen GenTable, branch BranchTable,
	ybus, yf, yt Operator, v []complex128, ref, refGens []int,
	ibus []complex128) (BusTable, GenTable, BranchTable, error) {

	nb := len(bus)
	nbr := len(branch)

	if len(v) != nb {
		return nil, nil, nil, fmt.Errorf("voltage vector has %d entries for %d buses", len(v), nb)
	}
	if ibus == nil {
		ibus = make([]complex128, nb)
	} else if len(ibus) != nb {
		return nil, nil, nil, fmt.Errorf("injected current vector has %d entries for %d buses", len(ibus), nb)
	}
	if r, c := ybus.Dims(); r != nb || c != nb {
		return nil, nil, nil, fmt.Errorf("Ybus is %dx%d for %d buses", r, c, nb)
	}
	if r, c := yf.Dims(); r != nbr || c != nb {
		return nil, nil, nil, fmt.Errorf("Yf is %dx%d for %d branches and %d buses", r, c, nbr, nb)
	}
	if r, c := yt.Dims(); r != nbr || c != nb {
		return nil, nil, nil, fmt.Errorf("Yt is %dx%d for %d branches and %d buses", r, c, nbr, nb)
	}
	for i := range gen {
		if gen[i].Bus < 0 || gen[i].Bus >= nb {
			return nil, nil, nil, fmt.Errorf("generator %d is hosted at bus %d, have %d buses", i, gen[i].Bus, nb)
		}
	}
	for i := range branch {
		if branch[i].From < 0 || branch[i].From >= nb || branch[i].To < 0 || branch[i].To >= nb {
			return nil, nil, nil, fmt.Errorf("branch %d connects buses %d-%d, have %d buses", i, branch[i].From, branch[i].To, nb)
		}
	}
	for _, r := range ref {
		if r < 0 || r >= nb {
			return nil, nil, nil, fmt.Errorf("reference bus %d, have %d buses", r, nb)
		}
	}
	for _, g := range refGens {
		if g < 0 || g >= len(gen) {
			return nil, nil, nil, fmt.Errorf("fixed-injection generator %d, have %d generators", g, len(gen))
		}
	}

	// which generators are on, and at what buses
	on := make([]int, 0, len(gen))
	gbus := make([]int, 0, len(gen))
	for i := range gen {
		if gen[i].InService {
			on = append(on, i)
			gbus = append(gbus, gen[i].Bus)
		}
	}

	// total complex power injected at each in-service generator's bus,
	// shared by the reactive and slack reconciliation
	sbus := busInjections(ybus, v, ibus, gbus)

	updateVoltage(bus, v)
	s.updateReactive(baseMVA, bus, gen, on, gbus, sbus)
	if err := updateSlack(baseMVA, bus, gen, ref, refGens, on, gbus, sbus); err != nil {
		return nil, nil, nil, err
	}
	if err := updateFlows(baseMVA, branch, yf, yt, v); err != nil {
		return nil, nil, nil, err
	}

	return bus, gen, branch, nil
}

// busInjections computes S[i] = V[b]*conj((Ybus*V)[b] - Ibus[b]) for the
// hosting bus b of every in-service generator.
func busInjections(ybus Operator, v, ibus []complex128, gbus []int) []complex128 {
	current := ybus.MulVec(v)

	s := make([]complex128, len(gbus))
	for i, b := range gbus {
		s[i] = v[b] * cmplx.Conj(current[b]-ibus[b])
	}
	return s
}

// updateVoltage writes the solved phasor back into the bus table.
func updateVoltage(bus BusTable, v []complex128) {
	for i := range bus {
		bus[i].VM = cmplx.Abs(v[i])
		bus[i].VA = degrees(cmplx.Phase(v[i]))
	}
}
