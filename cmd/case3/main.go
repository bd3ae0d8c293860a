package main

import (
	"fmt"
	"log"
	"math"
	"math/cmplx"

	"pfsoln"
)

type line struct {
	from, to int
	r, x, b  float64
}

func buildAdmittances(nb int, lines []line) (ybus, yf, yt *pfsoln.Matrix, err error) {
	ybus, err = pfsoln.NewMatrix(nb, nb)
	if err != nil {
		return nil, nil, nil, err
	}
	yf, err = pfsoln.NewMatrix(len(lines), nb)
	if err != nil {
		return nil, nil, nil, err
	}
	yt, err = pfsoln.NewMatrix(len(lines), nb)
	if err != nil {
		return nil, nil, nil, err
	}

	for i, l := range lines {
		ys := 1 / complex(l.r, l.x)
		bc := complex(0, l.b/2)

		stamps := []struct {
			m   *pfsoln.Matrix
			row int
			col int
			val complex128
		}{
			{yf, i, l.from, ys + bc},
			{yf, i, l.to, -ys},
			{yt, i, l.from, -ys},
			{yt, i, l.to, ys + bc},
			{ybus, l.from, l.from, ys + bc},
			{ybus, l.to, l.to, ys + bc},
			{ybus, l.from, l.to, -ys},
			{ybus, l.to, l.from, -ys},
		}
		for _, s := range stamps {
			if err := s.m.Add(s.row, s.col, s.val); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	return ybus, yf, yt, nil
}

func polar(mag, deg float64) complex128 {
	return cmplx.Rect(mag, deg*math.Pi/180)
}

func main() {
	baseMVA := 100.0

	bus := pfsoln.BusTable{
		{},                   // slack bus, two generators
		{Pd: 40.0, Qd: 12.0}, // load bus
		{Pd: 25.0, Qd: 8.0},  // load bus
	}
	gen := pfsoln.GenTable{
		{Bus: 0, InService: true, Qmin: -10, Qmax: 10},         // external grid
		{Bus: 0, InService: true, Pg: 20, Qmin: -10, Qmax: 10}, // dispatched unit
	}
	branch := pfsoln.BranchTable{
		{From: 0, To: 1, InService: true},
		{From: 1, To: 2, InService: true},
		{From: 0, To: 2, InService: true},
	}

	lines := []line{
		{from: 0, to: 1, r: 0.01, x: 0.10},
		{from: 1, to: 2, r: 0.02, x: 0.20},
		{from: 0, to: 2, r: 0.01, x: 0.10, b: 0.02},
	}
	ybus, yf, yt, err := buildAdmittances(len(bus), lines)
	if err != nil {
		log.Fatalf("failed to build admittances: %v", err)
	}

	// solved voltage phasors from the power-flow driver
	v := []complex128{
		polar(1.00, 0),
		polar(0.98, -2.4),
		polar(0.97, -3.1),
	}

	soln := pfsoln.New(nil)
	_, _, _, err = soln.Update(baseMVA, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	if err != nil {
		log.Fatalf("update failed: %v", err)
	}

	fmt.Println("bus    VM (p.u.)   VA (deg)")
	for i, b := range bus {
		fmt.Printf("%3d   %9.4f  %9.4f\n", i, b.VM, b.VA)
	}

	fmt.Println("\ngen   bus      Pg (MW)   Qg (MVAr)")
	for i, g := range gen {
		fmt.Printf("%3d   %3d   %9.3f   %9.3f\n", i, g.Bus, g.Pg, g.Qg)
	}

	fmt.Println("\nbranch  from  to     Pf        Qf        Pt        Qt")
	for i, br := range branch {
		fmt.Printf("%4d   %4d %4d %9.3f %9.3f %9.3f %9.3f\n", i, br.From, br.To, br.Pf, br.Qf, br.Pt, br.Qt)
	}
}
