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

// dense admittance assembly; the row-major slices feed DenseOperator
func buildAdmittances(nb int, lines []line) (ybus, yf, yt *pfsoln.DenseOperator) {
	nbr := len(lines)
	ybusData := make([]complex128, nb*nb)
	yfData := make([]complex128, nbr*nb)
	ytData := make([]complex128, nbr*nb)

	for i, l := range lines {
		ys := 1 / complex(l.r, l.x)
		bc := complex(0, l.b/2)

		yfData[i*nb+l.from] += ys + bc
		yfData[i*nb+l.to] -= ys
		ytData[i*nb+l.from] -= ys
		ytData[i*nb+l.to] += ys + bc

		ybusData[l.from*nb+l.from] += ys + bc
		ybusData[l.to*nb+l.to] += ys + bc
		ybusData[l.from*nb+l.to] -= ys
		ybusData[l.to*nb+l.from] -= ys
	}

	return pfsoln.NewDenseOperator(nb, nb, ybusData),
		pfsoln.NewDenseOperator(nbr, nb, yfData),
		pfsoln.NewDenseOperator(nbr, nb, ytData)
}

func polar(mag, deg float64) complex128 {
	return cmplx.Rect(mag, deg*math.Pi/180)
}

func main() {
	baseMVA := 100.0

	bus := pfsoln.BusTable{
		{Pd: 10.0, Qd: 2.0},
		{Pd: 60.0, Qd: 18.0},
		{Pd: 45.0, Qd: 15.0},
		{Pd: 30.0, Qd: 9.0},
	}
	gen := pfsoln.GenTable{
		{Bus: 0, InService: true, Qmin: -50, Qmax: 50},          // external grid
		{Bus: 0, InService: true, Pg: 35, Qmin: -20, Qmax: 30},  // dispatched unit at the slack
		{Bus: 2, InService: true, Pg: 60, Qmin: -30, Qmax: 40},  // voltage-controlled unit
		{Bus: 3, InService: false, Pg: 25, Qmin: -15, Qmax: 15}, // offline, left untouched
	}
	branch := pfsoln.BranchTable{
		{From: 0, To: 1, InService: true},
		{From: 0, To: 3, InService: true},
		{From: 1, To: 2, InService: true},
		{From: 2, To: 3, InService: true},
	}

	lines := []line{
		{from: 0, to: 1, r: 0.008, x: 0.08, b: 0.04},
		{from: 0, to: 3, r: 0.010, x: 0.11, b: 0.03},
		{from: 1, to: 2, r: 0.015, x: 0.13, b: 0.02},
		{from: 2, to: 3, r: 0.012, x: 0.12, b: 0.02},
	}
	ybus, yf, yt := buildAdmittances(len(bus), lines)

	v := []complex128{
		polar(1.000, 0),
		polar(0.984, -2.1),
		polar(0.992, -1.3),
		polar(0.979, -2.8),
	}

	soln := pfsoln.New(nil)
	_, _, _, err := soln.Update(baseMVA, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	if err != nil {
		log.Fatalf("update failed: %v", err)
	}

	fmt.Println("bus    VM (p.u.)   VA (deg)    Pd       Qd")
	for i, b := range bus {
		fmt.Printf("%3d   %9.4f  %9.4f %7.1f  %7.1f\n", i, b.VM, b.VA, b.Pd, b.Qd)
	}

	fmt.Println("\ngen   bus  status     Pg (MW)   Qg (MVAr)")
	for i, g := range gen {
		status := "on"
		if !g.InService {
			status = "off"
		}
		fmt.Printf("%3d   %3d  %6s  %9.3f   %9.3f\n", i, g.Bus, status, g.Pg, g.Qg)
	}

	fmt.Println("\nbranch  from  to     Pf        Qf        Pt        Qt      Ploss")
	losses := branch.Losses()
	for i, br := range branch {
		fmt.Printf("%4d   %4d %4d %9.3f %9.3f %9.3f %9.3f %9.4f\n",
			i, br.From, br.To, br.Pf, br.Qf, br.Pt, br.Qt, real(losses[i]))
	}
}
