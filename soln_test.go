package pfsoln

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gotest.tools/v3/assert"
)

type testLine struct {
	from, to int
	r, x, b  float64
}

// testAdmittances stamps the standard pi-model of each line into Ybus,
// Yf and Yt.
func testAdmittances(t *testing.T, nb int, lines []testLine) (ybus, yf, yt *Matrix) {
	t.Helper()

	ybus, err := NewMatrix(nb, nb)
	assert.NilError(t, err)
	yf, err = NewMatrix(len(lines), nb)
	assert.NilError(t, err)
	yt, err = NewMatrix(len(lines), nb)
	assert.NilError(t, err)

	for i, l := range lines {
		ys := 1 / complex(l.r, l.x)
		bc := complex(0, l.b/2)

		assert.NilError(t, yf.Add(i, l.from, ys+bc))
		assert.NilError(t, yf.Add(i, l.to, -ys))
		assert.NilError(t, yt.Add(i, l.from, -ys))
		assert.NilError(t, yt.Add(i, l.to, ys+bc))

		assert.NilError(t, ybus.Add(l.from, l.from, ys+bc))
		assert.NilError(t, ybus.Add(l.to, l.to, ys+bc))
		assert.NilError(t, ybus.Add(l.from, l.to, -ys))
		assert.NilError(t, ybus.Add(l.to, l.from, -ys))
	}

	return ybus, yf, yt
}

func polar(mag, deg float64) complex128 {
	return cmplx.Rect(mag, deg*math.Pi/180)
}

// injection computes the complex power injected into the network at bus
// b, independently of the code under test's shared precursor.
func injection(ybus Operator, v []complex128, b int) complex128 {
	return v[b] * cmplx.Conj(ybus.MulVec(v)[b])
}

func TestVoltageWriteBack(t *testing.T) {
	bus := BusTable{{}, {}, {}}
	gen := GenTable{{Bus: 0, InService: true, Qmin: -30, Qmax: 30}}
	branch := BranchTable{
		{From: 0, To: 1, InService: true},
		{From: 1, To: 2, InService: true},
	}
	ybus, yf, yt := testAdmittances(t, 3, []testLine{
		{from: 0, to: 1, r: 0.01, x: 0.1},
		{from: 1, to: 2, r: 0.02, x: 0.2},
	})
	v := []complex128{polar(1.02, 0), polar(0.99, -1.5), polar(0.97, -2.8)}

	_, _, _, err := New(nil).Update(100, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	assert.NilError(t, err)

	for i := range bus {
		assert.Assert(t, scalar.EqualWithinAbs(bus[i].VM, cmplx.Abs(v[i]), 1e-12))
		assert.Assert(t, scalar.EqualWithinAbs(bus[i].VA, cmplx.Phase(v[i])*180/math.Pi, 1e-12))
	}
}

func TestMisSizedInputs(t *testing.T) {
	bus := BusTable{{}, {}}
	gen := GenTable{{Bus: 0, InService: true}}
	branch := BranchTable{{From: 0, To: 1, InService: true}}
	ybus, yf, yt := testAdmittances(t, 2, []testLine{{from: 0, to: 1, r: 0.01, x: 0.1}})
	v := []complex128{polar(1, 0), polar(1, -1)}

	_, _, _, err := New(nil).Update(100, bus, gen, branch, ybus, yf, yt, v[:1], []int{0}, []int{0}, nil)
	assert.ErrorContains(t, err, "voltage vector")

	_, _, _, err = New(nil).Update(100, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, make([]complex128, 3))
	assert.ErrorContains(t, err, "injected current")

	badGen := GenTable{{Bus: 7, InService: true}}
	_, _, _, err = New(nil).Update(100, bus, badGen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	assert.ErrorContains(t, err, "generator")

	wrong, err := NewMatrix(3, 3)
	assert.NilError(t, err)
	_, _, _, err = New(nil).Update(100, bus, gen, branch, wrong, yf, yt, v, []int{0}, []int{0}, nil)
	assert.ErrorContains(t, err, "Ybus")

	_, _, _, err = New(nil).Update(100, bus, gen, branch, ybus, yf, yt, v, []int{5}, []int{0}, nil)
	assert.ErrorContains(t, err, "reference bus")

	_, _, _, err = New(nil).Update(100, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{3}, nil)
	assert.ErrorContains(t, err, "fixed-injection generator")
}

// The dispatch is a deterministic function of V and the tables:
// re-feeding the routine its own outputs must reproduce them.
func TestIdempotence(t *testing.T) {
	bus := BusTable{{Qd: 5}, {Pd: 40, Qd: 12}, {Pd: 25, Qd: 8}}
	gen := GenTable{
		{Bus: 0, InService: true, Qmin: -30, Qmax: 30},
		{Bus: 0, InService: true, Pg: 20, Qmin: -10, Qmax: 25},
		{Bus: 2, InService: true, Pg: 15, Qmin: -5, Qmax: 5},
	}
	branch := BranchTable{
		{From: 0, To: 1, InService: true},
		{From: 1, To: 2, InService: true},
		{From: 0, To: 2, InService: true},
	}
	ybus, yf, yt := testAdmittances(t, 3, []testLine{
		{from: 0, to: 1, r: 0.01, x: 0.1},
		{from: 1, to: 2, r: 0.02, x: 0.2},
		{from: 0, to: 2, r: 0.01, x: 0.1, b: 0.02},
	})
	v := []complex128{polar(1, 0), polar(0.98, -2.4), polar(0.97, -3.1)}

	soln := New(nil)
	_, _, _, err := soln.Update(100, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	assert.NilError(t, err)

	busWant := append(BusTable{}, bus...)
	genWant := append(GenTable{}, gen...)
	branchWant := append(BranchTable{}, branch...)

	_, _, _, err = soln.Update(100, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	assert.NilError(t, err)

	assert.DeepEqual(t, bus, busWant)
	assert.DeepEqual(t, gen, genWant)
	assert.DeepEqual(t, branch, branchWant)
}

// Two identical generators with symmetric ranges at the slack, 6 MVAr
// injected, no local demand: each gets 3 MVAr.
func TestEqualSplitScenario(t *testing.T) {
	baseMVA := 100.0
	bus := BusTable{{}, {}, {}}
	gen := GenTable{
		{Bus: 0, InService: true, Qmin: -10, Qmax: 10},
		{Bus: 0, InService: true, Qmin: -10, Qmax: 10},
	}
	branch := BranchTable{}

	// with V = 1 everywhere the bus-0 injection is conj of the Ybus
	// row sum: -0.06j stamps 6 MVAr of injected reactive power
	ybus, err := NewMatrix(3, 3)
	assert.NilError(t, err)
	assert.NilError(t, ybus.Add(0, 0, complex(0, -0.06)))
	yf, err := NewMatrix(0, 3)
	assert.NilError(t, err)
	yt, err := NewMatrix(0, 3)
	assert.NilError(t, err)

	v := []complex128{1, 1, 1}

	_, _, _, err = New(nil).Update(baseMVA, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, nil)
	assert.NilError(t, err)

	assert.Assert(t, scalar.EqualWithinAbs(gen[0].Qg, 3, 1e-9))
	assert.Assert(t, scalar.EqualWithinAbs(gen[1].Qg, 3, 1e-9))
}

// A nonzero injected-current vector shifts the computed injection; the
// reconciled dispatch must follow it.
func TestInjectedCurrent(t *testing.T) {
	baseMVA := 100.0
	bus := BusTable{{}, {}}
	gen := GenTable{{Bus: 0, InService: true, Qmin: -50, Qmax: 50}}
	branch := BranchTable{{From: 0, To: 1, InService: true}}
	ybus, yf, yt := testAdmittances(t, 2, []testLine{{from: 0, to: 1, r: 0.01, x: 0.1}})
	v := []complex128{polar(1, 0), polar(0.98, -2)}

	ibus := []complex128{complex(0.02, -0.01), 0}
	_, _, _, err := New(nil).Update(baseMVA, bus, gen, branch, ybus, yf, yt, v, []int{0}, []int{0}, ibus)
	assert.NilError(t, err)

	want := v[0] * cmplx.Conj(ybus.MulVec(v)[0]-ibus[0])
	assert.Assert(t, scalar.EqualWithinAbs(gen[0].Qg, imag(want)*baseMVA, 1e-9))
	assert.Assert(t, scalar.EqualWithinAbs(gen[0].Pg, real(want)*baseMVA, 1e-9))
}
