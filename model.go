package pfsoln

import "math"

// EPS is the IEEE-754 double machine epsilon, the default division guard.
const EPS float64 = 1.0 / (1 << 52)

// Bus is one row of the bus table. VM/VA are outputs of the update,
// Pd/Qd are demand inputs in system base units.
type Bus struct {
	VM float64 // Voltage magnitude, p.u.
	VA float64 // Voltage angle, degrees
	Pd float64 // Active power demand
	Qd float64 // Reactive power demand
}

// Gen is one row of the generator table. Several generators may share
// a bus. Pg/Qg of out-of-service generators are never dispatched.
type Gen struct {
	Bus       int  // Hosting bus index
	InService bool // Generator status

	Pg   float64 // Dispatched active power
	Qg   float64 // Dispatched reactive power
	Qmin float64 // Reactive lower limit
	Qmax float64 // Reactive upper limit
}

// Branch is one row of the branch table. Pf/Qf and Pt/Qt are the
// complex power entering the branch at its from and to terminal.
type Branch struct {
	From      int  // From bus index
	To        int  // To bus index
	InService bool // Branch status

	Pf float64
	Qf float64
	Pt float64
	Qt float64
}

type (
	BusTable    []Bus
	GenTable    []Gen
	BranchTable []Branch
)

type Configuration struct {
	Eps float64 // Division guard for zero reactive ranges. Default: EPS
}

// Solution writes a converged power-flow solution back onto the tables.
type Solution struct {
	Config Configuration
}

// New returns a Solution ready to use. A nil config selects the defaults.
func New(config *Configuration) *Solution {
	defaultConfig := Configuration{
		Eps: EPS,
	}

	if config == nil {
		config = &defaultConfig
	}
	if config.Eps == 0 {
		config.Eps = defaultConfig.Eps
	}

	return &Solution{Config: *config}
}

// degrees converts an angle in radians to degrees.
func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
