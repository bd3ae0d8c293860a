package pfsoln

import (
	"fmt"
	"math/cmplx"
)

// updateFlows computes the complex power entering every branch at its
// from and to terminals. Out-of-service branches must have been
// filtered by the caller; finding one here aborts the whole call
// before any flow is written.
func updateFlows(baseMVA float64, branch BranchTable, yf, yt Operator, v []complex128) error {
	for i := range branch {
		if !branch[i].InService {
			return fmt.Errorf("branch %d (%d-%d) is out of service: filter the branch table before updating flows",
				i, branch[i].From, branch[i].To)
		}
	}

	base := complex(baseMVA, 0)
	for i := range branch {
		sf := v[branch[i].From] * cmplx.Conj(yf.RowDot(i, v)) * base
		st := v[branch[i].To] * cmplx.Conj(yt.RowDot(i, v)) * base

		branch[i].Pf = real(sf)
		branch[i].Qf = imag(sf)
		branch[i].Pt = real(st)
		branch[i].Qt = imag(st)
	}

	return nil
}

// Losses returns the complex series loss Sf+St of every branch, in the
// same units as the solved flows.
func (b BranchTable) Losses() []complex128 {
	losses := make([]complex128, len(b))
	for i := range b {
		losses[i] = complex(b[i].Pf+b[i].Pt, b[i].Qf+b[i].Qt)
	}
	return losses
}
