package mal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//DefaultRcond is the relative conditioning cutoff for the pseudo-inverse:
//a singular value below DefaultRcond * max(rows, cols) * sMax is treated as
//exactly zero instead of being inverted.
const DefaultRcond = 1e-12

//Adjustment is the result of one least-squares fit of driving coefficients
//to a displacement map.
type Adjustment struct {
	NRow, NCol int        // actuator grid
	NAx, NAz   int        // surface grid of the reconstruction (after clipping)
	Coeffs     []float64  // driving coefficients, actuator index = r*NCol + c
	Adj        *mat.Dense // best adjustment over the NAx x NAz grid
	MFull      *mat.Dense // (NAx*NAz) x (NRow*NCol) influence matrix used for reconstruction
}

//CalcAdj calculates the best least-squares set of driving coefficients to
//adjust for the displacement displ given the influence functions in bank and
//the sub-sampling stride nSS. A positive clip trims that many cells from
//each boundary of both inputs before fitting, excluding edge-distorted
//responses.
//
//The adjustment and the returned influence matrix live on the clipped grid;
//callers comparing against the input displacement must trim it by the same
//margin (MakePlots does).
//
//Coefficient index a corresponds to the actuator in row a/NCol, column
//a%NCol; the same enumeration orders the columns of MFull.
func CalcAdj(bank *IfuncsBank, displ *mat.Dense, nSS, clip int) (*Adjustment, error) {
	nRow, nCol, nAx, nAz := bank.Dims()
	dAx, dAz := displ.Dims()
	if dAx != nAx || dAz != nAz {
		return nil, ShapeMismatchError{BankAx: nAx, BankAz: nAz, DisplAx: dAx, DisplAz: dAz}
	}
	if clip < 0 || 2*clip >= nAx || 2*clip >= nAz {
		return nil, InvalidClipError{Clip: clip, NAx: nAx, NAz: nAz}
	}
	cAx, cAz := nAx-2*clip, nAz-2*clip
	if nSS < 1 || nSS > cAx || nSS > cAz {
		return nil, InvalidStrideError{Stride: nSS, NAx: cAx, NAz: cAz}
	}

	nAct := nRow * nCol

	// Influence functions over the clipped grid, one flattened surface per
	// actuator, transposed so that columns correspond to actuators. The
	// surface flattens with the axial index varying slower, and the same
	// order is used for the sample rows and the reconstruction below.
	mFull := mat.NewDense(cAx*cAz, nAct, nil)
	for r := 0; r < nRow; r++ {
		for c := 0; c < nCol; c++ {
			a := r*nCol + c
			for x := 0; x < cAx; x++ {
				for y := 0; y < cAz; y++ {
					mFull.Set(x*cAz+y, a, bank.At(r, c, clip+x, clip+y))
				}
			}
		}
	}

	// Sub-sample every nSS-th cell along each axis, starting at the corner.
	iSS := collect(NewRange(0, cAx, nSS))
	jSS := collect(NewRange(0, cAz, nSS))
	k := len(iSS) * len(jSS)

	sysM := mat.NewDense(k, nAct, nil)
	d := mat.NewVecDense(k, nil)
	for pi, x := range iSS {
		for pj, y := range jSS {
			p := pi*len(jSS) + pj
			d.SetVec(p, displ.At(clip+x, clip+y))
			for a := 0; a < nAct; a++ {
				sysM.Set(p, a, mFull.At(x*cAz+y, a))
			}
		}
	}

	coeffs, err := pinvSolve(sysM, d)
	if err != nil {
		return nil, err
	}

	adjFlat := mat.NewVecDense(cAx*cAz, nil)
	adjFlat.MulVec(mFull, coeffs)
	adj := mat.NewDense(cAx, cAz, nil)
	for x := 0; x < cAx; x++ {
		for y := 0; y < cAz; y++ {
			adj.Set(x, y, adjFlat.AtVec(x*cAz+y))
		}
	}

	out := make([]float64, nAct)
	copy(out, coeffs.RawVector().Data)

	return &Adjustment{
		NRow:   nRow,
		NCol:   nCol,
		NAx:    cAx,
		NAz:    cAz,
		Coeffs: out,
		Adj:    adj,
		MFull:  mFull,
	}, nil
}

//Reconstruct applies an alternative coefficient vector to the stored
//influence matrix, without repeating the decomposition.
func (adjustment *Adjustment) Reconstruct(coeffs []float64) (*mat.Dense, error) {
	nAct := adjustment.NRow * adjustment.NCol
	if len(coeffs) != nAct {
		return nil, fmt.Errorf("want %d coefficients for a %dx%d actuator grid, got %d",
			nAct, adjustment.NRow, adjustment.NCol, len(coeffs))
	}

	flat := mat.NewVecDense(adjustment.NAx*adjustment.NAz, nil)
	flat.MulVec(adjustment.MFull, mat.NewVecDense(nAct, coeffs))

	out := mat.NewDense(adjustment.NAx, adjustment.NAz, nil)
	for x := 0; x < adjustment.NAx; x++ {
		for y := 0; y < adjustment.NAz; y++ {
			out.Set(x, y, flat.AtVec(x*adjustment.NAz+y))
		}
	}
	return out, nil
}

//pinvSolve solves m*x ~= d in the least-squares sense through the
//pseudo-inverse of a thin SVD. Singular values below the relative cutoff
//are zeroed rather than inverted, so a rank-deficient system yields the
//minimum-norm solution over the usable directions instead of blowing up.
func pinvSolve(m *mat.Dense, d *mat.VecDense) (*mat.VecDense, error) {
	rows, cols := m.Dims()

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return nil, errors.New("svd of the system matrix did not converge")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	sMax := s[0]
	cutoff := DefaultRcond * math.Max(float64(rows), float64(cols)) * sMax
	sInv := mat.NewDiagDense(len(s), nil)
	usable := 0
	for i, si := range s {
		if si > cutoff && si > 0 {
			sInv.SetDiag(i, 1/si)
			usable++
		}
	}
	if usable == 0 {
		return nil, SingularSystemError{Largest: sMax}
	}

	// mInv = V * diag(1/s) * U^T
	var vs, mInv mat.Dense
	vs.Mul(&v, sInv)
	mInv.Mul(&vs, u.T())

	coeffs := mat.NewVecDense(cols, nil)
	coeffs.MulVec(&mInv, d)
	return coeffs, nil
}

func collect(r *Range) []int {
	out := make([]int, 0, r.Len())
	for r.HasNext() {
		out = append(out, r.GetNext())
	}
	return out
}
