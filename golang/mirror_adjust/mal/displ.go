package mal

import (
	"math"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//ReadDisplGrav loads a gravity-induced displacement map from an npy file and
//converts it to arcseconds. A positive rms rescales the map to that
//root-mean-square amplitude.
func ReadDisplGrav(fileName string, rms float64) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, err
	}

	displ := &mat.Dense{}
	if err := r.Read(displ); err != nil {
		return nil, err
	}
	displ.Scale(Rad2Arcsec, displ)

	if rms > 0 {
		scaleToRms(displ, rms)
	}
	return displ, nil
}

//LegendreDispl builds a synthetic test displacement on the surface grid of
//bank from a pair of Legendre polynomial orders, one per surface axis. The
//product (1 - P_ordAx(y)) * (1 - P_ordAz(x)) is evaluated on a grid one row
//taller than the axial extent and differenced between adjacent rows, which
//turns the surface figure into a slope-like displacement. A positive rms
//rescales the result to that root-mean-square amplitude.
func LegendreDispl(bank *IfuncsBank, ordAx, ordAz int, rms float64) *mat.Dense {
	_, _, nAx, nAz := bank.Dims()
	x := linspace(-1, 1, nAz)
	y := linspace(-1, 1, nAx+1)

	displ := mat.NewDense(nAx, nAz, nil)
	prev := make([]float64, nAz)
	row := make([]float64, nAz)
	for i := 0; i <= nAx; i++ {
		fy := 1 - LegendreP(ordAx, y[i])
		for j := 0; j < nAz; j++ {
			row[j] = fy * (1 - LegendreP(ordAz, x[j]))
		}
		if i > 0 {
			for j := 0; j < nAz; j++ {
				displ.Set(i-1, j, row[j]-prev[j])
			}
		}
		copy(prev, row)
	}

	if rms > 0 {
		scaleToRms(displ, rms)
	}
	return displ
}

//LegendreP evaluates the Legendre polynomial P_n at x with the Bonnet
//three-term recurrence.
func LegendreP(n int, x float64) float64 {
	if n == 0 {
		return 1
	}
	pPrev, p := 1.0, x
	for k := 2; k <= n; k++ {
		pPrev, p = p, (float64(2*k-1)*x*p-float64(k-1)*pPrev)/float64(k)
	}
	return p
}

//Stddev returns the population standard deviation over all elements of m.
func Stddev(m mat.Matrix) float64 {
	rows, cols := m.Dims()
	n := float64(rows * cols)
	mean := mat.Sum(m) / n

	ss := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := m.At(i, j) - mean
			ss += d * d
		}
	}
	return math.Sqrt(ss / n)
}

//scaleToRms rescales m in place to the given root-mean-square amplitude.
//A constant map is left untouched.
func scaleToRms(m *mat.Dense, rms float64) {
	std := Stddev(m)
	if std == 0 {
		return
	}
	m.Scale(rms/std, m)
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}
