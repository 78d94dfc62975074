package mal

import (
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gorgonia.org/tensor"
)

//Rad2Arcsec converts small angles from radians to arcseconds for better scale.
const Rad2Arcsec = 206000.0

//IfuncsBank holds the influence functions for a rectangular grid of
//actuators: element (r, c, x, y) is the surface deformation at grid cell
//(x, y) produced by a unit command to the actuator in row r, column c.
//All actuators share one axial x azimuthal surface grid.
type IfuncsBank struct {
	data *tensor.Dense
}

//NewIfuncsBank allocates a zero bank for nRow x nCol actuators over an
//nAx x nAz surface grid.
func NewIfuncsBank(nRow, nCol, nAx, nAz int) *IfuncsBank {
	return &IfuncsBank{tensor.New(tensor.WithShape(nRow, nCol, nAx, nAz), tensor.Of(tensor.Float64))}
}

//Dims returns the actuator grid and the surface grid dimensions.
func (bank *IfuncsBank) Dims() (nRow, nCol, nAx, nAz int) {
	s := bank.data.Shape()
	return s[0], s[1], s[2], s[3]
}

//At returns the deformation at surface cell (x, y) caused by the actuator
//in row r, column c.
func (bank *IfuncsBank) At(r, c, x, y int) float64 {
	v, err := bank.data.At(r, c, x, y)
	HandleError(err)
	return v.(float64)
}

//SetAt stores one element of the bank.
func (bank *IfuncsBank) SetAt(v float64, r, c, x, y int) {
	HandleError(bank.data.SetAt(v, r, c, x, y))
}

//Scale multiplies every element of the bank in place.
func (bank *IfuncsBank) Scale(f float64) {
	raw := bank.data.Data().([]float64)
	for i := range raw {
		raw[i] *= f
	}
}

//ExpandQuadrants builds the full bank from the stored quarter by mirror
//symmetry. A reflected actuator occupies the complementary index range and
//its surface response is reflected along the matching spatial axes, so the
//expansion keeps the actuator/surface correspondence intact.
func ExpandQuadrants(quarter *IfuncsBank) *IfuncsBank {
	hr, hc, nAx, nAz := quarter.Dims()
	full := NewIfuncsBank(2*hr, 2*hc, nAx, nAz)

	for r := 0; r < hr; r++ {
		for c := 0; c < hc; c++ {
			for x := 0; x < nAx; x++ {
				for y := 0; y < nAz; y++ {
					v := quarter.At(r, c, x, y)
					full.SetAt(v, r, c, x, y)
					full.SetAt(v, 2*hr-1-r, c, nAx-1-x, y)
					full.SetAt(v, r, 2*hc-1-c, x, nAz-1-y)
					full.SetAt(v, 2*hr-1-r, 2*hc-1-c, nAx-1-x, nAz-1-y)
				}
			}
		}
	}

	return full
}

//ReadIfuncs reads a stored quarter bank from an npy file, converts it to
//arcseconds and expands it to the full actuator grid.
func ReadIfuncs(fileName string) (*IfuncsBank, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, err
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 4 {
		return nil, fmt.Errorf("influence-function file %q holds a %d-d array, want 4-d", fileName, len(shape))
	}

	var raw []float64
	if err := r.Read(&raw); err != nil {
		return nil, err
	}
	for i := range raw {
		raw[i] *= Rad2Arcsec
	}

	quarter := &IfuncsBank{tensor.New(tensor.WithShape(shape...), tensor.WithBacking(raw))}
	return ExpandQuadrants(quarter), nil
}
