package mal

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

func TestLegendreP(t *testing.T) {
	cases := []struct {
		n    int
		x    float64
		want float64
	}{
		{0, 0.3, 1.0},
		{1, 0.3, 0.3},
		{2, 0.5, -0.125},      // (3x^2 - 1)/2
		{3, 0.5, -0.4375},     // (5x^3 - 3x)/2
		{4, 1.0, 1.0},         // P_n(1) = 1
		{5, -1.0, -1.0},       // P_n(-1) = (-1)^n
		{8, 0.0, 0.2734375},   // 35/128
	}
	for _, cs := range cases {
		if got := LegendreP(cs.n, cs.x); math.Abs(got-cs.want) > 1e-12 {
			t.Fatalf("P_%d(%g)=%g, expected %g", cs.n, cs.x, got, cs.want)
		}
	}
}

func TestLegendreDisplShapeAndRms(t *testing.T) {
	bank := NewIfuncsBank(2, 2, 6, 8)
	displ := LegendreDispl(bank, 2, 4, 5.0)

	nAx, nAz := displ.Dims()
	if nAx != 6 || nAz != 8 {
		t.Fatalf("expected a 6x8 displacement, got %dx%d", nAx, nAz)
	}
	if got := Stddev(displ); math.Abs(got-5.0) > 1e-12 {
		t.Fatalf("expected rms 5.0 after rescaling, got %g", got)
	}
}

//Order zero along both axes makes (1 - P_0) vanish identically, so the
//generated displacement must be the zero map and rms rescaling must leave
//it untouched rather than dividing by zero.
func TestLegendreDisplZeroOrders(t *testing.T) {
	bank := NewIfuncsBank(2, 2, 5, 5)
	displ := LegendreDispl(bank, 0, 0, 3.0)

	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			if displ.At(x, y) != 0 {
				t.Fatalf("expected a zero map for order (0,0), got %g at (%d,%d)", displ.At(x, y), x, y)
			}
		}
	}
}

func TestReadDisplGrav(t *testing.T) {
	src := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})

	fileName := filepath.Join(t.TempDir(), "grav.npy")
	f, err := os.Create(fileName)
	if err != nil {
		t.Fatalf("failed to create npy fixture: %v", err)
	}
	if err := npyio.Write(f, src); err != nil {
		t.Fatalf("failed to write npy fixture: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close npy fixture: %v", err)
	}

	displ, err := ReadDisplGrav(fileName, 0)
	if err != nil {
		t.Fatalf("ReadDisplGrav failed: %v", err)
	}
	nAx, nAz := displ.Dims()
	if nAx != 3 || nAz != 4 {
		t.Fatalf("expected a 3x4 map, got %dx%d", nAx, nAz)
	}
	if got := displ.At(1, 2); math.Abs(got-7*Rad2Arcsec) > 1e-9*Rad2Arcsec {
		t.Fatalf("expected %g at (1,2), got %g", 7*Rad2Arcsec, got)
	}

	scaled, err := ReadDisplGrav(fileName, 2.0)
	if err != nil {
		t.Fatalf("ReadDisplGrav with rms failed: %v", err)
	}
	if got := Stddev(scaled); math.Abs(got-2.0) > 1e-12 {
		t.Fatalf("expected rms 2.0 after rescaling, got %g", got)
	}
}
