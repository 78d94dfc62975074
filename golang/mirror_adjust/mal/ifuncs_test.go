package mal

import (
	"testing"
)

func TestExpandQuadrantsDims(t *testing.T) {
	quarter := NewIfuncsBank(2, 3, 4, 5)
	full := ExpandQuadrants(quarter)

	nRow, nCol, nAx, nAz := full.Dims()
	if nRow != 4 || nCol != 6 || nAx != 4 || nAz != 5 {
		t.Fatalf("expected a (4,6,4,5) bank, got (%d,%d,%d,%d)", nRow, nCol, nAx, nAz)
	}
}

//The expanded bank must place each reflected actuator in the complementary
//index range with its surface reflected along the matching axes.
func TestExpandQuadrantsMirrorCorrespondence(t *testing.T) {
	const hr, hc, nAx, nAz = 2, 3, 4, 5
	quarter := NewIfuncsBank(hr, hc, nAx, nAz)
	for r := 0; r < hr; r++ {
		for c := 0; c < hc; c++ {
			for x := 0; x < nAx; x++ {
				for y := 0; y < nAz; y++ {
					quarter.SetAt(float64(r*1000+c*100+x*10+y), r, c, x, y)
				}
			}
		}
	}

	full := ExpandQuadrants(quarter)

	for r := 0; r < hr; r++ {
		for c := 0; c < hc; c++ {
			for x := 0; x < nAx; x++ {
				for y := 0; y < nAz; y++ {
					v := quarter.At(r, c, x, y)

					if got := full.At(r, c, x, y); got != v {
						t.Fatalf("original quadrant changed at (%d,%d,%d,%d): %g vs %g", r, c, x, y, got, v)
					}
					if got := full.At(2*hr-1-r, c, nAx-1-x, y); got != v {
						t.Fatalf("axial mirror wrong at (%d,%d,%d,%d): %g vs %g", r, c, x, y, got, v)
					}
					if got := full.At(r, 2*hc-1-c, x, nAz-1-y); got != v {
						t.Fatalf("azimuthal mirror wrong at (%d,%d,%d,%d): %g vs %g", r, c, x, y, got, v)
					}
					if got := full.At(2*hr-1-r, 2*hc-1-c, nAx-1-x, nAz-1-y); got != v {
						t.Fatalf("double mirror wrong at (%d,%d,%d,%d): %g vs %g", r, c, x, y, got, v)
					}
				}
			}
		}
	}
}

func TestBankScale(t *testing.T) {
	bank := NewIfuncsBank(1, 1, 2, 2)
	bank.SetAt(3.0, 0, 0, 1, 1)
	bank.Scale(2.0)

	if got := bank.At(0, 0, 1, 1); got != 6.0 {
		t.Fatalf("expected 6 after scaling, got %g", got)
	}
	if got := bank.At(0, 0, 0, 0); got != 0.0 {
		t.Fatalf("expected 0 to stay 0 after scaling, got %g", got)
	}
}
