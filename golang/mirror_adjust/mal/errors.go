package mal

import (
	"fmt"
	"log"
)

//ShapeMismatchError reports a displacement map whose surface grid does not
//match the grid of the influence-function bank.
type ShapeMismatchError struct {
	BankAx, BankAz   int
	DisplAx, DisplAz int
}

func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("displacement grid %dx%d does not match the influence-function grid %dx%d",
		e.DisplAx, e.DisplAz, e.BankAx, e.BankAz)
}

//InvalidClipError reports a clip margin that leaves no interior on the grid.
type InvalidClipError struct {
	Clip     int
	NAx, NAz int
}

func (e InvalidClipError) Error() string {
	return fmt.Sprintf("clip margin %d leaves no interior on a %dx%d grid", e.Clip, e.NAx, e.NAz)
}

//InvalidStrideError reports a sub-sampling stride that is not positive or
//that exceeds the extent of the clipped grid.
type InvalidStrideError struct {
	Stride   int
	NAx, NAz int
}

func (e InvalidStrideError) Error() string {
	return fmt.Sprintf("sub-sampling stride %d is not usable on a %dx%d grid", e.Stride, e.NAx, e.NAz)
}

//SingularSystemError reports a system matrix with no usable rank: every
//singular value fell below the conditioning cutoff.
type SingularSystemError struct {
	Largest float64
}

func (e SingularSystemError) Error() string {
	return fmt.Sprintf("system matrix has no usable rank (largest singular value %g)", e.Largest)
}

//HandleError interrupts the execution in the case of an error.
func HandleError(err error) {
	if err != nil {
		log.Panic(err)
	}
}
