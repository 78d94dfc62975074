package mal

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

//Session keeps the expensive inputs of repeated fits alive during
//interactive experimentation. It replaces the lazily initialized globals of
//the original interactive driver with an explicit object: each loader is a
//no-op when its input is already held, and Fit reuses the previous result as
//long as the settings did not change. A zero Session is ready to use.
type Session struct {
	Ifuncs *IfuncsBank
	Displ  *mat.Dense

	NSS  int
	Clip int

	lastNSS  int
	lastClip int
	last     *Adjustment
}

//LoadIfuncs reads the quarter bank from fileName unless a bank is held
//already.
func (s *Session) LoadIfuncs(fileName string) error {
	if s.Ifuncs != nil {
		return nil
	}
	bank, err := ReadIfuncs(fileName)
	if err != nil {
		return err
	}
	s.Ifuncs = bank
	return nil
}

//LoadDisplGrav reads a displacement map from fileName unless one is held
//already.
func (s *Session) LoadDisplGrav(fileName string, rms float64) error {
	if s.Displ != nil {
		return nil
	}
	displ, err := ReadDisplGrav(fileName, rms)
	if err != nil {
		return err
	}
	s.Displ = displ
	return nil
}

//UseLegendreDispl generates a synthetic displacement from Legendre
//polynomial orders unless one is held already.
func (s *Session) UseLegendreDispl(ordAx, ordAz int, rms float64) error {
	if s.Displ != nil {
		return nil
	}
	if s.Ifuncs == nil {
		return errors.New("session holds no influence functions to size the displacement from")
	}
	s.Displ = LegendreDispl(s.Ifuncs, ordAx, ordAz, rms)
	return nil
}

//Fit runs the least-squares fit for the held inputs, reusing the previous
//result when NSS and Clip did not change since the last call.
func (s *Session) Fit() (*Adjustment, error) {
	if s.Ifuncs == nil {
		return nil, errors.New("session holds no influence functions")
	}
	if s.Displ == nil {
		return nil, errors.New("session holds no displacement map")
	}
	if s.last != nil && s.lastNSS == s.NSS && s.lastClip == s.Clip {
		return s.last, nil
	}

	adjustment, err := CalcAdj(s.Ifuncs, s.Displ, s.NSS, s.Clip)
	if err != nil {
		return nil, err
	}
	s.last, s.lastNSS, s.lastClip = adjustment, s.NSS, s.Clip
	return adjustment, nil
}
