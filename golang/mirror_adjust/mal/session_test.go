package mal

import (
	"testing"
)

func TestSessionReusesFitForUnchangedSettings(t *testing.T) {
	bank := smoothBank(2, 2, 8, 8)
	session := &Session{
		Ifuncs: bank,
		Displ:  applyCoeffs(bank, []float64{1, -1, 2, 0.5}),
		NSS:    1,
	}

	first, err := session.Fit()
	if err != nil {
		t.Fatalf("first fit failed: %v", err)
	}
	second, err := session.Fit()
	if err != nil {
		t.Fatalf("second fit failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached adjustment for unchanged settings")
	}

	session.NSS = 2
	third, err := session.Fit()
	if err != nil {
		t.Fatalf("fit after settings change failed: %v", err)
	}
	if third == first {
		t.Fatalf("expected a fresh fit after the stride changed")
	}
}

func TestSessionLegendreDisplLoadsOnce(t *testing.T) {
	session := &Session{Ifuncs: smoothBank(2, 2, 8, 8)}

	if err := session.UseLegendreDispl(2, 0, 1.0); err != nil {
		t.Fatalf("UseLegendreDispl failed: %v", err)
	}
	held := session.Displ
	if held == nil {
		t.Fatalf("expected a generated displacement")
	}

	if err := session.UseLegendreDispl(4, 2, 3.0); err != nil {
		t.Fatalf("second UseLegendreDispl failed: %v", err)
	}
	if session.Displ != held {
		t.Fatalf("expected the held displacement to survive a repeated load")
	}
}

func TestSessionFitWithoutInputs(t *testing.T) {
	session := &Session{NSS: 1}
	if _, err := session.Fit(); err == nil {
		t.Fatalf("expected an error for a fit without influence functions")
	}

	session.Ifuncs = smoothBank(2, 2, 8, 8)
	if _, err := session.Fit(); err == nil {
		t.Fatalf("expected an error for a fit without a displacement")
	}

	if err := session.UseLegendreDispl(2, 0, 1.0); err != nil {
		t.Fatalf("UseLegendreDispl failed: %v", err)
	}
	if _, err := session.Fit(); err != nil {
		t.Fatalf("fit with complete inputs failed: %v", err)
	}
}

func TestSessionLegendreDisplNeedsIfuncs(t *testing.T) {
	session := &Session{}
	if err := session.UseLegendreDispl(2, 0, 1.0); err == nil {
		t.Fatalf("expected an error when no bank sizes the displacement")
	}
}
