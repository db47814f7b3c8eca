package assessment

import "testing"

func TestFlagSetOperations(t *testing.T) {
	var s FlagSet
	s = s.With(FlagSmoking).With(FlagHardDrugs)

	if !s.Has(FlagSmoking) || !s.Has(FlagHardDrugs) {
		t.Fatalf("flags not set: %v", s.Names())
	}
	if s.Has(FlagNonMonogamy) {
		t.Fatalf("unexpected flag set")
	}
	if s.Count() != 2 {
		t.Fatalf("count = %d, want 2", s.Count())
	}
}

func TestFlagSetConflicts(t *testing.T) {
	a := FlagSet(0).With(FlagSmoking).With(FlagNoChildren)
	b := FlagSet(0).With(FlagSmoking)
	c := FlagSet(0).With(FlagWantsChildren)

	if !a.Conflicts(b) {
		t.Fatalf("shared smoking flag not reported as conflict")
	}
	if a.Conflicts(c) {
		t.Fatalf("disjoint sets reported as conflict")
	}
}

func TestFlagSetDiffAndUnion(t *testing.T) {
	a := FlagSet(0).With(FlagSmoking).With(FlagHardDrugs)
	b := FlagSet(0).With(FlagSmoking).With(FlagGunOwnership)

	if got := a.Diff(b).Count(); got != 2 {
		t.Fatalf("diff count = %d, want 2", got)
	}
	if got := a.Union(b).Count(); got != 3 {
		t.Fatalf("union count = %d, want 3", got)
	}
}

func TestFlagByNameRoundTrip(t *testing.T) {
	for f := Flag(0); f < flagCount; f++ {
		got, ok := FlagByName(f.String())
		if !ok || got != f {
			t.Fatalf("FlagByName(%q) = %v, %v", f.String(), got, ok)
		}
	}
	if _, ok := FlagByName("not_a_flag"); ok {
		t.Fatalf("unknown name resolved to a flag")
	}
}

func TestFlagSetSQLRoundTrip(t *testing.T) {
	orig := FlagSet(0).With(FlagSmoking).With(FlagLongDistance)

	v, err := orig.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned FlagSet
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned != orig {
		t.Fatalf("round trip = %v, want %v", scanned, orig)
	}

	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if scanned != 0 {
		t.Fatalf("Scan(nil) = %v, want empty set", scanned)
	}
}
