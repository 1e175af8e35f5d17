package atomtype

import "testing"

func TestParseKindRejectsUnknown(t *testing.T) {
	if _, err := ParseKind("Xx"); err == nil {
		t.Fatal("expected error for unsupported atom type")
	}
}

func TestParseKindRoundTripsMnemonic(t *testing.T) {
	k, err := ParseKind("NA")
	if err != nil {
		t.Fatalf("ParseKind(NA): %v", err)
	}
	if k.String() != "NA" {
		t.Fatalf("String() = %q, want NA", k.String())
	}
}

func TestHydrogenClassification(t *testing.T) {
	hd, _ := ParseKind("HD")
	h, _ := ParseKind("H")
	c, _ := ParseKind("C")
	if !hd.IsHydrogen() || !hd.IsPolarHydrogen() {
		t.Fatal("HD should be a polar hydrogen")
	}
	if !h.IsHydrogen() || h.IsPolarHydrogen() {
		t.Fatal("H should be a non-polar hydrogen")
	}
	if c.IsHydrogen() || c.IsHetero() {
		t.Fatal("C should be neither hydrogen nor hetero")
	}
}

func TestIsNeighborUsesCovalentRadii(t *testing.T) {
	c, _ := ParseKind("C")
	n, _ := ParseKind("N")
	r := c.CovalentRadius() + n.CovalentRadius()
	if !IsNeighbor(c, n, r*r-0.01) {
		t.Fatal("distance just inside the covalent radii sum should be a neighbor")
	}
	if IsNeighbor(c, n, r*r+0.01) {
		t.Fatal("distance just outside the covalent radii sum should not be a neighbor")
	}
}

func TestMetalAliasesCollapseToMet(t *testing.T) {
	zn, err := ParseKind("Zn")
	if err != nil {
		t.Fatalf("ParseKind(Zn): %v", err)
	}
	if zn != KindMet {
		t.Fatalf("Zn should alias to KindMet, got %v", zn)
	}
}
