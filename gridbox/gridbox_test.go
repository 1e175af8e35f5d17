package gridbox

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/HongjianLi/idock/atomtype"
	"github.com/HongjianLi/idock/spatial"
)

func TestBoxWithinHalfOpen(t *testing.T) {
	b := NewBox(spatial.Vec3{0, 0, 0}, spatial.Vec3{10, 10, 10}, 0.5)
	if !b.Within(spatial.Vec3{0, 0, 0}) {
		t.Fatal("corner0 should be within the box")
	}
	if b.Within(spatial.Vec3{10, 5, 5}) {
		t.Fatal("corner1 boundary should not be within the half-open box")
	}
	if b.Within(spatial.Vec3{-0.01, 5, 5}) {
		t.Fatal("point below corner0 should not be within the box")
	}
}

func TestGridIndexFloors(t *testing.T) {
	b := NewBox(spatial.Vec3{0, 0, 0}, spatial.Vec3{10, 10, 10}, 0.5)
	idx := b.GridIndex(spatial.Vec3{1.24, 0, 0})
	if idx[0] != 2 {
		t.Fatalf("GridIndex[0] = %d, want 2", idx[0])
	}
}

func writeTestMap(t *testing.T, tag uint8, nx, ny, nz int, values []float64) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, tag); err != nil {
		t.Fatal(err)
	}
	dims := [3]uint32{uint32(nx), uint32(ny), uint32(nz)}
	if err := binary.Write(&buf, binary.LittleEndian, dims); err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, values); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadRoundTripsAndSamples(t *testing.T) {
	values := make([]float64, 3*3*3)
	for i := range values {
		values[i] = float64(i)
	}
	raw := writeTestMap(t, uint8(atomtype.XSCHydrophobic), 3, 3, 3, values)
	maps, err := Load(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gm, ok := maps[atomtype.XSCHydrophobic]
	if !ok {
		t.Fatal("expected XSCHydrophobic map to be present")
	}
	e000, deriv := gm.Sample([3]int{0, 0, 0}, 2.0)
	if e000 != 0 {
		t.Fatalf("e000 = %v, want 0", e000)
	}
	// values[1] - values[0] = 1, times granularityInverse 2.0 = 2.0
	if deriv[0] != 2.0 {
		t.Fatalf("dx = %v, want 2.0", deriv[0])
	}
}

func TestLoadZeroMapsOnEmptyInput(t *testing.T) {
	maps, err := Load(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Load on empty input: %v", err)
	}
	if len(maps) != 0 {
		t.Fatalf("expected no maps, got %d", len(maps))
	}
}
