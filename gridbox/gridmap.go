package gridbox

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/HongjianLi/idock/atomtype"
)

// GridMap is a single atom-type's uniformly spaced 3D scalar field, sampled
// at grid corners (spec.md §3 "Grid map").
type GridMap struct {
	NumGrids [3]int
	Values   []float64 // flat, x-fastest: idx = x + nx*(y + ny*z)
}

func (g *GridMap) at(x, y, z int) float64 {
	return g.Values[x+g.NumGrids[0]*(y+g.NumGrids[1]*z)]
}

// Sample reads the grid corner at idx and its three forward neighbors,
// returning e000 and the (dx,dy,dz) forward-difference derivative scaled by
// granularityInverse, per spec.md §4.3.
func (g *GridMap) Sample(idx [3]int, granularityInverse float64) (e000 float64, derivative [3]float64) {
	x, y, z := idx[0], idx[1], idx[2]
	e000 = g.at(x, y, z)
	e100 := g.at(x+1, y, z)
	e010 := g.at(x, y+1, z)
	e001 := g.at(x, y, z+1)
	derivative[0] = (e100 - e000) * granularityInverse
	derivative[1] = (e010 - e000) * granularityInverse
	derivative[2] = (e001 - e000) * granularityInverse
	return e000, derivative
}

// Maps is the array-of-3D-grids keyed by XScore type that the evaluator
// looks up per heavy atom (spec.md §3 "Grid map").
type Maps map[atomtype.XS]*GridMap

// Load reads a simple length-prefixed binary grid-map bundle: for each
// entry, a uint8 XS type tag, three uint32 grid dimensions, then that many
// little-endian float64 values. This module does not construct grid maps
// (spec.md §1 places that out of scope); Load exists only so the evaluator
// and its tests have a concrete, round-trippable representation to read.
func Load(r io.Reader) (Maps, error) {
	maps := make(Maps)
	for {
		var tag uint8
		if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
			if err == io.EOF {
				return maps, nil
			}
			return nil, fmt.Errorf("gridbox: reading map tag: %w", err)
		}
		var dims [3]uint32
		if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
			return nil, fmt.Errorf("gridbox: reading map dims: %w", err)
		}
		n := int(dims[0]) * int(dims[1]) * int(dims[2])
		values := make([]float64, n)
		if err := binary.Read(r, binary.LittleEndian, &values); err != nil {
			return nil, fmt.Errorf("gridbox: reading map values: %w", err)
		}
		maps[atomtype.XS(tag)] = &GridMap{
			NumGrids: [3]int{int(dims[0]), int(dims[1]), int(dims[2])},
			Values:   values,
		}
	}
}
