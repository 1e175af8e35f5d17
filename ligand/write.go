package ligand

import (
	"bufio"
	"fmt"
	"io"

	"github.com/HongjianLi/idock/spatial"
)

// WriteConformation re-emits this ligand's PDBQT lines to w, wrapped in a
// MODEL/ENDMDL block carrying modelIndex and the pose's free energy e, with
// each ATOM/HETATM coordinate replaced by the corresponding world
// coordinate from heavyCoords/hydroCoords, in the exact atom order Parse
// read them. Lines that carry no coordinate (ROOT, BRANCH, TORSDOF, ...)
// pass through unchanged, following the fixed-width %8.3f column
// convention gochem's PdbWrite uses for PDB ATOM records.
func (l *Ligand) WriteConformation(w io.Writer, modelIndex int, e float64, heavyCoords, hydroCoords []spatial.Vec3) error {
	if len(heavyCoords) != len(l.HeavyAtoms) {
		return fmt.Errorf("ligand: WriteConformation: %d heavy atom coordinates, want %d", len(heavyCoords), len(l.HeavyAtoms))
	}
	if len(hydroCoords) != len(l.Hydrogens) {
		return fmt.Errorf("ligand: WriteConformation: %d hydrogen coordinates, want %d", len(hydroCoords), len(l.Hydrogens))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "MODEL%9d\n", modelIndex)
	fmt.Fprintf(bw, "REMARK     FREE ENERGY PREDICTED BY IDOCK:%9.2f KCAL/MOL\n", e)
	for i, ref := range l.lineRefs {
		line := l.lines[i]
		switch ref.kind {
		case lineHeavyAtom:
			line = spliceCoordinate(line, heavyCoords[ref.idx])
		case lineHydrogen:
			line = spliceCoordinate(line, hydroCoords[ref.idx])
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("ENDMDL\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// spliceCoordinate overwrites the x/y/z fields at PDBQT columns 31-54 with
// c, preserving every other column of line verbatim.
func spliceCoordinate(line string, c spatial.Vec3) string {
	if len(line) < 54 {
		return line
	}
	return line[:30] + fmt.Sprintf("%8.3f%8.3f%8.3f", c[0], c[1], c[2]) + line[54:]
}
