package ligand

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/HongjianLi/idock/atomtype"
	"github.com/HongjianLi/idock/spatial"
)

// column extracts the 1-indexed, inclusive column range [a,b] of line,
// trimmed of surrounding whitespace, clipping to whatever the line
// actually has. PDBQT fields are fixed-width and right-justified, the same
// convention gochem's PDB reader uses for ATOM records.
func column(line string, a, b int) string {
	if a < 1 {
		a = 1
	}
	start := a - 1
	if start >= len(line) {
		return ""
	}
	if b > len(line) {
		b = len(line)
	}
	return strings.TrimSpace(line[start:b])
}

func columnFloat(line string, a, b int, perr func(string, ...any) *ParseError) (float64, error) {
	s := column(line, a, b)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, perr("cannot parse %q as a coordinate", s)
	}
	return v, nil
}

func columnInt(line string, a, b int, perr func(string, ...any) *ParseError) (int, error) {
	s := column(line, a, b)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, perr("cannot parse %q as an integer", s)
	}
	return v, nil
}

// ParseFile opens path and parses it as a PDBQT ligand.
func ParseFile(path string) (*Ligand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ligand: opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a PDBQT ligand from r, building its kinematic tree of Frames,
// heavy atoms, hydrogens and interacting pairs (spec.md §4.1). path is used
// only to annotate any ParseError and may be empty.
func Parse(r io.Reader, path string) (*Ligand, error) {
	l := &Ligand{
		Frames: []Frame{newFrame(0, 0, 0, 0)},
	}
	l.Frames[0].RotorY = 0

	var numbers []int // heavy-atom serial numbers, parallel to HeavyAtoms
	current := 0
	lineNo := 0
	perr := func(format string, args ...any) *ParseError {
		return newParseError(path, lineNo, format, args...)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 4096)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			l.lines = append(l.lines, line)

			adString := column(line, 78, 79)
			kind, err := atomtype.ParseKind(adString)
			if err != nil {
				return nil, perr("atom type %q is not supported", adString)
			}

			x, err := columnFloat(line, 31, 38, perr)
			if err != nil {
				return nil, err
			}
			y, err := columnFloat(line, 39, 46, perr)
			if err != nil {
				return nil, err
			}
			z, err := columnFloat(line, 47, 54, perr)
			if err != nil {
				return nil, err
			}
			a := newAtom(kind, spatial.Vec3{x, y, z})

			f := &l.Frames[current]
			if a.IsHydrogen() {
				if kind.IsPolarHydrogen() {
					for i := len(l.HeavyAtoms); i > f.HaBegin; {
						i--
						if !l.HeavyAtoms[i].IsHetero() {
							continue
						}
						if a.IsNeighbor(l.HeavyAtoms[i]) {
							l.HeavyAtoms[i].donorize()
							break
						}
					}
				}
				l.lineRefs = append(l.lineRefs, lineRef{lineHydrogen, len(l.Hydrogens)})
				l.Hydrogens = append(l.Hydrogens, a)
			} else {
				serial, err := columnInt(line, 7, 11, perr)
				if err != nil {
					return nil, err
				}
				a.Serial = serial
				l.lineRefs = append(l.lineRefs, lineRef{lineHeavyAtom, len(l.HeavyAtoms)})
				numbers = append(numbers, serial)
				l.HeavyAtoms = append(l.HeavyAtoms, a)
			}

		case strings.HasPrefix(line, "ENDBRANCH"):
			l.lines = append(l.lines, line)
			l.lineRefs = append(l.lineRefs, lineRef{lineOther, 0})

			f := &l.Frames[current]
			if f.HaBegin == len(l.HeavyAtoms) {
				return nil, perr("an empty BRANCH has been detected, indicating the input ligand structure is probably invalid")
			}

			y, err := columnInt(line, 14, 17, perr)
			if err != nil {
				return nil, err
			}
			for i := f.HaBegin; ; i++ {
				if numbers[i] == y {
					f.RotorY = i
					break
				}
			}

			// A frame is only reducible to an inactive torsion when it has
			// no children of its own (it is still the most-recently
			// created frame) and consists of rotor Y alone, e.g. -OH or
			// -NH2, since a child BRANCH would have already closed
			// f.HaEnd at its own opening.
			if current == len(l.Frames)-1 && f.HaBegin+1 == len(l.HeavyAtoms) {
				f.Active = false
			} else {
				l.numActiveTorsions++
			}

			current = l.Frames[current].Parent

		case strings.HasPrefix(line, "BRANCH"):
			l.lines = append(l.lines, line)
			l.lineRefs = append(l.lineRefs, lineRef{lineOther, 0})

			x, err := columnInt(line, 7, 10, perr)
			if err != nil {
				return nil, err
			}
			f := &l.Frames[current]
			var rotorX int
			for i := f.HaBegin; ; i++ {
				if numbers[i] == x {
					rotorX = i
					break
				}
			}

			prev := len(l.Frames) - 1
			l.Frames = append(l.Frames, newFrame(current, rotorX, len(l.HeavyAtoms), len(l.Hydrogens)))
			current = len(l.Frames) - 1
			l.Frames[prev].HaEnd = l.Frames[current].HaBegin
			l.Frames[prev].HyEnd = l.Frames[current].HyBegin

		case strings.HasPrefix(line, "ROOT") || strings.HasPrefix(line, "ENDROOT") || strings.HasPrefix(line, "TORSDOF"):
			l.lines = append(l.lines, line)
			l.lineRefs = append(l.lineRefs, lineRef{lineOther, 0})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, perr("reading ligand: %v", err)
	}

	last := len(l.Frames) - 1
	l.Frames[last].HaEnd = len(l.HeavyAtoms)
	l.Frames[last].HyEnd = len(l.Hydrogens)

	dehydrophobicize(l.HeavyAtoms, l.Frames)
	computeRotorGeometry(l.HeavyAtoms, l.Frames)

	bonds := buildBonds(l.HeavyAtoms, l.Frames)
	l.InteractingPairs = computeInteractingPairs(l.HeavyAtoms, l.Frames, bonds)

	relativize(l.HeavyAtoms, l.Hydrogens, l.Frames)

	return l, nil
}

// dehydrophobicize demotes a hydrophobic carbon to polar wherever it is
// covalently bonded to a hetero atom, either within its own frame or
// across a BRANCH joint, per spec.md §4.1.
func dehydrophobicize(heavyAtoms []Atom, frames []Frame) {
	for k := range frames {
		f := &frames[k]
		for i := f.HaBegin; i < f.HaEnd; i++ {
			if !heavyAtoms[i].IsHetero() {
				continue
			}
			for j := f.HaBegin; j < f.HaEnd; j++ {
				if heavyAtoms[j].IsHetero() {
					continue
				}
				if heavyAtoms[i].IsNeighbor(heavyAtoms[j]) {
					heavyAtoms[j].dehydrophobicize()
				}
			}
		}
		if k == 0 {
			continue
		}
		rotorY, rotorX := &heavyAtoms[f.RotorY], &heavyAtoms[f.RotorX]
		if rotorY.IsHetero() && !rotorX.IsHetero() {
			rotorX.dehydrophobicize()
		}
		if rotorX.IsHetero() && !rotorY.IsHetero() {
			rotorY.dehydrophobicize()
		}
	}
}

// computeRotorGeometry fills in each BRANCH frame's displacement and
// torsion-axis vectors, computed from the still-absolute atom coordinates
// (relativize runs last).
func computeRotorGeometry(heavyAtoms []Atom, frames []Frame) {
	for k := 1; k < len(frames); k++ {
		f := &frames[k]
		p := &frames[f.Parent]
		f.ParentRotorYToCurrentRotorY = heavyAtoms[f.RotorY].Local.Sub(heavyAtoms[p.RotorY].Local)
		f.ParentRotorXToCurrentRotorY = heavyAtoms[f.RotorY].Local.Sub(heavyAtoms[f.RotorX].Local).Normalize()
	}
}

// relativize rewrites every atom's coordinate to be relative to its own
// frame's rotor-Y atom, the representation the kinematic evaluator builds
// world coordinates from (spec.md §4.1, final pass).
func relativize(heavyAtoms, hydrogens []Atom, frames []Frame) {
	for k := range frames {
		f := &frames[k]
		origin := heavyAtoms[f.RotorY].Local
		for i := f.HaBegin; i < f.HaEnd; i++ {
			heavyAtoms[i].Local = heavyAtoms[i].Local.Sub(origin)
		}
		for i := f.HyBegin; i < f.HyEnd; i++ {
			hydrogens[i].Local = hydrogens[i].Local.Sub(origin)
		}
	}
}
