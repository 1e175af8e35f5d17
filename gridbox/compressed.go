package gridbox

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// LoadFile opens path and loads its grid-map bundle, transparently
// decompressing when the filename carries a ".zst" suffix. Receptor
// authors commonly ship the full set of XScore grid maps (one per XS type,
// 19 here) compressed,
// since each one spans the whole search box; this mirrors the
// extension-dispatch loader pattern gochem uses for trajectory files
// (traj/dcd/compressed.go's prepSource), reusing the teacher's existing
// klauspost/compress dependency instead of a new codec.
func LoadFile(path string) (Maps, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridbox: opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gridbox: opening zstd stream %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	} else if !strings.HasSuffix(strings.ToLower(path), ".gmap") {
		log.Printf("gridbox: unrecognized grid map extension for %s, assuming uncompressed", path)
	}
	return Load(r)
}
