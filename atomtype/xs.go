package atomtype

// XS is a coarse XScore atom classification used to index the scoring
// function and the receptor grid maps (spec.md §3, "XScore type").
type XS uint8

const (
	XSCHydrophobic XS = iota
	XSCPolar
	XSNPolar
	XSNDonor
	XSNAcceptor
	XSNDonorAcceptor
	XSOPolar
	XSODonor
	XSOAcceptor
	XSODonorAcceptor
	XSSulfur
	XSPhosphorus
	XSFluorine
	XSChlorine
	XSBromine
	XSIodine
	XSMetalDonor
	XSHydrogen
	XSHydrogenDonor
	NumXS
)

// String names an XS constant for diagnostics.
func (x XS) String() string {
	names := [...]string{
		"C_H", "C_P", "N_P", "N_D", "N_A", "N_DA", "O_P", "O_D", "O_A",
		"O_DA", "S_P", "P_P", "F_H", "Cl_H", "Br_H", "I_H", "Met_D", "H", "H_D",
	}
	if int(x) < len(names) {
		return names[x]
	}
	return "?"
}
