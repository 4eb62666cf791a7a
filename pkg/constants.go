package k0sperf

// PDG particle masses in GeV/c^2.
const (
	MassK0Short     = 0.497611
	MassPionCharged = 0.13957039
)

// CTauK0Short is the K0s decay length c*tau in cm. The lifetime selection
// accepts candidates with L*m/p below CTauK0Short times the configured
// number of lifetimes.
const CTauK0Short = 2.684

// PDG codes used to validate Monte Carlo links.
const (
	PDGK0Short = 310
	PDGPiPlus  = 211
	PDGPiMinus = -211
	PDGKPlus   = 321
	PDGKMinus  = -321
)
