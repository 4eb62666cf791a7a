package k0sperf

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// DetectorSelection is a three-state detector requirement switch:
// -1 forbids a signal in the detector, 0 applies no selection and
// 1 requires one.
type DetectorSelection int

const (
	DetectorForbidden   DetectorSelection = -1
	DetectorNoSelection DetectorSelection = 0
	DetectorRequired    DetectorSelection = 1
)

var detectorSelectionStrings = map[DetectorSelection]string{
	DetectorForbidden:   "forbidden",
	DetectorNoSelection: "no-selection",
	DetectorRequired:    "required",
}

func (s DetectorSelection) Valid() bool {
	return s >= DetectorForbidden && s <= DetectorRequired
}

func (s DetectorSelection) String() string {
	if name, ok := detectorSelectionStrings[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s DetectorSelection) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

func (s *DetectorSelection) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed := DetectorSelection(v)
	if !parsed.Valid() {
		return fmt.Errorf("invalid DetectorSelection: %d", v)
	}
	*s = parsed
	return nil
}

// PIDHypothesisSelection selects on the particle hypothesis the tracker
// used for a daughter: -1 applies no selection, the remaining values
// follow the tracking PID indices.
type PIDHypothesisSelection int

const (
	PIDHypoAny      PIDHypothesisSelection = -1
	PIDHypoElectron PIDHypothesisSelection = 0
	PIDHypoMuon     PIDHypothesisSelection = 1
	PIDHypoPion     PIDHypothesisSelection = 2
	PIDHypoKaon     PIDHypothesisSelection = 3
	PIDHypoProton   PIDHypothesisSelection = 4
)

var pidHypothesisStrings = map[PIDHypothesisSelection]string{
	PIDHypoAny:      "any",
	PIDHypoElectron: "electron",
	PIDHypoMuon:     "muon",
	PIDHypoPion:     "pion",
	PIDHypoKaon:     "kaon",
	PIDHypoProton:   "proton",
}

func (s PIDHypothesisSelection) Valid() bool {
	return s >= PIDHypoAny && s <= PIDHypoProton
}

func (s PIDHypothesisSelection) String() string {
	if name, ok := pidHypothesisStrings[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s PIDHypothesisSelection) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

func (s *PIDHypothesisSelection) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed := PIDHypothesisSelection(v)
	if !parsed.Valid() {
		return fmt.Errorf("invalid PIDHypothesisSelection: %d", v)
	}
	*s = parsed
	return nil
}

// SelectionCuts collects every cut applied to events and candidates.
// The zero value rejects almost everything, use CutsFromConfiguration.
// The hdf5 tags name the rows of the configuration table in the output.
type SelectionCuts struct {
	V0CosPA           float64 `hdf5:"v0_cospa"`
	DCAV0Daughters    float64 `hdf5:"v0_dcav0dau"`
	DCAPosToPV        float64 `hdf5:"v0_dcapostopv"`
	DCANegToPV        float64 `hdf5:"v0_dcanegtopv"`
	V0Radius          float64 `hdf5:"v0_radius"`
	V0Rapidity        float64 `hdf5:"v0_rapidity"`
	V0Lifetime        float64 `hdf5:"v0_lifetime"`
	MaxTPCNSigma      float64 `hdf5:"max_tpc_nsigma"`
	MinTPCCrossedRows float64 `hdf5:"min_tpc_crossed_rows"`

	ITSIbSelectionPos DetectorSelection      `hdf5:"its_ib_selection_pos"`
	ITSIbSelectionNeg DetectorSelection      `hdf5:"its_ib_selection_neg"`
	TOFSelectionPos   DetectorSelection      `hdf5:"tof_selection_pos"`
	TOFSelectionNeg   DetectorSelection      `hdf5:"tof_selection_neg"`
	TRDSelectionPos   DetectorSelection      `hdf5:"trd_selection_pos"`
	TRDSelectionNeg   DetectorSelection      `hdf5:"trd_selection_neg"`
	PIDHypoPos        PIDHypothesisSelection `hdf5:"pid_hypo_pos"`
	PIDHypoNeg        PIDHypothesisSelection `hdf5:"pid_hypo_neg"`

	CutZVertex     float64 `hdf5:"cut_z_vertex"`
	EventSelection bool    `hdf5:"event_selection"`
}

func CutsFromConfiguration(config Configuration) SelectionCuts {
	return SelectionCuts{
		V0CosPA:           config.V0CosPA,
		DCAV0Daughters:    config.DCAV0Daughters,
		DCAPosToPV:        config.DCAPosToPV,
		DCANegToPV:        config.DCANegToPV,
		V0Radius:          config.V0Radius,
		V0Rapidity:        config.V0Rapidity,
		V0Lifetime:        config.V0Lifetime,
		MaxTPCNSigma:      config.MaxTPCNSigma,
		MinTPCCrossedRows: config.MinTPCCrossedRows,
		ITSIbSelectionPos: config.ITSIbSelectionPos,
		ITSIbSelectionNeg: config.ITSIbSelectionNeg,
		TOFSelectionPos:   config.TOFSelectionPos,
		TOFSelectionNeg:   config.TOFSelectionNeg,
		TRDSelectionPos:   config.TRDSelectionPos,
		TRDSelectionNeg:   config.TRDSelectionNeg,
		PIDHypoPos:        config.PIDHypoPos,
		PIDHypoNeg:        config.PIDHypoNeg,
		CutZVertex:        config.CutZVertex,
		EventSelection:    config.EventSelection,
	}
}

// Validate reports switches holding values outside their enumerated
// range. The caller is expected to refuse to start on error.
func (c *SelectionCuts) Validate() error {
	var errs []error
	switches := []struct {
		name  string
		valid bool
		value int
	}{
		{"itsIbSelectionPos", c.ITSIbSelectionPos.Valid(), int(c.ITSIbSelectionPos)},
		{"itsIbSelectionNeg", c.ITSIbSelectionNeg.Valid(), int(c.ITSIbSelectionNeg)},
		{"tofSelectionPos", c.TOFSelectionPos.Valid(), int(c.TOFSelectionPos)},
		{"tofSelectionNeg", c.TOFSelectionNeg.Valid(), int(c.TOFSelectionNeg)},
		{"trdSelectionPos", c.TRDSelectionPos.Valid(), int(c.TRDSelectionPos)},
		{"trdSelectionNeg", c.TRDSelectionNeg.Valid(), int(c.TRDSelectionNeg)},
		{"pidHypoPos", c.PIDHypoPos.Valid(), int(c.PIDHypoPos)},
		{"pidHypoNeg", c.PIDHypoNeg.Valid(), int(c.PIDHypoNeg)},
	}
	for _, s := range switches {
		if !s.valid {
			errs = append(errs, &ErrInvalidSelection{Switch: s.name, Value: s.value})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// PreFilterCollision applies the event selection: the sel8 trigger flag
// when enabled and a strict window on the vertex z position.
func PreFilterCollision(col *EventHeaderStruct, cuts *SelectionCuts) bool {
	if cuts.EventSelection && !col.Sel8() {
		return false
	}
	return math.Abs(col.PosZ()) < cuts.CutZVertex
}

// PreFilterV0 applies the topological candidate preselection. All four
// comparisons are strict, a candidate sitting exactly on a threshold is
// rejected.
func PreFilterV0(v0 *V0Record, cuts *SelectionCuts) bool {
	return math.Abs(float64(v0.DCAPosToPV)) > cuts.DCAPosToPV &&
		math.Abs(float64(v0.DCANegToPV)) > cuts.DCANegToPV &&
		float64(v0.DCAV0Daughters) < cuts.DCAV0Daughters &&
		float64(v0.CosPA) > cuts.V0CosPA
}

// AcceptV0 runs the full candidate selection on a prefiltered candidate
// and its daughter tracks. The predicates run in a fixed order and the
// first failure rejects. A selection switch outside its enumerated range
// panics with ErrInvalidSelection.
func AcceptV0(v0 *V0Record, ntrack, ptrack *TrackRecord, col *EventHeaderStruct, cuts *SelectionCuts) bool {
	// Selections on the V0
	if math.Abs(v0.YK0Short()) > cuts.V0Rapidity {
		return false
	}
	if v0.V0Radius() < cuts.V0Radius {
		return false
	}
	if v0.DistOverTotMom(col)*MassK0Short > CTauK0Short*cuts.V0Lifetime {
		return false
	}

	// Selections on the V0 daughters

	// ITS selection
	switch cuts.ITSIbSelectionPos {
	case DetectorForbidden:
		if ptrack.ITSInnerBarrelHits > 0 {
			return false
		}
	case DetectorNoSelection:
	case DetectorRequired:
		if ptrack.ITSInnerBarrelHits < 1 {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "itsIbSelectionPos", Value: int(cuts.ITSIbSelectionPos)})
	}
	switch cuts.ITSIbSelectionNeg {
	case DetectorForbidden:
		if ntrack.ITSInnerBarrelHits > 0 {
			return false
		}
	case DetectorNoSelection:
	case DetectorRequired:
		if ntrack.ITSInnerBarrelHits < 1 {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "itsIbSelectionNeg", Value: int(cuts.ITSIbSelectionNeg)})
	}

	// TPC selection
	if !ntrack.HasTPC() || !ptrack.HasTPC() {
		return false
	}
	if math.Abs(float64(ntrack.TPCNSigmaPi)) > cuts.MaxTPCNSigma {
		return false
	}
	if math.Abs(float64(ptrack.TPCNSigmaPi)) > cuts.MaxTPCNSigma {
		return false
	}
	if float64(ntrack.TPCCrossedRows) < cuts.MinTPCCrossedRows || float64(ptrack.TPCCrossedRows) < cuts.MinTPCCrossedRows {
		return false
	}

	// TOF selection
	switch cuts.TOFSelectionPos {
	case DetectorForbidden:
		if ptrack.HasTOF() {
			return false
		}
	case DetectorNoSelection:
	case DetectorRequired:
		if !ptrack.HasTOF() {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "tofSelectionPos", Value: int(cuts.TOFSelectionPos)})
	}
	switch cuts.TOFSelectionNeg {
	case DetectorForbidden:
		if ntrack.HasTOF() {
			return false
		}
	case DetectorNoSelection:
	case DetectorRequired:
		if !ntrack.HasTOF() {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "tofSelectionNeg", Value: int(cuts.TOFSelectionNeg)})
	}

	// TRD selection
	switch cuts.TRDSelectionPos {
	case DetectorForbidden:
		if ptrack.HasTRD() {
			return false
		}
	case DetectorNoSelection:
	case DetectorRequired:
		if !ptrack.HasTRD() {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "trdSelectionPos", Value: int(cuts.TRDSelectionPos)})
	}
	switch cuts.TRDSelectionNeg {
	case DetectorForbidden:
		if ntrack.HasTRD() {
			return false
		}
	case DetectorNoSelection:
	case DetectorRequired:
		if !ntrack.HasTRD() {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "trdSelectionNeg", Value: int(cuts.TRDSelectionNeg)})
	}

	// PID hypothesis selection
	switch cuts.PIDHypoPos {
	case PIDHypoAny:
	case PIDHypoElectron, PIDHypoMuon, PIDHypoPion, PIDHypoKaon, PIDHypoProton:
		if ptrack.TrackingPID != int32(cuts.PIDHypoPos) {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "pidHypoPos", Value: int(cuts.PIDHypoPos)})
	}
	switch cuts.PIDHypoNeg {
	case PIDHypoAny:
	case PIDHypoElectron, PIDHypoMuon, PIDHypoPion, PIDHypoKaon, PIDHypoProton:
		if ntrack.TrackingPID != int32(cuts.PIDHypoNeg) {
			return false
		}
	default:
		panic(&ErrInvalidSelection{Switch: "pidHypoNeg", Value: int(cuts.PIDHypoNeg)})
	}
	return true
}
