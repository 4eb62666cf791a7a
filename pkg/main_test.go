package k0sperf

import (
	"os"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// testLogger satisfies the Logger interface without producing output,
// the tests only care about the data path.
type testLogger struct{}

func (testLogger) Info(message string, module string) {}
func (testLogger) Error(message string)               {}

func defaultCuts() SelectionCuts {
	return CutsFromConfiguration(DefaultConfiguration())
}

func TestMain(m *testing.M) {
	SetLogger(testLogger{})
	SetConfiguration(DefaultConfiguration())
	os.Exit(m.Run())
}

// signalKinematics is a fixed K0s -> pi+ pi- decay used across the
// tests: mother momentum (1, 0, 0.2) GeV, daughters from an exact
// two-body decay so the invariant mass is the K0s mass by construction.
func signalKinematics() (pK, posP, negP r3.Vec) {
	pK = r3.Vec{X: 1, Y: 0, Z: 0.2}
	dir := r3.Unit(r3.Vec{X: 0.3, Y: 0.8, Z: 0.5})
	posP, negP = TwoBodyDecay(pK, MassK0Short, MassPionCharged, MassPionCharged, dir)
	return pK, posP, negP
}

// signalEvent builds one event holding a single candidate that passes
// every default cut: vertex at the origin, sel8 set, decay radius 1.0,
// both daughters with ITS and TPC, 100 crossed rows and zero nsigma.
// The positive daughter carries TRD but no TOF, the negative one TOF
// but no TRD. MC truth tables are attached for MC_EVENT kinds.
func signalEvent(kind EventKindType) *Event {
	_, posP, negP := signalKinematics()

	event := &Event{
		Header: EventHeaderStruct{
			EventKind:  kind,
			EventRunNb: 100,
			EventId:    1,
			EventFlags: EVENT_FLAG_SEL8,
		},
	}

	posMcID := NO_MC_PARTICLE
	negMcID := NO_MC_PARTICLE
	v0McID := NO_MC_PARTICLE
	if kind == MC_EVENT {
		event.McParticles = []McParticleRecord{
			{McID: 0, PdgCode: PDGK0Short, Px: float32(posP.X + negP.X), Py: float32(posP.Y + negP.Y), Pz: float32(posP.Z + negP.Z)},
			{McID: 1, PdgCode: PDGPiPlus, Px: float32(posP.X), Py: float32(posP.Y), Pz: float32(posP.Z)},
			{McID: 2, PdgCode: PDGPiMinus, Px: float32(negP.X), Py: float32(negP.Y), Pz: float32(negP.Z)},
		}
		v0McID, posMcID, negMcID = 0, 1, 2
	}

	event.Tracks = []TrackRecord{
		{
			TrackID:            10,
			McParticleID:       posMcID,
			DetectorMap:        DETECTOR_MAP_ITS | DETECTOR_MAP_TPC | DETECTOR_MAP_TRD,
			ITSInnerBarrelHits: 3,
			TPCCrossedRows:     100,
			TrackingPID:        int32(PIDHypoPion),
			Px:                 float32(posP.X),
			Py:                 float32(posP.Y),
			Pz:                 float32(posP.Z),
			TPCInnerParam:      float32(r3.Norm(posP)),
			TPCSignal:          75,
		},
		{
			TrackID:            11,
			McParticleID:       negMcID,
			DetectorMap:        DETECTOR_MAP_ITS | DETECTOR_MAP_TPC | DETECTOR_MAP_TOF,
			ITSInnerBarrelHits: 2,
			TPCCrossedRows:     100,
			TrackingPID:        int32(PIDHypoPion),
			Px:                 float32(negP.X),
			Py:                 float32(negP.Y),
			Pz:                 float32(negP.Z),
			TPCInnerParam:      float32(r3.Norm(negP)),
			TPCSignal:          80,
		},
	}

	event.V0s = []V0Record{
		{
			PosTrackID:     10,
			NegTrackID:     11,
			McParticleID:   v0McID,
			PxPos:          float32(posP.X),
			PyPos:          float32(posP.Y),
			PzPos:          float32(posP.Z),
			PxNeg:          float32(negP.X),
			PyNeg:          float32(negP.Y),
			PzNeg:          float32(negP.Z),
			X:              1.0,
			Y:              0,
			Z:              0.2,
			DCAPosToPV:     0.2,
			DCANegToPV:     -0.2,
			DCAV0Daughters: 0.5,
			CosPA:          0.999,
			MK0Short:       float32(InvariantMass(posP, negP, MassPionCharged, MassPionCharged)),
		},
	}
	event.BuildIndex()
	return event
}
