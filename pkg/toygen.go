package k0sperf

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// GenConfig steers the toy event generator.
type GenConfig struct {
	RunNumber          uint32
	Events             int
	V0sPerEvent        int
	BackgroundPerEvent int
	Seed               int64
	MC                 bool
	SmearSigma         float64
	Sel8Prob           float64
	VertexSigmaZ       float64
}

func DefaultGenConfig() GenConfig {
	return GenConfig{
		RunNumber:          100,
		Events:             100,
		V0sPerEvent:        5,
		BackgroundPerEvent: 3,
		Seed:               42,
		MC:                 true,
		SmearSigma:         0.01,
		Sel8Prob:           0.97,
		VertexSigmaZ:       5.0,
	}
}

// ToyGenerator produces events with K0s -> pi+ pi- candidates plus
// combinatorial background. The same seed reproduces the same stream.
type ToyGenerator struct {
	config  GenConfig
	rng     *rand.Rand
	eventId uint32
}

func NewToyGenerator(config GenConfig) *ToyGenerator {
	return &ToyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// TwoBodyDecay splits a mother with momentum p and mass M into two
// daughters of masses m1 and m2. dir is the unit direction of the first
// daughter in the mother rest frame. Momentum is conserved exactly.
func TwoBodyDecay(p r3.Vec, M, m1, m2 float64, dir r3.Vec) (r3.Vec, r3.Vec) {
	pstar := math.Sqrt((M*M-(m1+m2)*(m1+m2))*(M*M-(m1-m2)*(m1-m2))) / (2 * M)
	estar1 := math.Sqrt(pstar*pstar + m1*m1)

	energy := math.Sqrt(r3.Norm2(p) + M*M)
	n := r3.Unit(p)
	beta := r3.Norm(p) / energy
	gamma := energy / M

	q := dir.Scale(pstar)
	par := q.Dot(n)
	perp := q.Sub(n.Scale(par))
	p1 := perp.Add(n.Scale(gamma * (par + beta*estar1)))
	p2 := p.Sub(p1)
	return p1, p2
}

// NextEvent generates one full event. Record identifiers are local to
// the event, matching what the decoder index expects.
func (g *ToyGenerator) NextEvent() Event {
	g.eventId++

	kind := DATA_EVENT
	if g.config.MC {
		kind = MC_EVENT
	}
	var flags EventFlagsType
	if g.rng.Float64() < g.config.Sel8Prob {
		flags |= EVENT_FLAG_SEL8
	}
	event := Event{
		Header: EventHeaderStruct{
			EventKind:  kind,
			EventRunNb: EventRunNbType(g.config.RunNumber),
			EventId:    EventIdType(g.eventId),
			EventFlags: flags,
			VertexX:    float32(g.rng.NormFloat64() * 0.01),
			VertexY:    float32(g.rng.NormFloat64() * 0.01),
			VertexZ:    float32(g.rng.NormFloat64() * g.config.VertexSigmaZ),
		},
	}

	for i := 0; i < g.config.V0sPerEvent; i++ {
		g.addSignalV0(&event)
	}
	for i := 0; i < g.config.BackgroundPerEvent; i++ {
		g.addBackgroundV0(&event)
	}
	return event
}

func (g *ToyGenerator) addSignalV0(event *Event) {
	pv := r3.Vec{X: event.Header.PosX(), Y: event.Header.PosY(), Z: event.Header.PosZ()}

	pt := 0.2 + g.rng.ExpFloat64()
	eta := -1.0 + 2.0*g.rng.Float64()
	phi := 2 * math.Pi * g.rng.Float64()
	pK := r3.Vec{
		X: pt * math.Cos(phi),
		Y: pt * math.Sin(phi),
		Z: pt * math.Sinh(eta),
	}

	truePos, trueNeg := TwoBodyDecay(pK, MassK0Short, MassPionCharged, MassPionCharged, g.unitVector())
	recoPos := g.smear(truePos)
	recoNeg := g.smear(trueNeg)

	// Flight distance along the mother direction, exponential in the
	// proper decay time.
	flight := r3.Norm(pK) / MassK0Short * CTauK0Short * g.rng.ExpFloat64()
	vtx := pv.Add(r3.Unit(pK).Scale(flight))

	posMcID, negMcID, v0McID := g.appendSignalMC(event, pK, truePos, trueNeg)
	posID := g.appendTrack(event, recoPos, posMcID, true)
	negID := g.appendTrack(event, recoNeg, negMcID, true)

	event.V0s = append(event.V0s, V0Record{
		PosTrackID:   posID,
		NegTrackID:   negID,
		McParticleID: v0McID,
		PxPos:        float32(recoPos.X),
		PyPos:        float32(recoPos.Y),
		PzPos:        float32(recoPos.Z),
		PxNeg:        float32(recoNeg.X),
		PyNeg:        float32(recoNeg.Y),
		PzNeg:        float32(recoNeg.Z),
		X:            float32(vtx.X),
		Y:            float32(vtx.Y),
		Z:            float32(vtx.Z),
		DCAPosToPV:   float32(g.signedDCA(0.2, 0.5)),
		DCANegToPV:   float32(g.signedDCA(0.2, 0.5)),

		DCAV0Daughters: float32(math.Abs(g.rng.NormFloat64() * 0.3)),
		CosPA:          float32(r3.Cos(vtx.Sub(pv), recoPos.Add(recoNeg))),
		MK0Short:       float32(InvariantMass(recoPos, recoNeg, MassPionCharged, MassPionCharged)),
	})
}

func (g *ToyGenerator) addBackgroundV0(event *Event) {
	pv := r3.Vec{X: event.Header.PosX(), Y: event.Header.PosY(), Z: event.Header.PosZ()}

	recoPos := g.randomMomentum()
	recoNeg := g.randomMomentum()
	vtx := pv.Add(g.unitVector().Scale(0.3 + 20*g.rng.Float64()))

	posMcID := NO_MC_PARTICLE
	negMcID := NO_MC_PARTICLE
	if g.config.MC {
		// Some background pairs carry genuine pion links so only the
		// missing mother link distinguishes them from signal.
		if g.rng.Float64() < 0.5 {
			posMcID = g.appendMcParticle(event, PDGPiPlus, recoPos)
			negMcID = g.appendMcParticle(event, PDGPiMinus, recoNeg)
		} else {
			posMcID = g.appendMcParticle(event, PDGKPlus, recoPos)
			negMcID = g.appendMcParticle(event, PDGKMinus, recoNeg)
		}
	}
	posID := g.appendTrack(event, recoPos, posMcID, false)
	negID := g.appendTrack(event, recoNeg, negMcID, false)

	event.V0s = append(event.V0s, V0Record{
		PosTrackID:   posID,
		NegTrackID:   negID,
		McParticleID: NO_MC_PARTICLE,
		PxPos:        float32(recoPos.X),
		PyPos:        float32(recoPos.Y),
		PzPos:        float32(recoPos.Z),
		PxNeg:        float32(recoNeg.X),
		PyNeg:        float32(recoNeg.Y),
		PzNeg:        float32(recoNeg.Z),
		X:            float32(vtx.X),
		Y:            float32(vtx.Y),
		Z:            float32(vtx.Z),
		DCAPosToPV:   float32(g.signedDCA(0.02, 0.3)),
		DCANegToPV:   float32(g.signedDCA(0.02, 0.3)),

		DCAV0Daughters: float32(0.2 + g.rng.ExpFloat64()*0.8),
		CosPA:          float32(0.9 + 0.1*g.rng.Float64()),
		MK0Short:       float32(InvariantMass(recoPos, recoNeg, MassPionCharged, MassPionCharged)),
	})
}

func (g *ToyGenerator) appendSignalMC(event *Event, pK, truePos, trueNeg r3.Vec) (int32, int32, int32) {
	if !g.config.MC {
		return NO_MC_PARTICLE, NO_MC_PARTICLE, NO_MC_PARTICLE
	}
	// A small fraction loses the link, as unresolved matches do.
	if g.rng.Float64() < 0.05 {
		return NO_MC_PARTICLE, NO_MC_PARTICLE, NO_MC_PARTICLE
	}
	v0McID := g.appendMcParticle(event, PDGK0Short, pK)
	posMcID := g.appendMcParticle(event, PDGPiPlus, truePos)
	negMcID := g.appendMcParticle(event, PDGPiMinus, trueNeg)
	return posMcID, negMcID, v0McID
}

func (g *ToyGenerator) appendMcParticle(event *Event, pdgCode int32, p r3.Vec) int32 {
	id := int32(len(event.McParticles))
	event.McParticles = append(event.McParticles, McParticleRecord{
		McID:    id,
		PdgCode: pdgCode,
		Px:      float32(p.X),
		Py:      float32(p.Y),
		Pz:      float32(p.Z),
	})
	return id
}

func (g *ToyGenerator) appendTrack(event *Event, p r3.Vec, mcID int32, pion bool) uint32 {
	detectorMap := DETECTOR_MAP_ITS | DETECTOR_MAP_TPC
	if g.rng.Float64() < 0.7 {
		detectorMap |= DETECTOR_MAP_TOF
	}
	if g.rng.Float64() < 0.3 {
		detectorMap |= DETECTOR_MAP_TRD
	}

	itsHits := int32(1 + g.rng.Intn(3))
	if g.rng.Float64() < 0.1 {
		itsHits = 0
	}

	trackingPID := int32(PIDHypoPion)
	tpcNSigmaPi := g.rng.NormFloat64()
	tofNSigmaPi := g.rng.NormFloat64()
	if !pion {
		if g.rng.Float64() < 0.5 {
			trackingPID = int32(g.rng.Intn(5))
		}
		tpcNSigmaPi = 4 + 2*g.rng.NormFloat64()
		tofNSigmaPi = 4 + 2*g.rng.NormFloat64()
	}

	momentum := r3.Norm(p)
	energy := math.Sqrt(momentum*momentum + MassPionCharged*MassPionCharged)
	beta := momentum / energy
	tpcSignal := 50. / (beta * beta) * (1 + 0.04*g.rng.NormFloat64())
	if tpcSignal > 999 {
		tpcSignal = 999
	}

	id := uint32(len(event.Tracks))
	event.Tracks = append(event.Tracks, TrackRecord{
		TrackID:            id,
		McParticleID:       mcID,
		DetectorMap:        detectorMap,
		ITSInnerBarrelHits: itsHits,
		TPCCrossedRows:     int32(70 + g.rng.Intn(90)),
		TrackingPID:        trackingPID,
		Px:                 float32(p.X),
		Py:                 float32(p.Y),
		Pz:                 float32(p.Z),
		TPCNSigmaPi:        float32(tpcNSigmaPi),
		TOFNSigmaPi:        float32(tofNSigmaPi),
		TPCInnerParam:      float32(momentum),
		TPCSignal:          float32(tpcSignal),
	})
	return id
}

func (g *ToyGenerator) smear(p r3.Vec) r3.Vec {
	factor := 1 + g.config.SmearSigma*g.rng.NormFloat64()
	if factor < 0.1 {
		factor = 0.1
	}
	return p.Scale(factor)
}

func (g *ToyGenerator) unitVector() r3.Vec {
	cosTheta := -1.0 + 2.0*g.rng.Float64()
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * g.rng.Float64()
	return r3.Vec{
		X: sinTheta * math.Cos(phi),
		Y: sinTheta * math.Sin(phi),
		Z: cosTheta,
	}
}

func (g *ToyGenerator) randomMomentum() r3.Vec {
	pt := 0.1 + g.rng.ExpFloat64()*0.8
	eta := -1.5 + 3.0*g.rng.Float64()
	phi := 2 * math.Pi * g.rng.Float64()
	return r3.Vec{
		X: pt * math.Cos(phi),
		Y: pt * math.Sin(phi),
		Z: pt * math.Sinh(eta),
	}
}

func (g *ToyGenerator) signedDCA(floor, scale float64) float64 {
	dca := floor + g.rng.ExpFloat64()*scale
	if g.rng.Float64() < 0.5 {
		return -dca
	}
	return dca
}
