package k0sperf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Eta returns the pseudorapidity of a momentum vector.
func Eta(p r3.Vec) float64 {
	pt := math.Hypot(p.X, p.Y)
	return math.Asinh(p.Z / pt)
}

// Phi returns the azimuthal angle mapped to [0, 2pi).
func Phi(p r3.Vec) float64 {
	phi := math.Atan2(p.Y, p.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi
}

// Rapidity returns the longitudinal rapidity under the given mass hypothesis.
func Rapidity(p r3.Vec, mass float64) float64 {
	e := math.Sqrt(r3.Norm2(p) + mass*mass)
	return 0.5 * math.Log((e+p.Z)/(e-p.Z))
}

// InvariantMass returns the invariant mass of a two-body system with the
// given daughter momenta and mass hypotheses.
func InvariantMass(p1, p2 r3.Vec, m1, m2 float64) float64 {
	e1 := math.Sqrt(r3.Norm2(p1) + m1*m1)
	e2 := math.Sqrt(r3.Norm2(p2) + m2*m2)
	e := e1 + e2
	p := p1.Add(p2)
	m2sum := e*e - r3.Norm2(p)
	if m2sum < 0 {
		// float32 inputs can push a massless system marginally negative
		return 0
	}
	return math.Sqrt(m2sum)
}

// RelativeResidual returns (reco - gen) / gen.
func RelativeResidual(reco, gen float64) float64 {
	return (reco - gen) / gen
}

// InversePtResidual returns 1/recoPt - 1/genPt.
func InversePtResidual(recoPt, genPt float64) float64 {
	return 1/recoPt - 1/genPt
}

func (v *V0Record) PosMomentum() r3.Vec {
	return r3.Vec{X: float64(v.PxPos), Y: float64(v.PyPos), Z: float64(v.PzPos)}
}

func (v *V0Record) NegMomentum() r3.Vec {
	return r3.Vec{X: float64(v.PxNeg), Y: float64(v.PyNeg), Z: float64(v.PzNeg)}
}

func (v *V0Record) Momentum() r3.Vec {
	return v.PosMomentum().Add(v.NegMomentum())
}

func (v *V0Record) Pt() float64 {
	p := v.Momentum()
	return math.Hypot(p.X, p.Y)
}

func (v *V0Record) Eta() float64 {
	return Eta(v.Momentum())
}

func (v *V0Record) Phi() float64 {
	return Phi(v.Momentum())
}

// YK0Short is the candidate rapidity under the K0s mass hypothesis.
func (v *V0Record) YK0Short() float64 {
	return Rapidity(v.Momentum(), MassK0Short)
}

func (v *V0Record) PositivePt() float64 {
	return math.Hypot(float64(v.PxPos), float64(v.PyPos))
}

func (v *V0Record) NegativePt() float64 {
	return math.Hypot(float64(v.PxNeg), float64(v.PyNeg))
}

// V0Radius is the transverse distance of the decay vertex from the beam line.
func (v *V0Record) V0Radius() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// DistOverTotMom returns the decay length from the primary vertex divided
// by the total momentum. The small offset in the denominator keeps the
// ratio finite for degenerate candidates.
func (v *V0Record) DistOverTotMom(col *EventHeaderStruct) float64 {
	dx := float64(v.X) - col.PosX()
	dy := float64(v.Y) - col.PosY()
	dz := float64(v.Z) - col.PosZ()
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	return dist / (r3.Norm(v.Momentum()) + 1e-13)
}

func (t *TrackRecord) Momentum() r3.Vec {
	return r3.Vec{X: float64(t.Px), Y: float64(t.Py), Z: float64(t.Pz)}
}

func (t *TrackRecord) Eta() float64 {
	return Eta(t.Momentum())
}

func (m *McParticleRecord) Pt() float64 {
	return math.Hypot(float64(m.Px), float64(m.Py))
}
