package k0sperf

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTwoBodyDecay(t *testing.T) {
	mothers := []r3.Vec{
		{X: 1, Y: 0, Z: 0.2},
		{X: 0.1, Y: -0.5, Z: 2},
		{X: 3, Y: 3, Z: -1},
	}
	dirs := []r3.Vec{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: -1},
		r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1}),
	}
	for _, p := range mothers {
		for _, dir := range dirs {
			p1, p2 := TwoBodyDecay(p, MassK0Short, MassPionCharged, MassPionCharged, dir)

			sum := p1.Add(p2)
			assert.InDelta(t, p.X, sum.X, 1e-12)
			assert.InDelta(t, p.Y, sum.Y, 1e-12)
			assert.InDelta(t, p.Z, sum.Z, 1e-12)

			m := InvariantMass(p1, p2, MassPionCharged, MassPionCharged)
			assert.InDelta(t, MassK0Short, m, 1e-12)
		}
	}
}

func TestToyGeneratorDeterminism(t *testing.T) {
	a := NewToyGenerator(DefaultGenConfig())
	b := NewToyGenerator(DefaultGenConfig())

	for i := 0; i < 3; i++ {
		evA := a.NextEvent()
		evB := b.NextEvent()
		assert.Empty(t, cmp.Diff(evA.Header, evB.Header))
		assert.Empty(t, cmp.Diff(evA.V0s, evB.V0s))
		assert.Empty(t, cmp.Diff(evA.Tracks, evB.Tracks))
		assert.Empty(t, cmp.Diff(evA.McParticles, evB.McParticles))
	}
}

func TestToyGeneratorSeedChangesStream(t *testing.T) {
	config := DefaultGenConfig()
	config.Seed = 1
	a := NewToyGenerator(config)
	config.Seed = 2
	b := NewToyGenerator(config)

	evA := a.NextEvent()
	evB := b.NextEvent()
	assert.NotEmpty(t, cmp.Diff(evA.V0s, evB.V0s))
}

func TestToyGeneratorEventStructure(t *testing.T) {
	config := DefaultGenConfig()
	gen := NewToyGenerator(config)

	for i := 0; i < 10; i++ {
		ev := gen.NextEvent()
		ev.BuildIndex()

		assert.Equal(t, MC_EVENT, ev.Header.EventKind)
		assert.EqualValues(t, config.RunNumber, ev.Header.EventRunNb)
		assert.EqualValues(t, i+1, ev.Header.EventId)
		assert.Len(t, ev.V0s, config.V0sPerEvent+config.BackgroundPerEvent)
		assert.Len(t, ev.Tracks, 2*(config.V0sPerEvent+config.BackgroundPerEvent))

		for _, v0 := range ev.V0s {
			_, ok := ev.Track(v0.PosTrackID)
			assert.True(t, ok, "positive daughter link resolves")
			_, ok = ev.Track(v0.NegTrackID)
			assert.True(t, ok, "negative daughter link resolves")
		}
		for _, track := range ev.Tracks {
			if track.McParticleID == NO_MC_PARTICLE {
				continue
			}
			_, ok := ev.McParticle(track.McParticleID)
			assert.True(t, ok, "MC link resolves")
		}
	}
}

func TestToyGeneratorDataMode(t *testing.T) {
	config := DefaultGenConfig()
	config.MC = false
	gen := NewToyGenerator(config)

	ev := gen.NextEvent()
	assert.Equal(t, DATA_EVENT, ev.Header.EventKind)
	assert.Empty(t, ev.McParticles)
	for _, track := range ev.Tracks {
		assert.Equal(t, NO_MC_PARTICLE, track.McParticleID)
	}
	for _, v0 := range ev.V0s {
		assert.Equal(t, NO_MC_PARTICLE, v0.McParticleID)
	}
}

func TestToyGeneratorSignalMass(t *testing.T) {
	config := DefaultGenConfig()
	gen := NewToyGenerator(config)

	for i := 0; i < 20; i++ {
		ev := gen.NextEvent()
		for j := range ev.V0s {
			v0 := &ev.V0s[j]
			recomputed := InvariantMass(v0.PosMomentum(), v0.NegMomentum(), MassPionCharged, MassPionCharged)
			assert.InDelta(t, float64(v0.MK0Short), recomputed, 1e-4,
				"stored mass matches the daughter recomputation")
			if j < config.V0sPerEvent {
				assert.InDelta(t, MassK0Short, recomputed, 0.05,
					"signal mass sits near the K0s peak")
			}
		}
	}
}

func TestToyGeneratorSignalTruthLinks(t *testing.T) {
	config := DefaultGenConfig()
	gen := NewToyGenerator(config)

	linked := 0
	for i := 0; i < 20; i++ {
		ev := gen.NextEvent()
		ev.BuildIndex()
		for j := 0; j < config.V0sPerEvent; j++ {
			v0 := &ev.V0s[j]
			if v0.McParticleID == NO_MC_PARTICLE {
				continue
			}
			linked++

			mother, ok := ev.McParticle(v0.McParticleID)
			require.True(t, ok)
			assert.EqualValues(t, PDGK0Short, mother.PdgCode)

			pos, ok := ev.Track(v0.PosTrackID)
			require.True(t, ok)
			posMC, ok := ev.McParticle(pos.McParticleID)
			require.True(t, ok)
			assert.EqualValues(t, PDGPiPlus, posMC.PdgCode)

			neg, ok := ev.Track(v0.NegTrackID)
			require.True(t, ok)
			negMC, ok := ev.McParticle(neg.McParticleID)
			require.True(t, ok)
			assert.EqualValues(t, PDGPiMinus, negMC.PdgCode)

			// generated momentum splits exactly onto the daughters
			sum := r3.Vec{
				X: float64(posMC.Px) + float64(negMC.Px),
				Y: float64(posMC.Py) + float64(negMC.Py),
				Z: float64(posMC.Pz) + float64(negMC.Pz),
			}
			assert.InDelta(t, float64(mother.Px), sum.X, 1e-5)
			assert.InDelta(t, float64(mother.Py), sum.Y, 1e-5)
			assert.InDelta(t, float64(mother.Pz), sum.Z, 1e-5)
		}
	}
	assert.Greater(t, linked, 50, "most signal candidates carry truth links")
}

// TestToyGeneratorPipeline pushes a full generated run through the
// selection. The default cuts keep the bulk of the signal while the
// combinatorial background dies at the prefilter, mostly on the
// pointing angle.
func TestToyGeneratorPipeline(t *testing.T) {
	config := DefaultConfiguration()
	config.ProcessData = false
	config.ProcessMC = true
	task := newTask(t, config, nil)

	genConfig := DefaultGenConfig()
	gen := NewToyGenerator(genConfig)
	for i := 0; i < genConfig.Events; i++ {
		ev := gen.NextEvent()
		ev.BuildIndex()
		task.ProcessEvent(&ev)
	}

	assert.Greater(t, task.EventsProcessed, int64(70), "sel8 and the vertex window keep most events")
	assert.LessOrEqual(t, task.EventsProcessed, int64(genConfig.Events))
	assert.Greater(t, task.V0Seen, int64(200))
	assert.Greater(t, task.V0Accepted, int64(40))
	assert.Less(t, task.V0Accepted, task.V0Seen)
	assert.EqualValues(t, task.V0Accepted, task.Resolution.H2D("h2_masspT").Entries())

	// the mass peak accumulates around the K0s mass
	h := findHist(t, task.Resolution.Snapshot(), "h2_masspT")
	var peak float64
	for _, b := range h.Bins2D {
		if b.XLow <= MassK0Short && MassK0Short < b.XHigh {
			peak += b.SumW
		}
	}
	assert.Greater(t, peak, 0., "candidates populate the peak bin")
}

func TestToyGeneratorVertexSpread(t *testing.T) {
	config := DefaultGenConfig()
	config.Events = 200
	gen := NewToyGenerator(config)

	var sum, sum2 float64
	n := 200
	for i := 0; i < n; i++ {
		z := float64(gen.NextEvent().Header.VertexZ)
		sum += z
		sum2 += z * z
	}
	mean := sum / float64(n)
	rms := math.Sqrt(sum2/float64(n) - mean*mean)
	assert.InDelta(t, 0, mean, 1.5)
	assert.InDelta(t, config.VertexSigmaZ, rms, 1.5)
}
