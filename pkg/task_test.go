package k0sperf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findHist(t *testing.T, snap RegistrySnapshot, name string) HistSnapshot {
	t.Helper()
	for _, h := range snap.Hists {
		if h.Name == name {
			return h
		}
	}
	t.Fatalf("histogram %q not found in registry %q", name, snap.Name)
	return HistSnapshot{}
}

// eventsBinSumW returns the content of one h1_events bin: bin 0 holds
// the per-event tick at 0.5, bin 1 the per-candidate tick at 1.5.
func eventsBinSumW(t *testing.T, task *ResolutionTask, bin int) float64 {
	t.Helper()
	h := findHist(t, task.Resolution.Snapshot(), "h1_events")
	for _, b := range h.Bins1D {
		if b.Bin == bin {
			return b.SumW
		}
	}
	return 0
}

func newTask(t *testing.T, config Configuration, mutate func(cuts *SelectionCuts)) *ResolutionTask {
	t.Helper()
	cuts := CutsFromConfiguration(config)
	if mutate != nil {
		mutate(&cuts)
	}
	require.NoError(t, cuts.Validate())
	task := NewResolutionTask(config, cuts)
	require.NoError(t, task.Init())
	return task
}

func TestTaskInitRegistrations(t *testing.T) {
	t.Run("data only", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		for _, name := range []string{"h1_events", "h2_masspT", "h2_masseta", "h2_massphi"} {
			assert.True(t, task.Resolution.Has(name), name)
		}
		assert.False(t, task.Resolution.Has("thn_mass"))
		assert.Empty(t, task.DauResolution.Snapshot().Hists)
	})
	t.Run("mc adds the daughter histograms", func(t *testing.T) {
		config := DefaultConfiguration()
		config.ProcessMC = true
		task := newTask(t, config, nil)
		for _, name := range []string{
			"h2_massPosPtRes", "h2_massNegPtRes",
			"h2_genPtPosPtRes", "h2_genPxPosPxRes", "h2_genPyPosPyRes", "h2_genPzPosPzRes",
			"h2_genPtNegPtRes", "h2_genPxNegPxRes", "h2_genPyNegPyRes", "h2_genPzNegPzRes",
		} {
			assert.True(t, task.DauResolution.Has(name), name)
		}
	})
	t.Run("multidim data variant has six axes", func(t *testing.T) {
		config := DefaultConfiguration()
		config.UseMultidimHisto = true
		task := newTask(t, config, nil)
		h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
		assert.Equal(t, THnSparseF, h.Kind)
		assert.Len(t, h.Axes, 6)
	})
	t.Run("multidim mc variant has nine axes", func(t *testing.T) {
		config := DefaultConfiguration()
		config.UseMultidimHisto = true
		config.ProcessMC = true
		task := newTask(t, config, nil)
		h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
		assert.Len(t, h.Axes, 9)
		assert.Equal(t, "trueK0", h.Axes[8].Name)
	})
	t.Run("tpc plot is optional", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		assert.False(t, task.DauResolution.Has("h3_tpc_vs_pid_hypothesis"))

		config := DefaultConfiguration()
		config.EnableTPCPlot = true
		task = newTask(t, config, nil)
		assert.True(t, task.DauResolution.Has("h3_tpc_vs_pid_hypothesis"))
	})
	t.Run("registries come in a fixed order", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		regs := task.Registries()
		require.Len(t, regs, 2)
		assert.Equal(t, "K0sResolution", regs[0].Name)
		assert.Equal(t, "K0sDauResolution", regs[1].Name)
	})
}

func TestTaskAcceptedCandidate(t *testing.T) {
	task := newTask(t, DefaultConfiguration(), nil)
	ev := signalEvent(DATA_EVENT)
	task.ProcessEvent(ev)

	assert.EqualValues(t, 1, task.EventsProcessed)
	assert.EqualValues(t, 1, task.V0Seen)
	assert.EqualValues(t, 1, task.V0Accepted)

	assert.Equal(t, 1., eventsBinSumW(t, task, 0), "one event tick at 0.5")
	assert.Equal(t, 1., eventsBinSumW(t, task, 1), "one candidate tick at 1.5")

	for _, name := range []string{"h2_masspT", "h2_masseta", "h2_massphi"} {
		require.NotNil(t, task.Resolution.H2D(name), name)
		assert.EqualValues(t, 1, task.Resolution.H2D(name).Entries(), name)
	}

	// the single filled bin contains the candidate mass and pt
	v0 := &ev.V0s[0]
	mass := float64(v0.MK0Short)
	h := findHist(t, task.Resolution.Snapshot(), "h2_masspT")
	require.Len(t, h.Bins2D, 1)
	b := h.Bins2D[0]
	assert.LessOrEqual(t, b.XLow, mass)
	assert.Less(t, mass, b.XHigh)
	assert.LessOrEqual(t, b.YLow, v0.Pt())
	assert.Less(t, v0.Pt(), b.YHigh)
}

func TestTaskRecomputedMass(t *testing.T) {
	config := DefaultConfiguration()
	config.ComputeInvMassFromDaughters = true
	task := newTask(t, config, nil)
	ev := signalEvent(DATA_EVENT)
	task.ProcessEvent(ev)

	v0 := &ev.V0s[0]
	h := findHist(t, task.Resolution.Snapshot(), "h2_masspT")
	require.Len(t, h.Bins2D, 1)
	b := h.Bins2D[0]
	// recomputed from track momenta, lands next to the stored mass
	assert.LessOrEqual(t, b.XLow, float64(v0.MK0Short)+1e-4)
	assert.GreaterOrEqual(t, b.XHigh, float64(v0.MK0Short)-1e-4)
}

func TestTaskEventFilters(t *testing.T) {
	t.Run("broken events are dropped", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		ev := signalEvent(DATA_EVENT)
		ev.Error = true
		task.ProcessEvent(ev)
		assert.EqualValues(t, 0, task.EventsProcessed)
		assert.Equal(t, 0., eventsBinSumW(t, task, 0))
	})
	t.Run("missing sel8 drops the event", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		ev := signalEvent(DATA_EVENT)
		ev.Header.EventFlags = 0
		task.ProcessEvent(ev)
		assert.EqualValues(t, 0, task.EventsProcessed)
		assert.Equal(t, 0., eventsBinSumW(t, task, 0))
	})
	t.Run("vertex outside the window drops the event", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		ev := signalEvent(DATA_EVENT)
		ev.Header.VertexZ = 11
		task.ProcessEvent(ev)
		assert.EqualValues(t, 0, task.EventsProcessed)
	})
}

func TestTaskPreFilterSkipsCandidate(t *testing.T) {
	task := newTask(t, DefaultConfiguration(), nil)
	ev := signalEvent(DATA_EVENT)
	ev.V0s[0].CosPA = 0.99
	task.ProcessEvent(ev)

	assert.EqualValues(t, 1, task.EventsProcessed)
	assert.EqualValues(t, 0, task.V0Seen, "prefiltered candidates are not counted as seen")
	assert.Equal(t, 1., eventsBinSumW(t, task, 0))
	assert.Equal(t, 0., eventsBinSumW(t, task, 1))
	assert.EqualValues(t, 0, task.Resolution.H2D("h2_masspT").Entries())
}

func TestTaskUnresolvedDaughterLink(t *testing.T) {
	t.Run("positive daughter", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		ev := signalEvent(DATA_EVENT)
		ev.V0s[0].PosTrackID = 999
		task.ProcessEvent(ev)
		assert.EqualValues(t, 1, task.V0Seen, "seen tick happens before track resolution")
		assert.EqualValues(t, 0, task.V0Accepted)
		assert.EqualValues(t, 0, task.Resolution.H2D("h2_masspT").Entries())
	})
	t.Run("negative daughter", func(t *testing.T) {
		task := newTask(t, DefaultConfiguration(), nil)
		ev := signalEvent(DATA_EVENT)
		ev.V0s[0].NegTrackID = 999
		task.ProcessEvent(ev)
		assert.EqualValues(t, 1, task.V0Seen)
		assert.EqualValues(t, 0, task.V0Accepted)
	})
}

func TestTaskRejectedCandidate(t *testing.T) {
	// the positive daughter carries no TOF signal, requiring one rejects
	task := newTask(t, DefaultConfiguration(), func(cuts *SelectionCuts) {
		cuts.TOFSelectionPos = DetectorRequired
	})
	ev := signalEvent(DATA_EVENT)
	task.ProcessEvent(ev)

	assert.EqualValues(t, 1, task.EventsProcessed)
	assert.EqualValues(t, 1, task.V0Seen)
	assert.EqualValues(t, 0, task.V0Accepted)
	assert.Equal(t, 1., eventsBinSumW(t, task, 0))
	assert.Equal(t, 1., eventsBinSumW(t, task, 1))
	assert.EqualValues(t, 0, task.Resolution.H2D("h2_masspT").Entries())
}

func mcConfiguration() Configuration {
	config := DefaultConfiguration()
	config.ProcessData = false
	config.ProcessMC = true
	return config
}

func TestTaskMCAcceptedCandidate(t *testing.T) {
	task := newTask(t, mcConfiguration(), nil)
	ev := signalEvent(MC_EVENT)
	task.ProcessEvent(ev)

	assert.EqualValues(t, 1, task.V0Seen)
	assert.EqualValues(t, 1, task.V0Accepted)

	dau := task.DauResolution.Snapshot()
	for _, name := range []string{
		"h2_massPosPtRes", "h2_massNegPtRes",
		"h2_genPtPosPtRes", "h2_genPxPosPxRes", "h2_genPyPosPyRes", "h2_genPzPosPzRes",
		"h2_genPtNegPtRes", "h2_genPxNegPxRes", "h2_genPyNegPyRes", "h2_genPzNegPzRes",
	} {
		assert.EqualValues(t, 1, findHist(t, dau, name).Entries, name)
	}
	for _, name := range []string{"h2_masspT", "h2_masseta", "h2_massphi"} {
		assert.EqualValues(t, 1, task.Resolution.H2D(name).Entries(), name)
	}

	// unsmeared fixture: the residual lands in a bin touching zero
	h := findHist(t, dau, "h2_genPtPosPtRes")
	require.Len(t, h.Bins2D, 1)
	center := 0.5 * (h.Bins2D[0].XLow + h.Bins2D[0].XHigh)
	assert.InDelta(t, 0, center, 0.0021)
}

func TestTaskMCSpeciesGate(t *testing.T) {
	t.Run("wrong positive species", func(t *testing.T) {
		task := newTask(t, mcConfiguration(), nil)
		ev := signalEvent(MC_EVENT)
		ev.McParticles[1].PdgCode = PDGKPlus
		task.ProcessEvent(ev)
		assert.EqualValues(t, 1, task.V0Seen)
		assert.EqualValues(t, 0, task.V0Accepted)
		assert.EqualValues(t, 0, task.Resolution.H2D("h2_masspT").Entries())
		assert.EqualValues(t, 0, findHist(t, task.DauResolution.Snapshot(), "h2_genPtPosPtRes").Entries)
	})
	t.Run("wrong negative species", func(t *testing.T) {
		task := newTask(t, mcConfiguration(), nil)
		ev := signalEvent(MC_EVENT)
		ev.McParticles[2].PdgCode = PDGPiPlus
		task.ProcessEvent(ev)
		assert.EqualValues(t, 0, task.V0Accepted)
	})
	t.Run("missing positive link", func(t *testing.T) {
		task := newTask(t, mcConfiguration(), nil)
		ev := signalEvent(MC_EVENT)
		ev.Tracks[0].McParticleID = NO_MC_PARTICLE
		task.ProcessEvent(ev)
		assert.EqualValues(t, 1, task.V0Seen)
		assert.EqualValues(t, 0, task.V0Accepted)
	})
	t.Run("dangling negative link", func(t *testing.T) {
		task := newTask(t, mcConfiguration(), nil)
		ev := signalEvent(MC_EVENT)
		ev.Tracks[1].McParticleID = 57
		task.ProcessEvent(ev)
		assert.EqualValues(t, 0, task.V0Accepted)
	})
}

func TestTaskMCVanishingTrueComponent(t *testing.T) {
	task := newTask(t, mcConfiguration(), nil)
	ev := signalEvent(MC_EVENT)
	ev.McParticles[2].Px = 0
	task.ProcessEvent(ev)

	assert.EqualValues(t, 1, task.V0Seen)
	assert.EqualValues(t, 0, task.V0Accepted, "candidates with undefined residuals are skipped whole")
	assert.EqualValues(t, 0, task.Resolution.H2D("h2_masspT").Entries())
	assert.EqualValues(t, 0, findHist(t, task.DauResolution.Snapshot(), "h2_massPosPtRes").Entries)
}

func TestTaskMCMultidimHistogram(t *testing.T) {
	config := mcConfiguration()
	config.UseMultidimHisto = true

	t.Run("linked candidate lands in the true bin", func(t *testing.T) {
		task := newTask(t, config, nil)
		ev := signalEvent(MC_EVENT)
		task.ProcessEvent(ev)

		h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
		assert.EqualValues(t, 1, h.Entries)
		require.Len(t, h.BinsN, 1)
		require.Len(t, h.BinsN[0].Coords, 9)
		assert.Equal(t, 1, h.BinsN[0].Coords[8], "true K0s flag")
	})
	t.Run("unlinked candidate lands in the false bin", func(t *testing.T) {
		task := newTask(t, config, nil)
		ev := signalEvent(MC_EVENT)
		ev.V0s[0].McParticleID = NO_MC_PARTICLE
		task.ProcessEvent(ev)

		h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
		require.Len(t, h.BinsN, 1)
		assert.Equal(t, 0, h.BinsN[0].Coords[8])
	})
	t.Run("mother link to another species is not a true K0s", func(t *testing.T) {
		task := newTask(t, config, nil)
		ev := signalEvent(MC_EVENT)
		ev.McParticles[0].PdgCode = PDGKPlus
		task.ProcessEvent(ev)

		h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
		require.Len(t, h.BinsN, 1)
		assert.Equal(t, 0, h.BinsN[0].Coords[8])
	})
}

func TestTaskDataMultidimHistogram(t *testing.T) {
	config := DefaultConfiguration()
	config.UseMultidimHisto = true
	task := newTask(t, config, nil)
	ev := signalEvent(DATA_EVENT)
	task.ProcessEvent(ev)

	h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
	assert.EqualValues(t, 1, h.Entries)
	require.Len(t, h.BinsN, 1)
	assert.Len(t, h.BinsN[0].Coords, 6)
}

func TestTaskBothModes(t *testing.T) {
	config := DefaultConfiguration()
	config.ProcessMC = true
	config.UseMultidimHisto = true
	task := newTask(t, config, nil)
	ev := signalEvent(MC_EVENT)
	task.ProcessEvent(ev)

	assert.EqualValues(t, 1, task.EventsProcessed)
	assert.EqualValues(t, 2, task.V0Seen, "each mode walks the candidates")
	assert.EqualValues(t, 2, task.V0Accepted)
	assert.Equal(t, 2., eventsBinSumW(t, task, 0))
	assert.Equal(t, 2., eventsBinSumW(t, task, 1))
	assert.EqualValues(t, 2, task.Resolution.H2D("h2_masspT").Entries())

	// with both modes the sparse histogram carries the MC axes and is
	// filled from the MC pass only
	h := findHist(t, task.Resolution.Snapshot(), "thn_mass")
	assert.EqualValues(t, 1, h.Entries)
	require.Len(t, h.BinsN, 1)
	assert.Len(t, h.BinsN[0].Coords, 9)
}

func TestTaskTPCPlot(t *testing.T) {
	config := DefaultConfiguration()
	config.EnableTPCPlot = true
	task := newTask(t, config, nil)
	ev := signalEvent(DATA_EVENT)
	task.ProcessEvent(ev)

	h := findHist(t, task.DauResolution.Snapshot(), "h3_tpc_vs_pid_hypothesis")
	assert.EqualValues(t, 2, h.Entries, "one fill per daughter")
	require.Len(t, h.BinsN, 2)

	// the negative daughter enters with flipped momentum sign
	inner := h.Axes[0]
	width := (inner.Max - inner.Min) / float64(inner.Bins)
	lowEdge := func(bin int) float64 { return inner.Min + float64(bin)*width }
	var below, above int
	for _, b := range h.BinsN {
		if lowEdge(b.Coords[0]) < 0 {
			below++
		} else {
			above++
		}
	}
	assert.Equal(t, 1, below)
	assert.Equal(t, 1, above)
}

func TestTaskMultipleEvents(t *testing.T) {
	task := newTask(t, DefaultConfiguration(), nil)
	for i := 0; i < 3; i++ {
		task.ProcessEvent(signalEvent(DATA_EVENT))
	}
	assert.EqualValues(t, 3, task.EventsProcessed)
	assert.EqualValues(t, 3, task.V0Accepted)
	assert.Equal(t, 3., eventsBinSumW(t, task, 0))
	assert.EqualValues(t, 3, task.Resolution.H2D("h2_masspT").Entries())
}
