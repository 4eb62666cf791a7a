package k0sperf

import (
	"errors"
)

// ResolutionTask accumulates the K0s mass and momentum resolution
// histograms. Configuration and cuts are fixed at construction, the
// only state mutated while processing are the registries and counters.
type ResolutionTask struct {
	config Configuration
	cuts   SelectionCuts

	Resolution    *Registry
	DauResolution *Registry

	EventsProcessed int64
	V0Seen          int64
	V0Accepted      int64
}

func NewResolutionTask(config Configuration, cuts SelectionCuts) *ResolutionTask {
	return &ResolutionTask{
		config:        config,
		cuts:          cuts,
		Resolution:    NewRegistry("K0sResolution"),
		DauResolution: NewRegistry("K0sDauResolution"),
	}
}

// Registries returns the output groups in a fixed order.
func (t *ResolutionTask) Registries() []*Registry {
	return []*Registry{t.Resolution, t.DauResolution}
}

// Init defines the axes and registers every histogram enabled by the
// configuration. It must run once before the first event.
func (t *ResolutionTask) Init() error {
	res := t.Resolution
	dau := t.DauResolution

	if t.config.ProcessData {
		logger.Info("processData enabled", "task")
	}
	if t.config.ProcessMC {
		logger.Info("processMC enabled", "task")
	}

	eventAxis := res.DefineAxis("event", 10, 0, 10, "Events")
	mAxis := res.DefineAxis("m", t.config.MBins.Bins, t.config.MBins.Min, t.config.MBins.Max, "#it{m} (GeV/#it{c}^{2})")
	pTAxis := res.DefineAxis("pT", t.config.PtBins.Bins, t.config.PtBins.Min, t.config.PtBins.Max, "#it{p}_{T} (GeV/#it{c})")
	etaAxis := res.DefineAxis("eta", t.config.EtaBins.Bins, t.config.EtaBins.Min, t.config.EtaBins.Max, "#eta")
	phiAxis := res.DefineAxis("phi", t.config.PhiBins.Bins, t.config.PhiBins.Min, t.config.PhiBins.Max, "#phi")

	var errs []error
	errs = append(errs, res.Register("h1_events", TH1F, eventAxis))

	if t.config.ProcessMC {
		mAxisDau := dau.DefineAxis("m", t.config.MBins.Bins, t.config.MBins.Min, t.config.MBins.Max, "#it{m} (GeV/#it{c}^{2})")
		pTAxisDau := dau.DefineAxis("pT", t.config.PtBins.Bins, t.config.PtBins.Min, t.config.PtBins.Max, "#it{p}_{T} (GeV/#it{c})")
		pTResAxis := dau.DefineAxis("pTRes", t.config.PtResBins.Bins, t.config.PtResBins.Min, t.config.PtResBins.Max, "#Delta#it{p}_{T} (GeV/#it{c})")
		pTResRelAxis := dau.DefineAxis("pTResRel", t.config.PtResRelBins.Bins, t.config.PtResRelBins.Min, t.config.PtResRelBins.Max, "(#it{p}_{T}^{rec} - #it{p}_{T}^{MC})/#it{p}_{T}^{MC}")

		errs = append(errs,
			dau.Register("h2_massPosPtRes", TH2F, mAxisDau, pTResAxis),
			dau.Register("h2_massNegPtRes", TH2F, mAxisDau, pTResAxis),

			dau.Register("h2_genPtPosPtRes", TH2F, pTResRelAxis, pTAxisDau),
			dau.Register("h2_genPxPosPxRes", TH2F, pTResRelAxis, pTAxisDau),
			dau.Register("h2_genPyPosPyRes", TH2F, pTResRelAxis, pTAxisDau),
			dau.Register("h2_genPzPosPzRes", TH2F, pTResRelAxis, pTAxisDau),

			dau.Register("h2_genPtNegPtRes", TH2F, pTResRelAxis, pTAxisDau),
			dau.Register("h2_genPxNegPxRes", TH2F, pTResRelAxis, pTAxisDau),
			dau.Register("h2_genPyNegPyRes", TH2F, pTResRelAxis, pTAxisDau),
			dau.Register("h2_genPzNegPzRes", TH2F, pTResRelAxis, pTAxisDau),
		)
	}

	errs = append(errs,
		res.Register("h2_masspT", TH2F, mAxis, pTAxis),
		res.Register("h2_masseta", TH2F, mAxis, etaAxis),
		res.Register("h2_massphi", TH2F, mAxis, phiAxis),
	)

	if t.config.UseMultidimHisto {
		etaAxisPosD := res.DefineAxis("etaPosD", t.config.EtaBinsDaughters.Bins, t.config.EtaBinsDaughters.Min, t.config.EtaBinsDaughters.Max, "#eta pos.")
		etaAxisNegD := res.DefineAxis("etaNegD", t.config.EtaBinsDaughters.Bins, t.config.EtaBinsDaughters.Min, t.config.EtaBinsDaughters.Max, "#eta neg.")
		if t.config.ProcessMC {
			invpTResAxis := res.DefineAxis("invpTRes", t.config.InvPtResBins.Bins, t.config.InvPtResBins.Min, t.config.InvPtResBins.Max, "1/#it{p}_{T}-1/#it{p}_{T}^{MC} (GeV/#it{c})^{-1}")
			trueK0Axis := res.DefineAxis("trueK0", 2, -0.5, 1.5, "True K0")
			errs = append(errs, res.Register("thn_mass", THnSparseF,
				mAxis, pTAxis, etaAxis, phiAxis, etaAxisPosD, etaAxisNegD, invpTResAxis, invpTResAxis, trueK0Axis))
		} else {
			errs = append(errs, res.Register("thn_mass", THnSparseF,
				mAxis, pTAxis, etaAxis, phiAxis, etaAxisPosD, etaAxisNegD))
		}
	}

	if t.config.EnableTPCPlot {
		tpcInnerParamAxis := dau.DefineAxis("tpcInnerParam", 200, -10., 10., "#it{p}/Z (GeV/#it{c})")
		tpcSignalAxis := dau.DefineAxis("tpcSignal", 1000, 0., 1000., "dE/dx (a.u.)")
		pidHypothesisAxis := dau.DefineAxis("pidHypothesis", 10, -0.5, 9.5, "PID hypothesis")
		errs = append(errs, dau.Register("h3_tpc_vs_pid_hypothesis", TH3F,
			tpcInnerParamAxis, tpcSignalAxis, pidHypothesisAxis))
	}

	return errors.Join(errs...)
}

// ProcessEvent runs the enabled processing modes on one decoded event.
// Events flagged as broken by the decoder and events failing the
// collision selection are dropped before any histogram is touched.
func (t *ResolutionTask) ProcessEvent(ev *Event) {
	if ev.Error {
		return
	}
	if !PreFilterCollision(&ev.Header, &t.cuts) {
		return
	}
	t.EventsProcessed++
	if t.config.ProcessData {
		t.processData(ev)
	}
	if t.config.ProcessMC {
		t.processMC(ev)
	}
}

func (t *ResolutionTask) processData(ev *Event) {
	col := &ev.Header
	t.Resolution.Fill("h1_events", 0.5)
	for i := range ev.V0s {
		v0 := &ev.V0s[i]
		if !PreFilterV0(v0, &t.cuts) {
			continue
		}
		t.Resolution.Fill("h1_events", 1.5)
		t.V0Seen++
		ptrack, ok := ev.Track(v0.PosTrackID)
		if !ok {
			continue
		}
		ntrack, ok := ev.Track(v0.NegTrackID)
		if !ok {
			continue
		}
		if !AcceptV0(v0, ntrack, ptrack, col, &t.cuts) {
			continue
		}

		mass := float64(v0.MK0Short)
		if t.config.ComputeInvMassFromDaughters {
			mass = InvariantMass(ptrack.Momentum(), ntrack.Momentum(), MassPionCharged, MassPionCharged)
		}

		t.Resolution.Fill("h2_masspT", mass, v0.Pt())
		t.Resolution.Fill("h2_masseta", mass, v0.Eta())
		t.Resolution.Fill("h2_massphi", mass, v0.Phi())
		if t.config.UseMultidimHisto && !t.config.ProcessMC {
			// With both modes enabled thn_mass carries the MC axes and
			// is filled from the MC path only.
			t.Resolution.Fill("thn_mass", mass, v0.Pt(), v0.Eta(), v0.Phi(), ptrack.Eta(), ntrack.Eta())
		}
		if t.config.EnableTPCPlot {
			t.DauResolution.Fill("h3_tpc_vs_pid_hypothesis", float64(ptrack.TPCInnerParam), float64(ptrack.TPCSignal), float64(ptrack.TrackingPID))
			t.DauResolution.Fill("h3_tpc_vs_pid_hypothesis", -float64(ntrack.TPCInnerParam), float64(ntrack.TPCSignal), float64(ntrack.TrackingPID))
		}
		t.V0Accepted++
	}
}

func (t *ResolutionTask) processMC(ev *Event) {
	col := &ev.Header
	t.Resolution.Fill("h1_events", 0.5)
	for i := range ev.V0s {
		v0 := &ev.V0s[i]
		if !PreFilterV0(v0, &t.cuts) {
			continue
		}
		t.Resolution.Fill("h1_events", 1.5)
		t.V0Seen++
		ptrack, ok := ev.Track(v0.PosTrackID)
		if !ok {
			continue
		}
		ntrack, ok := ev.Track(v0.NegTrackID)
		if !ok {
			continue
		}
		if !AcceptV0(v0, ntrack, ptrack, col, &t.cuts) {
			continue
		}
		posMC, ok := ev.McParticle(ptrack.McParticleID)
		if !ok {
			continue
		}
		negMC, ok := ev.McParticle(ntrack.McParticleID)
		if !ok {
			continue
		}
		if posMC.PdgCode != PDGPiPlus || negMC.PdgCode != PDGPiMinus {
			continue
		}
		if !residualsDefined(v0, posMC, negMC) {
			continue
		}

		mass := float64(v0.MK0Short)
		if t.config.ComputeInvMassFromDaughters {
			mass = InvariantMass(ptrack.Momentum(), ntrack.Momentum(), MassPionCharged, MassPionCharged)
		}
		trueK0 := 0.
		if v0MC, ok := ev.McParticle(v0.McParticleID); ok && v0MC.PdgCode == PDGK0Short {
			trueK0 = 1.
		}

		t.DauResolution.Fill("h2_genPtPosPtRes", RelativeResidual(v0.PositivePt(), posMC.Pt()), posMC.Pt())
		t.DauResolution.Fill("h2_genPxPosPxRes", RelativeResidual(float64(v0.PxPos), float64(posMC.Px)), float64(posMC.Px))
		t.DauResolution.Fill("h2_genPyPosPyRes", RelativeResidual(float64(v0.PyPos), float64(posMC.Py)), float64(posMC.Py))
		t.DauResolution.Fill("h2_genPzPosPzRes", RelativeResidual(float64(v0.PzPos), float64(posMC.Pz)), float64(posMC.Pz))

		t.DauResolution.Fill("h2_genPtNegPtRes", RelativeResidual(v0.NegativePt(), negMC.Pt()), negMC.Pt())
		t.DauResolution.Fill("h2_genPxNegPxRes", RelativeResidual(float64(v0.PxNeg), float64(negMC.Px)), float64(negMC.Px))
		t.DauResolution.Fill("h2_genPyNegPyRes", RelativeResidual(float64(v0.PyNeg), float64(negMC.Py)), float64(negMC.Py))
		t.DauResolution.Fill("h2_genPzNegPzRes", RelativeResidual(float64(v0.PzNeg), float64(negMC.Pz)), float64(negMC.Pz))

		t.DauResolution.Fill("h2_massPosPtRes", mass, v0.PositivePt()-posMC.Pt())
		t.DauResolution.Fill("h2_massNegPtRes", mass, v0.NegativePt()-negMC.Pt())
		t.Resolution.Fill("h2_masspT", mass, v0.Pt())
		t.Resolution.Fill("h2_masseta", mass, v0.Eta())
		t.Resolution.Fill("h2_massphi", mass, v0.Phi())
		if t.config.UseMultidimHisto {
			t.Resolution.Fill("thn_mass", mass, v0.Pt(), v0.Eta(), v0.Phi(), ptrack.Eta(), ntrack.Eta(),
				InversePtResidual(v0.PositivePt(), posMC.Pt()),
				InversePtResidual(v0.NegativePt(), negMC.Pt()),
				trueK0)
		}
		t.V0Accepted++
	}
}

// residualsDefined rejects candidates whose residuals would divide by a
// vanishing generated component or transverse momentum. Such candidates
// are skipped whole so every histogram sees the same entries.
func residualsDefined(v0 *V0Record, posMC, negMC *McParticleRecord) bool {
	if posMC.Pt() <= 0 || negMC.Pt() <= 0 {
		return false
	}
	if v0.PositivePt() <= 0 || v0.NegativePt() <= 0 {
		return false
	}
	for _, c := range []float32{posMC.Px, posMC.Py, posMC.Pz, negMC.Px, negMC.Py, negMC.Pz} {
		if c == 0 {
			return false
		}
	}
	return true
}
