package main

import (
	"fmt"

	k0sperf "github.com/alice-perf/k0sperf_go/pkg"
)

func printConfiguration(config k0sperf.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("YODA out: %s", config.YodaOut), "config")
	logger.Info(fmt.Sprintf("Summary DB: %s", config.SummaryDB), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Process data: %t", config.ProcessData), "config")
	logger.Info(fmt.Sprintf("Process MC: %t", config.ProcessMC), "config")
	logger.Info(fmt.Sprintf("Multidimensional histogram: %t", config.UseMultidimHisto), "config")
	logger.Info(fmt.Sprintf("TPC plot: %t", config.EnableTPCPlot), "config")
	logger.Info(fmt.Sprintf("Mass from daughters: %t", config.ComputeInvMassFromDaughters), "config")
	logger.Info(fmt.Sprintf("Mass binning: %s", axisString(config.MBins)), "config")
	logger.Info(fmt.Sprintf("pT binning: %s", axisString(config.PtBins)), "config")
	logger.Info(fmt.Sprintf("pT resolution binning: %s", axisString(config.PtResBins)), "config")
	logger.Info(fmt.Sprintf("Relative pT resolution binning: %s", axisString(config.PtResRelBins)), "config")
	logger.Info(fmt.Sprintf("Inverse pT resolution binning: %s", axisString(config.InvPtResBins)), "config")
	logger.Info(fmt.Sprintf("Eta binning: %s", axisString(config.EtaBins)), "config")
	logger.Info(fmt.Sprintf("Daughter eta binning: %s", axisString(config.EtaBinsDaughters)), "config")
	logger.Info(fmt.Sprintf("Phi binning: %s", axisString(config.PhiBins)), "config")
	logger.Info(fmt.Sprintf("V0 CosPA: %g", config.V0CosPA), "config")
	logger.Info(fmt.Sprintf("DCA V0 daughters: %g", config.DCAV0Daughters), "config")
	logger.Info(fmt.Sprintf("DCA pos to PV: %g", config.DCAPosToPV), "config")
	logger.Info(fmt.Sprintf("DCA neg to PV: %g", config.DCANegToPV), "config")
	logger.Info(fmt.Sprintf("V0 radius: %g", config.V0Radius), "config")
	logger.Info(fmt.Sprintf("V0 rapidity: %g", config.V0Rapidity), "config")
	logger.Info(fmt.Sprintf("V0 lifetime: %g", config.V0Lifetime), "config")
	logger.Info(fmt.Sprintf("Max TPC nsigma: %g", config.MaxTPCNSigma), "config")
	logger.Info(fmt.Sprintf("Min TPC crossed rows: %g", config.MinTPCCrossedRows), "config")
	logger.Info(fmt.Sprintf("ITS IB selection pos: %s", config.ITSIbSelectionPos), "config")
	logger.Info(fmt.Sprintf("ITS IB selection neg: %s", config.ITSIbSelectionNeg), "config")
	logger.Info(fmt.Sprintf("TOF selection pos: %s", config.TOFSelectionPos), "config")
	logger.Info(fmt.Sprintf("TOF selection neg: %s", config.TOFSelectionNeg), "config")
	logger.Info(fmt.Sprintf("TRD selection pos: %s", config.TRDSelectionPos), "config")
	logger.Info(fmt.Sprintf("TRD selection neg: %s", config.TRDSelectionNeg), "config")
	logger.Info(fmt.Sprintf("PID hypothesis pos: %s", config.PIDHypoPos), "config")
	logger.Info(fmt.Sprintf("PID hypothesis neg: %s", config.PIDHypoNeg), "config")
	logger.Info(fmt.Sprintf("Z vertex cut: %g", config.CutZVertex), "config")
	logger.Info(fmt.Sprintf("Event selection: %t", config.EventSelection), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
}

func axisString(axis k0sperf.AxisConfig) string {
	return fmt.Sprintf("%d bins in [%g, %g]", axis.Bins, axis.Min, axis.Max)
}
