package k0sperf

import (
	"encoding/json"
	"os"
)

// AxisConfig is a configurable histogram binning: bin count and range.
type AxisConfig struct {
	Bins int     `json:"bins"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

type Configuration struct {
	// Configurable binnings
	MBins            AxisConfig `json:"m_bins"`
	PtBins           AxisConfig `json:"pt_bins"`
	PtResBins        AxisConfig `json:"pt_res_bins"`
	PtResRelBins     AxisConfig `json:"pt_res_rel_bins"`
	InvPtResBins     AxisConfig `json:"inv_pt_res_bins"`
	EtaBins          AxisConfig `json:"eta_bins"`
	EtaBinsDaughters AxisConfig `json:"eta_bins_daughters"`
	PhiBins          AxisConfig `json:"phi_bins"`

	// Selection criteria
	V0CosPA           float64                `json:"v0_cospa"`
	DCAV0Daughters    float64                `json:"v0_dcav0dau"`
	DCAPosToPV        float64                `json:"v0_dcapostopv"`
	DCANegToPV        float64                `json:"v0_dcanegtopv"`
	V0Radius          float64                `json:"v0_radius"`
	V0Rapidity        float64                `json:"v0_rapidity"`
	V0Lifetime        float64                `json:"v0_lifetime"`
	MaxTPCNSigma      float64                `json:"max_tpc_nsigma"`
	MinTPCCrossedRows float64                `json:"min_tpc_crossed_rows"`
	ITSIbSelectionPos DetectorSelection      `json:"its_ib_selection_pos"`
	ITSIbSelectionNeg DetectorSelection      `json:"its_ib_selection_neg"`
	TOFSelectionPos   DetectorSelection      `json:"tof_selection_pos"`
	TOFSelectionNeg   DetectorSelection      `json:"tof_selection_neg"`
	TRDSelectionPos   DetectorSelection      `json:"trd_selection_pos"`
	TRDSelectionNeg   DetectorSelection      `json:"trd_selection_neg"`
	PIDHypoPos        PIDHypothesisSelection `json:"pid_hypo_pos"`
	PIDHypoNeg        PIDHypothesisSelection `json:"pid_hypo_neg"`

	// Event selection
	CutZVertex     float64 `json:"cut_z_vertex"`
	EventSelection bool    `json:"event_selection"`

	// Processing switches
	ProcessData                 bool `json:"process_data"`
	ProcessMC                   bool `json:"process_mc"`
	UseMultidimHisto            bool `json:"use_multidim_histo"`
	EnableTPCPlot               bool `json:"enable_tpc_plot"`
	ComputeInvMassFromDaughters bool `json:"compute_inv_mass_from_daughters"`

	// Input, output and infrastructure
	FileIn           string `json:"file_in"`
	FileOut          string `json:"file_out"`
	YodaOut          string `json:"yoda_out"`
	SummaryDB        string `json:"summary_db"`
	MaxEvents        int    `json:"max_events"`
	Skip             int    `json:"skip"`
	Verbosity        int    `json:"verbosity"`
	NoDB             bool   `json:"no_db"`
	Host             string `json:"host"`
	User             string `json:"user"`
	Passwd           string `json:"pass"`
	DBName           string `json:"dbname"`
	NumWorkers       int    `json:"num_workers"`
	WriteData        bool   `json:"write_data"`
	Parallel         bool   `json:"parallel"`
	CompressionLevel int    `json:"compression_level"`
}

// DefaultConfiguration returns the configuration used when a key is
// absent from the file. The selection defaults keep every switch open.
func DefaultConfiguration() Configuration {
	var config Configuration

	config.MBins = AxisConfig{Bins: 200, Min: 0.4, Max: 0.6}
	config.PtBins = AxisConfig{Bins: 200, Min: 0., Max: 10.}
	config.PtResBins = AxisConfig{Bins: 200, Min: -1.2, Max: 1.2}
	config.PtResRelBins = AxisConfig{Bins: 200, Min: -0.2, Max: 0.2}
	config.InvPtResBins = AxisConfig{Bins: 200, Min: -1.2, Max: 1.2}
	config.EtaBins = AxisConfig{Bins: 2, Min: -1., Max: 1.}
	config.EtaBinsDaughters = AxisConfig{Bins: 100, Min: -1., Max: 1.}
	config.PhiBins = AxisConfig{Bins: 100, Min: 0., Max: 6.28}

	config.V0CosPA = 0.995
	config.DCAV0Daughters = 1.
	config.DCAPosToPV = 0.1
	config.DCANegToPV = 0.1
	config.V0Radius = 0.9
	config.V0Rapidity = 0.5
	config.V0Lifetime = 3.
	config.MaxTPCNSigma = 10.
	config.MinTPCCrossedRows = -1.0
	config.ITSIbSelectionPos = DetectorNoSelection
	config.ITSIbSelectionNeg = DetectorNoSelection
	config.TOFSelectionPos = DetectorNoSelection
	config.TOFSelectionNeg = DetectorNoSelection
	config.TRDSelectionPos = DetectorNoSelection
	config.TRDSelectionNeg = DetectorNoSelection
	config.PIDHypoPos = PIDHypoAny
	config.PIDHypoNeg = PIDHypoAny

	config.CutZVertex = 10.0
	config.EventSelection = true

	config.ProcessData = true
	config.ProcessMC = false
	config.UseMultidimHisto = false
	config.EnableTPCPlot = false
	config.ComputeInvMassFromDaughters = false

	config.MaxEvents = 1000000000
	config.Skip = 0
	config.Verbosity = 0
	config.NoDB = false
	config.Host = "alice-perf.cern.ch"
	config.User = "perfreader"
	config.Passwd = "readonly"
	config.DBName = "ALICEPERF"
	config.NumWorkers = 1
	config.WriteData = true
	config.Parallel = false
	config.CompressionLevel = 4

	return config
}

func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
