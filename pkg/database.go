package k0sperf

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

type SelectionCutsEntry struct {
	V0CosPA           float64 `db:"V0CosPA"`
	DCAV0Daughters    float64 `db:"DCAV0Dau"`
	DCAPosToPV        float64 `db:"DCAPosToPV"`
	DCANegToPV        float64 `db:"DCANegToPV"`
	V0Radius          float64 `db:"V0Radius"`
	V0Rapidity        float64 `db:"V0Rapidity"`
	V0Lifetime        float64 `db:"V0Lifetime"`
	MaxTPCNSigma      float64 `db:"MaxTPCNSigma"`
	MinTPCCrossedRows float64 `db:"MinTPCCrossedRows"`
	ITSIbSelectionPos int     `db:"ITSIbSelectionPos"`
	ITSIbSelectionNeg int     `db:"ITSIbSelectionNeg"`
	TOFSelectionPos   int     `db:"TOFSelectionPos"`
	TOFSelectionNeg   int     `db:"TOFSelectionNeg"`
	TRDSelectionPos   int     `db:"TRDSelectionPos"`
	TRDSelectionNeg   int     `db:"TRDSelectionNeg"`
	PIDHypoPos        int     `db:"PIDHypoPos"`
	PIDHypoNeg        int     `db:"PIDHypoNeg"`
	CutZVertex        float64 `db:"CutZVertex"`
	EventSel          int     `db:"EventSel"`
}

// LoadSelectionCuts reads the cuts valid for the given run. With
// overlapping validity windows the most recent one wins. A nil result
// without error means no row covers the run and the caller should fall
// back to the configuration file.
func LoadSelectionCuts(db *sqlx.DB, runNumber int) (*SelectionCuts, error) {
	query := "SELECT V0CosPA, DCAV0Dau, DCAPosToPV, DCANegToPV, V0Radius, V0Rapidity, V0Lifetime, " +
		"MaxTPCNSigma, MinTPCCrossedRows, ITSIbSelectionPos, ITSIbSelectionNeg, TOFSelectionPos, TOFSelectionNeg, " +
		"TRDSelectionPos, TRDSelectionNeg, PIDHypoPos, PIDHypoNeg, CutZVertex, EventSel " +
		"FROM V0SelectionCuts WHERE MinRun <= %d and MaxRun >= %d ORDER BY MinRun"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading V0 selection cuts for run %d from database", runNumber)
		logger.Info(message, "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}

	var cuts *SelectionCuts
	for rows.Next() {
		result := SelectionCutsEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		cuts = &SelectionCuts{
			V0CosPA:           result.V0CosPA,
			DCAV0Daughters:    result.DCAV0Daughters,
			DCAPosToPV:        result.DCAPosToPV,
			DCANegToPV:        result.DCANegToPV,
			V0Radius:          result.V0Radius,
			V0Rapidity:        result.V0Rapidity,
			V0Lifetime:        result.V0Lifetime,
			MaxTPCNSigma:      result.MaxTPCNSigma,
			MinTPCCrossedRows: result.MinTPCCrossedRows,
			ITSIbSelectionPos: DetectorSelection(result.ITSIbSelectionPos),
			ITSIbSelectionNeg: DetectorSelection(result.ITSIbSelectionNeg),
			TOFSelectionPos:   DetectorSelection(result.TOFSelectionPos),
			TOFSelectionNeg:   DetectorSelection(result.TOFSelectionNeg),
			TRDSelectionPos:   DetectorSelection(result.TRDSelectionPos),
			TRDSelectionNeg:   DetectorSelection(result.TRDSelectionNeg),
			PIDHypoPos:        PIDHypothesisSelection(result.PIDHypoPos),
			PIDHypoNeg:        PIDHypothesisSelection(result.PIDHypoNeg),
			CutZVertex:        result.CutZVertex,
			EventSelection:    result.EventSel != 0,
		}
	}
	return cuts, nil
}
