package models

import "time"

// TypeVolume is the produced volume of one product type inside a report period.
type TypeVolume struct {
	Type    string  `bson:"type" json:"type"`
	Litres  float64 `bson:"litres" json:"litres"`
	Percent float64 `bson:"percent" json:"percent"`
}

// MonthlyStockReport gathers the production batches of one calendar month.
type MonthlyStockReport struct {
	Start          Date              `json:"start"`
	End            Date              `json:"end"`
	Batches        []ProductionBatch `json:"batches"`
	TotalProducedL float64           `json:"total_produced_l"`
	ByType         []TypeVolume      `json:"by_type"`
}

// Period returns the yyyy-mm key of the report.
func (r MonthlyStockReport) Period() string {
	return r.Start.Time().Format("2006-01")
}

// Summary flattens the report into the archived document.
func (r MonthlyStockReport) Summary(generatedAt time.Time) StockReportSummary {
	return StockReportSummary{
		Period:         r.Period(),
		Start:          r.Start.Time(),
		End:            r.End.Time(),
		BatchCount:     len(r.Batches),
		TotalProducedL: r.TotalProducedL,
		ByType:         r.ByType,
		CreatedAt:      generatedAt,
	}
}

// StockReportSummary is the archived form of a monthly stock report.
type StockReportSummary struct {
	Period         string       `bson:"period" json:"period"`
	Start          time.Time    `bson:"start" json:"start"`
	End            time.Time    `bson:"end" json:"end"`
	BatchCount     int          `bson:"batch_count" json:"batch_count"`
	TotalProducedL float64      `bson:"total_produced_l" json:"total_produced_l"`
	ByType         []TypeVolume `bson:"by_type" json:"by_type"`
	CreatedAt      time.Time    `bson:"created_at" json:"created_at"`
}
