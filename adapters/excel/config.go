package excel

// ReaderConfig holds per-file loading options
type ReaderConfig struct {
	Sheet       string   `json:"sheet"`        // XLSX sheet; empty means the first sheet
	TextColumns []string `json:"text_columns"` // columns kept as text instead of type-detected
}

// DefaultReaderConfig returns the options used for dataset-1 and dataset-3
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}

// CoverageReaderConfig keeps the dataset-2 day and clock columns as text
func CoverageReaderConfig() ReaderConfig {
	return ReaderConfig{
		TextColumns: []string{"startDay", "startTime", "endDay", "endTime"},
	}
}
