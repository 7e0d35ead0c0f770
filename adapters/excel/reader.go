package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tollkit/internal"
	"tollkit/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// DataReader loads CSV and XLSX files into data frames
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a reader for filePath; the extension picks CSV or XLSX
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: fileTypeOf(filePath),
		config:   config,
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

func fileTypeOf(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// ReadFrame reads the whole file into a data frame
func (r *DataReader) ReadFrame() (dataframe.DataFrame, error) {
	r.logger.Info("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		r.logger.Warn("File does not exist: %s", r.filePath)
		return dataframe.DataFrame{}, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return dataframe.DataFrame{}, errors.InvalidInput("unsupported file type: " + r.fileType)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	return r.buildFrame(rows)
}

// readExcelRows reads the configured sheet, or the first sheet when none is set
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	r.logger.Debug("Sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVRows reads the CSV file as raw records
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// buildFrame normalizes headers and row widths and hands the records to gota
func (r *DataReader) buildFrame(rows [][]string) (dataframe.DataFrame, error) {
	if len(rows) < 2 {
		return dataframe.DataFrame{}, errors.InvalidInput(
			fmt.Sprintf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType)))
	}

	headers := NormalizeHeaders(rows[0])
	records := make([][]string, 0, len(rows))
	records = append(records, headers)
	for i, row := range rows[1:] {
		if len(row) < len(headers) {
			r.logger.Trace("row %d padded from %d to %d cells", i+1, len(row), len(headers))
		}
		record := make([]string, len(headers))
		for j := range record {
			if j < len(row) {
				record[j] = strings.TrimSpace(row[j])
			}
		}
		records = append(records, record)
	}

	options := []dataframe.LoadOption{dataframe.HasHeader(true)}
	if len(r.config.TextColumns) > 0 {
		types := make(map[string]series.Type, len(r.config.TextColumns))
		for _, col := range r.config.TextColumns {
			types[col] = series.String
		}
		options = append(options, dataframe.WithTypes(types))
	}

	df := dataframe.LoadRecords(records, options...)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.InvalidInput(df.Err.Error()), "failed to build table")
	}

	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), df.Ncol(), df.Nrow())
	return df, nil
}

// NormalizeHeaders trims header cells and names blank ones "Unnamed: <i>",
// the label a spreadsheet index column gets when written without a header.
func NormalizeHeaders(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}
		headers[i] = header
	}
	return headers
}
