package excel

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"tollkit/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used when writing XLSX output
const DefaultSheet = "Sheet1"

// WriteFrame writes df to path as CSV or XLSX depending on the extension
func WriteFrame(path string, df dataframe.DataFrame) error {
	return WriteTable(path, DefaultSheet, df)
}

// WriteTable writes df as CSV for a .csv path or onto sheet for a .xlsx path.
// Extensions are matched case-insensitively; anything else is INVALID_INPUT.
func WriteTable(path, sheet string, df dataframe.DataFrame) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, df)
	case ".xlsx":
		return WriteSheet(path, sheet, df)
	default:
		return errors.InvalidInput("unsupported output file " + path + ": expected .csv or .xlsx")
	}
}

func writeCSV(path string, df dataframe.DataFrame) (err error) {
	if df.Err != nil {
		return errors.Wrap(errors.InvalidInput(df.Err.Error()), "cannot write invalid table")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close %s", path)
		}
	}()

	if err := df.WriteCSV(file); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// WriteSheet stores df on a single named sheet of a new XLSX file, numeric
// columns as numbers
func WriteSheet(path, sheet string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return errors.Wrap(errors.InvalidInput(df.Err.Error()), "cannot write invalid table")
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return errors.Wrapf(err, "failed to name sheet %s", sheet)
		}
	}

	for c, name := range df.Names() {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return errors.Wrapf(err, "failed to write header %s", name)
		}
	}

	for c, name := range df.Names() {
		col := df.Col(name)
		numeric := col.Type() == series.Float || col.Type() == series.Int
		for i := 0; i < col.Len(); i++ {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			elem := col.Elem(i)

			var value interface{}
			switch {
			case elem.IsNA():
				continue
			case numeric:
				v := elem.Float()
				if math.IsNaN(v) {
					continue
				}
				value = v
			default:
				value = strings.TrimSpace(elem.String())
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrapf(err, "failed to write cell %s", cell)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}
