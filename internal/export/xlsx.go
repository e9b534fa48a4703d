package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/aditasap/bizscope/internal/scrape"
)

// XLSXFile writes reports as a single-sheet XLSX workbook at path.
func XLSXFile(path string, reports []*scrape.Report) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("reports")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	cols := columns(reports)
	header := sheet.AddRow()
	for _, col := range cols {
		header.AddCell().SetString(col)
	}
	for _, r := range reports {
		xr := sheet.AddRow()
		for _, cell := range row(r, cols) {
			xr.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
