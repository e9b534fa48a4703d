package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/aditasap/bizscope/internal/scrape"
)

// WriteCSV writes reports as CSV to w.
func WriteCSV(w io.Writer, reports []*scrape.Report) error {
	cw := csv.NewWriter(w)
	cols := columns(reports)

	if err := cw.Write(cols); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range reports {
		if err := cw.Write(row(r, cols)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// CSVFile writes reports as a CSV file at path.
func CSVFile(path string, reports []*scrape.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = f.Close() }()
	return WriteCSV(f, reports)
}
