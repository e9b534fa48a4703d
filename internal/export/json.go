package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/aditasap/bizscope/internal/scrape"
)

// WriteJSON writes reports as an indented JSON array to w. A single report
// is still wrapped in an array so consumers parse one shape.
func WriteJSON(w io.Writer, reports []*scrape.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(reports), "export: encode json")
}

// JSONFile writes reports as a JSON file at path.
func JSONFile(path string, reports []*scrape.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = f.Close() }()
	return WriteJSON(f, reports)
}
