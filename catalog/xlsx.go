package catalog

import (
	"github.com/xuri/excelize/v2"
)

// readXLSX returns the rows of the first sheet. excelize drops trailing
// empty cells, so rows may be shorter than the header.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	return f.GetRows(sheets[0])
}
