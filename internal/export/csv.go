// Package export writes book listings to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Separator is the CSV field delimiter.
const Separator = ';'

// WriteCSV writes header, then one line per row in record order. A nil
// header takes the column names of the first row. NULL values are written as
// empty fields.
func WriteCSV(w io.Writer, header []string, rows []types.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	if header == nil && len(rows) > 0 {
		header = rows[0].Names()
	}
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	line := make([]string, 0, 16)
	for _, r := range rows {
		line = line[:0]
		for _, f := range r {
			line = append(line, field(f.Value))
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes header and rows to the file at path, replacing it.
func WriteFile(path string, header []string, rows []types.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, header, rows)
}

func field(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []byte:
		return string(x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return types.FormatTimestamp(x)
	}
	return fmt.Sprint(v)
}
