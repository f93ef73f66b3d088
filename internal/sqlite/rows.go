package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// scanRecords drains rows into ordered records and closes them.
func scanRecords(rows *sql.Rows) ([]types.Record, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var records []types.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec := make(types.Record, len(cols))
		for i, name := range cols {
			rec[i] = types.Field{Name: name, Value: normalize(values[i])}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// normalize turns driver text blobs into strings.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
