package dbtools

import (
	"database/sql"
	"fmt"
)

// Frame is the fully materialised result set of a read statement: column
// names in result order and row values in the order the server returned
// them. A Frame is built once per call and never retained by the package;
// the caller owns it outright.
type Frame struct {
	// Columns holds the result column names, in result order.
	Columns []string

	// Rows holds one slice per row, indexed to match Columns.
	Rows [][]any
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Empty reports whether the frame holds no rows.
func (f *Frame) Empty() bool {
	return len(f.Rows) == 0
}

// Records returns the rows as column-keyed maps, in row order. When the
// result set repeats a column name, the later column wins, which matches
// how map-based row containers behave across drivers.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		record := make(map[string]any, len(f.Columns))
		for i, column := range f.Columns {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

// scanFrame drains rows into a Frame, normalising []byte cells to string
// so values compare and print the same regardless of driver. The caller
// remains responsible for closing rows.
func scanFrame(rows *sql.Rows) (*Frame, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	frame := &Frame{
		Columns: columns,
		Rows:    [][]any{},
	}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}

		for i, value := range values {
			if b, ok := value.([]byte); ok {
				values[i] = string(b)
			}
		}

		frame.Rows = append(frame.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}

	return frame, nil
}
