package repositories

import (
	"database/sql"
	"fmt"
	"strings"
)

// setBuilder collects "column = $n" pairs for partial updates
type setBuilder struct {
	columns []string
	args    []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) addValue(column string, value any) {
	b.args = append(b.args, value)
	b.columns = append(b.columns, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// setField adds column when the optional value is present
func setField[T any](b *setBuilder, column string, value *T) {
	if value != nil {
		b.addValue(column, *value)
	}
}

func (b *setBuilder) empty() bool {
	return len(b.columns) == 0
}

func (b *setBuilder) clause() string {
	return strings.Join(b.columns, ", ")
}

func (b *setBuilder) next() int {
	return len(b.args) + 1
}

func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func nullableID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
