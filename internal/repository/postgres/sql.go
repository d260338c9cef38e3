package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/agenda/internal/errs"
)

// setList accumulates the SET clause of a partial update.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s=$%d", col, len(s.args)))
}

// update renders `UPDATE table SET ... WHERE id=$n RETURNING returning`.
func (s *setList) update(table string, id uuid.UUID, returning string) (string, []any) {
	args := append(s.args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d RETURNING %s",
		table, strings.Join(s.cols, ", "), len(args), returning)
	return sql, args
}

// deleteByID removes one row atomically; no matching row is errs.ErrNotFound.
func deleteByID(ctx context.Context, src source, table string, id uuid.UUID) error {
	q, err := src.querier()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id=$1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
