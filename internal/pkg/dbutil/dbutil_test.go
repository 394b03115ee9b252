package dbutil

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalize_RebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT * FROM documents WHERE id=? AND status=?", []interface{}{"d1", "active"})
	require.Equal(t, "SELECT * FROM documents WHERE id=$1 AND status=$2", query)
	require.Equal(t, []interface{}{"d1", "active"}, args)
}

func TestFinalize_RewritesLimitClause(t *testing.T) {
	// gendry emits mysql LIMIT offset,count; postgres wants LIMIT count OFFSET offset
	query, args := Finalize("SELECT id FROM documents WHERE status=? LIMIT ?,?", []interface{}{"active", 20, 10})
	require.Equal(t, "SELECT id FROM documents WHERE status=$1 LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{"active", 10, 20}, args)
}

func TestFinalize_NoLimitClause(t *testing.T) {
	query, args := Finalize("DELETE FROM chunks WHERE document_id=?", []interface{}{"d1"})
	require.Equal(t, "DELETE FROM chunks WHERE document_id=$1", query)
	require.Len(t, args, 1)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(errors.New("other")))
	require.False(t, IsConflict(nil))
}
