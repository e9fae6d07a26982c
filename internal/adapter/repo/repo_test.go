package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
)

func TestIsDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	assert.True(t, isDuplicate(dup))
	assert.True(t, isDuplicate(fmt.Errorf("insert cart: %w", dup)), "wrapped errors unwrap")

	assert.False(t, isDuplicate(nil))
	assert.False(t, isDuplicate(errors.New("connection reset")))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "cat-1", nullIfEmpty("cat-1"))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckAffected(t *testing.T) {
	assert.NoError(t, checkAffected(fakeResult{rows: 1}, nil))

	assert.ErrorIs(t, checkAffected(fakeResult{rows: 0}, nil), domain.ErrNotFound)

	execErr := errors.New("exec failed")
	assert.ErrorIs(t, checkAffected(nil, execErr), execErr)

	rowsErr := errors.New("rows unavailable")
	assert.ErrorIs(t, checkAffected(fakeResult{err: rowsErr}, nil), rowsErr)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
