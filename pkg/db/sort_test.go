package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortClause(t *testing.T) {
	sort := Sort{
		Columns:  map[string]string{"name": "name", "createdAt": "created_at", "created_at": "created_at"},
		Default:  "created_at DESC",
		Tiebreak: "id",
	}

	clause, err := sort.Clause("")
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC, id ASC", clause)

	clause, err = sort.Clause("-name")
	require.NoError(t, err)
	assert.Equal(t, "name DESC, id ASC", clause)

	clause, err = sort.Clause("name, -createdAt")
	require.NoError(t, err)
	assert.Equal(t, "name ASC, created_at DESC, id ASC", clause)

	_, err = sort.Clause("password")
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestPatterns(t *testing.T) {
	assert.Equal(t, "%alice%", ContainsPattern("ALICE"))
	assert.Equal(t, "+1%", PrefixPattern("+1"))
}
