package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIdentifier(t *testing.T) {
	for _, s := range []string{"QTY", "_x", "col$1", "line_no"} {
		assert.True(t, ValidIdentifier(s), s)
	}
	for _, s := range []string{"", "1col", "a.b", "a b", `"q"`, "a;--"} {
		assert.False(t, ValidIdentifier(s), s)
	}
}

func TestValidTableName(t *testing.T) {
	assert.True(t, ValidTableName("HOLDS"))
	assert.True(t, ValidTableName("plant.HOLDS"))
	assert.False(t, ValidTableName("a.b.c"))
	assert.False(t, ValidTableName(".HOLDS"))
	assert.False(t, ValidTableName("T; DROP TABLE T"))
}
