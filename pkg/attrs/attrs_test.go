package attrs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	kv := []any{"land_id", "LT-2024-001", "size", decimal.RequireFromString("2.5"), "count", 3, "dangling"}

	assert.Equal(t, "LT-2024-001", String(kv, "land_id"))
	assert.Equal(t, "2.5", String(kv, "size"))
	assert.Empty(t, String(kv, "count"), "non-string values are ignored")
	assert.Empty(t, String(kv, "dangling"))
	assert.Empty(t, String(kv, "missing"))
}

func TestFirst(t *testing.T) {
	kv := []any{"detail", "", "field", "ownerName"}
	assert.Equal(t, "ownerName", First(kv, "detail", "field"))
	assert.Empty(t, First(kv, "query"))
}
