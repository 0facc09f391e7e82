package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landregistry/internal/land/models"
	"landregistry/pkg/platform/sentinel"
)

func TestRecords(t *testing.T) {
	records, err := Records()
	require.NoError(t, err)
	require.Len(t, records, 3)

	byID := map[string]models.LandRecord{}
	for _, r := range records {
		byID[r.LandID] = r
	}

	sarah := byID["LT-2024-002"]
	assert.Equal(t, "Sarah Nakato", sarah.OwnerName)
	assert.Equal(t, "Wakiso", sarah.District)
	assert.Equal(t, "1.8", sarah.Size.String())
	require.NotNil(t, sarah.LastTransfer)
	assert.Equal(t, "2024-01-18", sarah.LastTransfer.Format(dateLayout))

	assert.Equal(t, models.StatusPendingTransfer, byID["LT-2024-003"].Status)
	assert.Nil(t, byID["LT-2024-001"].LastTransfer)
}

func TestParseRejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte(`
records:
  - land_id: X
    size: "1"
    status: Sold
    registration_date: "2024-01-01"
`))
	assert.ErrorContains(t, err, "unknown status")
}

type fakeCreator struct {
	seen map[string]bool
}

func (f *fakeCreator) Create(_ context.Context, r *models.LandRecord) error {
	if f.seen[r.LandID] {
		return sentinel.ErrConflict
	}
	f.seen[r.LandID] = true
	return nil
}

func TestLoadIsRepeatable(t *testing.T) {
	store := &fakeCreator{seen: map[string]bool{}}

	n, err := Load(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = Load(context.Background(), store)
	require.NoError(t, err)
	assert.Zero(t, n)
}
