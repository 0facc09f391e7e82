package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextParcelName(t *testing.T) {
	assert.Equal(t, "Parcel A", NextParcelName(0))
	assert.Equal(t, "Parcel B", NextParcelName(1))
	assert.Equal(t, "Parcel Z", NextParcelName(25))
	assert.Equal(t, "Parcel 27", NextParcelName(26))
}

func TestDefaultParcels(t *testing.T) {
	parcels := DefaultParcels()

	assert.Len(t, parcels, 2)
	assert.Equal(t, "Parcel A", parcels[0].Name)
	assert.Equal(t, "Parcel B", parcels[1].Name)
	for _, p := range parcels {
		assert.Equal(t, DefaultLandUse, p.LandUse)
		assert.False(t, p.Size.Valid)
		assert.Empty(t, p.Coordinates)
	}
}
