package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLandUse(t *testing.T) {
	tests := map[string]string{
		"residential": "Residential",
		"Commercial":  "Commercial",
		" Mixed Use ": "Mixed Use",
		"mixed":       "Mixed Use",
	}
	for in, want := range tests {
		got, ok := NormalizeLandUse(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := NormalizeLandUse("forestry")
	assert.False(t, ok)
}

func TestTransferTransitions(t *testing.T) {
	record := LandRecord{LandID: "LT-2024-001", OwnerName: "John Mukasa", OwnerNIN: "CM123", Status: StatusActive}

	assert.True(t, record.MarkPendingTransfer())
	assert.Equal(t, StatusPendingTransfer, record.Status)
	assert.False(t, record.MarkPendingTransfer(), "already pending")

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	record.ApplyTransfer("Jane Namukasa", at)
	assert.Equal(t, "Jane Namukasa", record.OwnerName)
	assert.Empty(t, record.OwnerNIN)
	assert.Equal(t, StatusActive, record.Status)
	require.NotNil(t, record.LastTransfer)
	assert.Equal(t, at, *record.LastTransfer)
}

func TestDisputedRecordStaysDisputed(t *testing.T) {
	record := LandRecord{Status: StatusDisputed}
	assert.False(t, record.MarkPendingTransfer())
	assert.False(t, record.ReleasePendingTransfer())
	assert.Equal(t, StatusDisputed, record.Status)
}
