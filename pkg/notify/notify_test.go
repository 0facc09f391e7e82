package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "landregistry/pkg/domain-errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
		desc  string
	}{
		{"missing field", dErrors.New(dErrors.CodeMissingField, "new owner is required"), "Missing Information", "Please fill in all required fields."},
		{"exceeds original", dErrors.New(dErrors.CodeExceedsOriginal, "x"), "Invalid Subdivision", "Total subdivision size cannot exceed original land size."},
		{"empty query", dErrors.New(dErrors.CodeEmptyQuery, "x"), "Search Query Required", "Please enter a search term."},
		{"not found uses message", dErrors.New(dErrors.CodeNotFound, "transfer not found"), "Not Found", "transfer not found"},
		{"unknown code uses message", dErrors.New(dErrors.CodeBadRequest, "invalid request body"), "Request Failed", "invalid request body"},
		{"unclassified error is internal", errors.New("boom"), "Something Went Wrong", "Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FromError(tt.err)
			assert.Equal(t, tt.title, n.Title)
			assert.Equal(t, tt.desc, n.Description)
			assert.Equal(t, VariantDestructive, n.Variant)
		})
	}
}

func TestInfo(t *testing.T) {
	n := Info("Search Complete", "Found 1 record(s).")
	assert.Equal(t, VariantDefault, n.Variant)
}
