// Package notify builds the transient user notifications that accompany API
// responses. A notification mirrors a toast: a title, a description and a
// variant the client uses to pick its styling.
package notify

import (
	dErrors "landregistry/pkg/domain-errors"
)

// Variant selects how a client renders a notification.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the {title, description, variant} payload consumed by the
// notification surface.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Info builds a non-destructive notification.
func Info(title, description string) *Notification {
	return &Notification{Title: title, Description: description, Variant: VariantDefault}
}

// Failure builds a destructive notification.
func Failure(title, description string) *Notification {
	return &Notification{Title: title, Description: description, Variant: VariantDestructive}
}

type copyText struct {
	title       string
	description string
}

var errorCopy = map[dErrors.Code]copyText{
	dErrors.CodeMissingField:     {"Missing Information", "Please fill in all required fields."},
	dErrors.CodeIncompleteParcel: {"Incomplete Parcel Data", "Please complete all parcel information before submitting."},
	dErrors.CodeTooFewParcels:    {"Minimum Parcels Required", "At least 2 parcels are required for subdivision."},
	dErrors.CodeExceedsOriginal:  {"Invalid Subdivision", "Total subdivision size cannot exceed original land size."},
	dErrors.CodeEmptyQuery:       {"Search Query Required", "Please enter a search term."},
	dErrors.CodeNotFound:         {"Not Found", ""},
	dErrors.CodeConflict:         {"Already Exists", ""},
	dErrors.CodeInvalidState:     {"Action Not Allowed", ""},
	dErrors.CodeInternal:         {"Something Went Wrong", "Please try again later."},
}

// FromError derives a destructive notification from a domain error. Known
// codes use fixed copy; other codes fall back to the error's own message.
func FromError(err error) *Notification {
	code := dErrors.CodeOf(err)
	text, ok := errorCopy[code]
	if !ok {
		return Failure("Request Failed", dErrors.MessageOf(err))
	}
	if text.description == "" {
		text.description = dErrors.MessageOf(err)
	}
	return Failure(text.title, text.description)
}
