package httpapi

import (
	"net/http"

	"landregistry/pkg/platform/httputil"
)

type feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type processStep struct {
	Step        string `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Landing is the public front page.
type Landing struct {
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle"`
	Features     []feature     `json:"features"`
	Process      []processStep `json:"process"`
	Navigation   []link        `json:"navigation"`
	ContactLines []string      `json:"contact"`
}

var landing = Landing{
	Title:    "Digital Land Registry",
	Subtitle: "Republic of Uganda • Ministry of Lands",
	Features: []feature{
		{"Tamper-Evident Records", "Every registration, transfer and subdivision is written to an append-only audit trail."},
		{"Land Registration", "Streamlined digital registration with GPS coordinates and supporting documents."},
		{"Role-Based Access", "Sign-in for administrators, surveyors, valuers, and registrars."},
		{"Digital Land Titles", "Titles with complete ownership history and transfer capabilities."},
		{"Secure Transfers", "Multi-step verification process ensures legitimate ownership transfers with proper documentation."},
		{"Instant Verification", "Quick land title verification and ownership history lookup."},
	},
	Process: []processStep{
		{"01", "Survey & Documentation", "GPS survey and document verification"},
		{"02", "Valuation & Assessment", "Professional property valuation"},
		{"03", "Registration", "Record entered in the registry"},
		{"04", "Digital Title Issuance", "Secure digital title delivery"},
	},
	Navigation: []link{
		{"Ministry Access", "/auth/login"},
		{"Dashboard", "/dashboard"},
		{"Register Land Title", "/register-land"},
		{"Verify Ownership", "/search-records"},
		{"Transfer Process", "/process-transfer"},
		{"Land Subdivision", "/land-subdivision"},
	},
	ContactLines: []string{
		"Ministry of Lands",
		"Plot 16, Mackinnon Road",
		"Nakasero, Kampala",
		"+256 414 341 834",
	},
}

func handleLanding(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, landing)
}
