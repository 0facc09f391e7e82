package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StepID names a transfer step.
type StepID string

const (
	StepStampDuty StepID = "stamp_duty"
	StepSurveyor  StepID = "surveyor"
	StepValuer    StepID = "valuer"
	StepRegistrar StepID = "registrar"
)

// StepStatus is the progress of one step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCurrent   StepStatus = "current"
	StepCompleted StepStatus = "completed"
)

// StepDefinition is the fixed description of a step in the workflow.
type StepDefinition struct {
	ID          StepID
	Title       string
	Description string
	Fee         decimal.Decimal
}

var stepDefinitions = []StepDefinition{
	{
		ID:          StepStampDuty,
		Title:       "Stamp Duty Payment",
		Description: "Payment of required stamp duty fees to Uganda Revenue Authority",
		Fee:         decimal.NewFromInt(150_000),
	},
	{
		ID:          StepSurveyor,
		Title:       "Surveyor Verification",
		Description: "Licensed surveyor verification of land boundaries and measurements",
		Fee:         decimal.NewFromInt(75_000),
	},
	{
		ID:          StepValuer,
		Title:       "Chief Government Valuer",
		Description: "Official land valuation and approval from Chief Government Valuer",
		Fee:         decimal.NewFromInt(100_000),
	},
	{
		ID:          StepRegistrar,
		Title:       "Registrar Final Approval",
		Description: "Final verification and approval by the Land Registrar",
		Fee:         decimal.NewFromInt(50_000),
	},
}

// StepDefinitions returns the workflow steps in order.
func StepDefinitions() []StepDefinition {
	out := make([]StepDefinition, len(stepDefinitions))
	copy(out, stepDefinitions)
	return out
}

// FormatUGX renders an amount as "UGX 150,000". Fractions are rounded to
// whole shillings.
func FormatUGX(amount decimal.Decimal) string {
	digits := amount.Abs().Round(0).StringFixed(0)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if amount.Round(0).IsNegative() {
		sign = "-"
	}
	return "UGX " + sign + b.String()
}
