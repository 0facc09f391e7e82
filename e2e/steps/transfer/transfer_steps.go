package transfer

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Save(key, value string)
	Saved(key string) string
}

const transferIDKey = "transfer_id"

// RegisterSteps registers ownership transfer step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &transferSteps{tc: tc}

	ctx.Step(`^I start a transfer of "([^"]*)" from "([^"]*)" to "([^"]*)"$`, steps.startTransfer)
	ctx.Step(`^I save the transfer id$`, steps.saveTransferID)
	ctx.Step(`^I complete the current step$`, steps.completeStep)
	ctx.Step(`^I complete the current step (\d+) times$`, steps.completeStepTimes)
	ctx.Step(`^I fetch the transfer$`, steps.fetchTransfer)
	ctx.Step(`^land "([^"]*)" should be owned by "([^"]*)" with status "([^"]*)"$`, steps.landShouldBeOwnedBy)
}

type transferSteps struct {
	tc TestContext
}

func (s *transferSteps) startTransfer(ctx context.Context, landID, currentOwner, newOwner string) error {
	return s.tc.POST("/process-transfer", map[string]interface{}{
		"land_id":       landID,
		"current_owner": currentOwner,
		"new_owner":     newOwner,
	})
}

func (s *transferSteps) saveTransferID(ctx context.Context) error {
	id, err := s.tc.GetResponseField("transfer.id")
	if err != nil {
		return err
	}
	s.tc.Save(transferIDKey, fmt.Sprint(id))
	return nil
}

func (s *transferSteps) completeStep(ctx context.Context) error {
	return s.tc.POST(s.transferPath("/complete-step"), nil)
}

func (s *transferSteps) completeStepTimes(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.completeStep(ctx); err != nil {
			return err
		}
		if status := s.tc.GetLastResponseStatus(); status != 200 {
			return fmt.Errorf("completion %d returned %d: %s", i+1, status, s.tc.GetLastResponseBody())
		}
	}
	return nil
}

func (s *transferSteps) fetchTransfer(ctx context.Context) error {
	return s.tc.GET(s.transferPath(""), nil)
}

func (s *transferSteps) landShouldBeOwnedBy(ctx context.Context, landID, owner, status string) error {
	if err := s.tc.GET("/search-records/"+landID, nil); err != nil {
		return err
	}
	gotOwner, err := s.tc.GetResponseField("owner_name")
	if err != nil {
		return err
	}
	gotStatus, err := s.tc.GetResponseField("status")
	if err != nil {
		return err
	}
	if gotOwner != owner || gotStatus != status {
		return fmt.Errorf("expected %s owned by %q (%s), got %q (%s)", landID, owner, status, gotOwner, gotStatus)
	}
	return nil
}

func (s *transferSteps) transferPath(suffix string) string {
	return "/process-transfer/" + s.tc.Saved(transferIDKey) + suffix
}
