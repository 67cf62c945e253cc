package budget

import "github.com/viant/procure/model"

// Alert is a budget alert for a department.
type Alert struct {
	Department string      `json:"department"`
	Level      Level       `json:"level"`
	Threshold  float64     `json:"threshold"`
	Percent    float64     `json:"percent"`
	Notify     model.Roles `json:"notify"`
	Message    string      `json:"message"`
}

// Check is the verdict for a prospective request.
type Check struct {
	Department     string   `json:"department"`
	Amount         float64  `json:"amount"`
	Remaining      float64  `json:"remaining"`
	PercentBefore  float64  `json:"percentBefore"`
	PercentAfter   float64  `json:"percentAfter"`
	CanProceed     bool     `json:"canProceed"`
	Alerts         []*Alert `json:"alerts"`
	WarningMessage *string  `json:"warningMessage"`
	BlockMessage   *string  `json:"blockMessage"`
}
