package routing

import "fmt"

// Config holds routing thresholds.
type Config struct {
	// MaterialityThreshold is the amount from which finance approval is required.
	MaterialityThreshold float64 `json:"materialityThreshold" yaml:"materialityThreshold"`
	// CIOThreshold is the amount above which CIO approval is required.
	CIOThreshold float64 `json:"cioThreshold" yaml:"cioThreshold"`
	// SeatThreshold is the SaaS seat count above which compliance/IT review is required.
	SeatThreshold int `json:"seatThreshold" yaml:"seatThreshold"`
	// StrategicDepartments are routed to the CIO in addition to budgets flagged strategic.
	StrategicDepartments []string `json:"strategicDepartments,omitempty" yaml:"strategicDepartments,omitempty"`
}

// DefaultConfig returns the standard routing thresholds.
func DefaultConfig() *Config {
	return &Config{
		MaterialityThreshold: 10000,
		CIOThreshold:         50000,
		SeatThreshold:        20,
	}
}

// Validate checks thresholds.
func (c *Config) Validate() error {
	if c.MaterialityThreshold <= 0 {
		return fmt.Errorf("routing.materialityThreshold must be > 0")
	}
	if c.CIOThreshold < c.MaterialityThreshold {
		return fmt.Errorf("routing.cioThreshold must be >= routing.materialityThreshold")
	}
	if c.SeatThreshold < 0 {
		return fmt.Errorf("routing.seatThreshold must be >= 0")
	}
	return nil
}

func (c *Config) isStrategic(department string) bool {
	for _, candidate := range c.StrategicDepartments {
		if candidate == department {
			return true
		}
	}
	return false
}
