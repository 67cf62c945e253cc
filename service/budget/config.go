package budget

import (
	"fmt"
	"sort"

	"github.com/viant/procure/model"
)

// Level is an alert severity.
type Level string

const (
	LevelWarning  Level = "warning"
	LevelCaution  Level = "caution"
	LevelCritical Level = "critical"
	LevelBlocked  Level = "blocked"
)

// Threshold maps a utilization percentage to a level and the roles to notify.
// Announce marks thresholds whose crossing by a request yields a warning
// message.
type Threshold struct {
	Level    Level       `json:"level" yaml:"level"`
	Percent  float64     `json:"percent" yaml:"percent"`
	Notify   model.Roles `json:"notify" yaml:"notify"`
	Announce bool        `json:"announce,omitempty" yaml:"announce,omitempty"`
}

// Config holds the alert thresholds.
type Config struct {
	Thresholds []*Threshold `json:"thresholds" yaml:"thresholds"`
}

// DefaultConfig returns the standard 75/85/90/100 thresholds.
func DefaultConfig() *Config {
	return &Config{Thresholds: []*Threshold{
		{Level: LevelWarning, Percent: 75, Notify: model.Roles{model.RoleDepartmentLeader}, Announce: true},
		{Level: LevelCaution, Percent: 85, Notify: model.Roles{model.RoleFinance}, Announce: true},
		{Level: LevelCritical, Percent: 90, Notify: model.Roles{model.RoleDepartmentLeader, model.RoleFinance}},
		{Level: LevelBlocked, Percent: 100, Notify: model.Roles{model.RoleDepartmentLeader, model.RoleFinance, model.RoleDirectorOfOperations}},
	}}
}

// Validate checks that thresholds are positive and strictly ascending.
func (c *Config) Validate() error {
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("budget.thresholds must not be empty")
	}
	for i, threshold := range c.Thresholds {
		if threshold == nil || threshold.Percent <= 0 {
			return fmt.Errorf("budget.thresholds[%d]: percent must be > 0", i)
		}
		if i > 0 && threshold.Percent <= c.Thresholds[i-1].Percent {
			return fmt.Errorf("budget.thresholds[%d]: percent must be ascending", i)
		}
	}
	return nil
}

// sorted returns a copy of the thresholds in ascending order.
func (c *Config) sorted() []*Threshold {
	ret := make([]*Threshold, 0, len(c.Thresholds))
	for _, threshold := range c.Thresholds {
		if threshold != nil {
			ret = append(ret, threshold)
		}
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].Percent < ret[j].Percent })
	return ret
}
