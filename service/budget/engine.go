package budget

import (
	"fmt"
	"strings"

	"github.com/viant/procure/model"
)

// Engine evaluates budget alerts.
type Engine struct {
	thresholds []*Threshold
}

// Status returns the current alert for the department, or nil when
// utilization is below every threshold or the budget is unknown.
func (e *Engine) Status(budget *model.Budget) *Alert {
	if budget == nil || budget.Total <= 0 {
		return nil
	}
	percent := budget.Utilization()
	threshold := e.levelFor(percent)
	if threshold == nil {
		return nil
	}
	return e.alert(budget, threshold, percent,
		fmt.Sprintf("%s has used %.1f%% of its budget (%s threshold %s%%)", label(budget), percent, threshold.Level, percentText(threshold.Percent)))
}

// CheckRequest evaluates the budget as if amount were added to the spend.
// A nil budget (unknown department) never blocks.
func (e *Engine) CheckRequest(budget *model.Budget, amount float64) (*Check, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", model.ErrInvalidAmount, amount)
	}
	if budget == nil {
		return &Check{Amount: amount, CanProceed: true, Alerts: []*Alert{}}, nil
	}
	ret := &Check{
		Department:    budget.Department,
		Amount:        amount,
		Remaining:     budget.Remaining(),
		PercentBefore: budget.Utilization(),
		PercentAfter:  model.Utilization(budget.Spent+amount, budget.Total),
		CanProceed:    true,
		Alerts:        []*Alert{},
	}

	if !budget.Fits(amount) {
		remaining := ret.Remaining
		if remaining < 0 {
			remaining = 0
		}
		message := fmt.Sprintf("Request of %s exceeds the remaining %s budget of %s by %s; submission is blocked",
			money(amount), label(budget), money(remaining), money(model.FromCents(model.Cents(amount)-model.Cents(remaining))))
		ret.CanProceed = false
		ret.BlockMessage = &message
		ret.Alerts = append(ret.Alerts, e.alert(budget, e.highest(), ret.PercentAfter, message))
		return ret, nil
	}

	if crossed := e.crossed(ret.PercentBefore, ret.PercentAfter); crossed != nil {
		message := fmt.Sprintf("This request would bring %s to %.1f%% of its budget, crossing the %s%% %s threshold",
			label(budget), ret.PercentAfter, percentText(crossed.Percent), crossed.Level)
		if len(crossed.Notify) > 0 {
			message += "; " + joinRoles(crossed.Notify) + " will be notified"
		}
		ret.WarningMessage = &message
		if threshold := e.levelFor(ret.PercentAfter); threshold != nil {
			ret.Alerts = append(ret.Alerts, e.alert(budget, threshold, ret.PercentAfter, message))
		}
		return ret, nil
	}

	if current := e.Status(budget); current != nil {
		ret.Alerts = append(ret.Alerts, current)
	}
	return ret, nil
}

// crossed returns the most severe announced threshold with
// before < percent <= after.
func (e *Engine) crossed(before, after float64) *Threshold {
	for i := len(e.thresholds) - 1; i >= 0; i-- {
		threshold := e.thresholds[i]
		if !threshold.Announce {
			continue
		}
		if before < threshold.Percent && after >= threshold.Percent {
			return threshold
		}
	}
	return nil
}

// levelFor returns the most severe threshold reached by percent.
func (e *Engine) levelFor(percent float64) *Threshold {
	var ret *Threshold
	for _, threshold := range e.thresholds {
		if percent >= threshold.Percent {
			ret = threshold
		}
	}
	return ret
}

func (e *Engine) highest() *Threshold {
	return e.thresholds[len(e.thresholds)-1]
}

func (e *Engine) alert(budget *model.Budget, threshold *Threshold, percent float64, message string) *Alert {
	return &Alert{
		Department: budget.Department,
		Level:      threshold.Level,
		Threshold:  threshold.Percent,
		Percent:    percent,
		Notify:     append(model.Roles(nil), threshold.Notify...),
		Message:    message,
	}
}

func label(budget *model.Budget) string {
	if budget.Name != "" {
		return budget.Name
	}
	return budget.Department
}

func joinRoles(roles model.Roles) string {
	labels := make([]string, len(roles))
	for i, role := range roles {
		labels[i] = role.Label()
	}
	switch len(labels) {
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}

func percentText(percent float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", percent), "0"), ".")
}

// money formats amount as $1,234.56.
func money(amount float64) string {
	text := fmt.Sprintf("%.2f", amount)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	integer, fraction := text[:len(text)-3], text[len(text)-3:]
	var b strings.Builder
	for i, digit := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + "$" + b.String() + fraction
}

// New creates an engine; a nil config selects DefaultConfig.
func New(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{thresholds: config.sorted()}, nil
}
