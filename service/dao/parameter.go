package dao

// Parameter names understood by the request stores.
const (
	ParamStatus     = "Status"
	ParamDepartment = "Department"
	ParamRequester  = "RequesterID"
)

// Parameter is a List filter; Value is a string or []string.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter matching any of values.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Matches reports whether value satisfies the parameter.
func (p *Parameter) Matches(value string) bool {
	switch actual := p.Value.(type) {
	case string:
		return value == actual
	case []string:
		for _, candidate := range actual {
			if value == candidate {
				return true
			}
		}
		return false
	}
	return true
}
