package criteria

import (
	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
)

// MatchRequest reports whether request satisfies every parameter.  Unknown
// parameter names are ignored.
func MatchRequest(request *model.Request, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		var value string
		switch parameter.Name {
		case dao.ParamStatus:
			value = string(request.Status)
		case dao.ParamDepartment:
			value = request.Department
		case dao.ParamRequester:
			value = request.RequesterID
		default:
			continue
		}
		if !parameter.Matches(value) {
			return false
		}
	}
	return true
}
