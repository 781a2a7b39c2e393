package output

import "github.com/mj1618/desktop-invoke/internal/action"

// NewActionResult summarizes one run. err is a decode failure or contract
// violation; res.Err a reported failure.
func NewActionResult(record map[string]any, a *action.Action, res action.Result, err error) ActionResult {
	kind, _ := record[action.KeyKind].(string)
	result := ActionResult{Action: kind}
	if a != nil {
		result.Description = a.String()
	}
	switch {
	case err != nil:
		result.Error = err.Error()
	case res.Err != nil:
		result.Error = res.Err.Error()
	default:
		result.OK = true
		result.Result = res.Payload
	}
	return result
}

// Kinds lists the registered action kinds.
func Kinds() []KindInfo {
	descs := action.Kinds()
	kinds := make([]KindInfo, len(descs))
	for i, d := range descs {
		kinds[i] = KindInfo{Kind: string(d.Kind), Params: d.Params, Summary: d.Summary}
	}
	return kinds
}
