package suggestion

import (
	"encoding/json"
	"errors"
)

// ErrMalformedBody is returned when the request body is not a JSON object.
var ErrMalformedBody = errors.New("suggestion: body is not a JSON object")

// Decode reads a submission leniently. Absent, null or wrong-typed fields
// become empty lists and non-string elements are dropped, so any well-formed
// object is accepted.
func Decode(body []byte) (Submission, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Submission{}, ErrMalformedBody
	}
	return Submission{
		TechSkills: tags(fields["techSkills"]),
		BizSkills:  tags(fields["bizSkills"]),
		Interests:  tags(fields["interests"]),
	}, nil
}

func tags(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil && string(item) != "null" {
			out = append(out, s)
		}
	}
	return out
}
