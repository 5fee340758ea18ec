package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errorBody is the optional JSON payload of a failed response:
// {"detail"|"message"|"error": string, "code": string}. FastAPI request
// validation failures send detail as a list of {loc, msg} objects instead.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
	Err     json.RawMessage `json:"error"`
	Code    string          `json:"code"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func parseErrorBody(data []byte) errorBody {
	var body errorBody
	if len(strings.TrimSpace(string(data))) == 0 {
		return body
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return errorBody{}
	}
	return body
}

// message returns the first usable message among detail, message and error.
func (b errorBody) message() string {
	for _, raw := range []json.RawMessage{b.Detail, b.Message, b.Err} {
		if msg := rawMessage(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var issues []validationIssue
	if err := json.Unmarshal(raw, &issues); err != nil {
		return ""
	}
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		msg := strings.TrimSpace(issue.Msg)
		if msg == "" {
			continue
		}
		if field := issueField(issue.Loc); field != "" {
			msg = field + ": " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// issueField picks the last location element, skipping the "body"/"query"
// prefix FastAPI adds.
func issueField(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	last := loc[len(loc)-1]
	switch v := last.(type) {
	case string:
		if v == "body" || v == "query" || v == "path" {
			return ""
		}
		return v
	case float64:
		return fmt.Sprintf("%d", int(v))
	default:
		return ""
	}
}
