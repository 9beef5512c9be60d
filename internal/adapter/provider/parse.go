package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var knownKinds = map[string]ErrorKind{
	"BAD_KEY":             KindBadKey,
	"BAD_ACTION":          KindBadAction,
	"BAD_SERVICE":         KindBadService,
	"BAD_STATUS":          KindBadStatus,
	"WRONG_ACTIVATION_ID": KindWrongActivationID,
	"NO_ACTIVATION":       KindNoActivation,
	"NO_ACTIVATIONS":      KindNoActivation,
	"NO_NUMBERS":          KindNoNumbers,
	"NO_BALANCE":          KindNoBalance,
	"ERROR_SQL":           KindSQLError,
	"BANNED":              KindBanned,
}

// classify inspects a raw reply and returns a typed error when it is one
// of the known rejection tokens, either bare text or wrapped in the JSON
// error envelope. A nil return means the reply is a payload.
func classify(raw []byte) *Error {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return &Error{Kind: KindUnknown, Raw: text}
	}

	token := text
	if i := strings.IndexByte(token, ':'); i > 0 {
		token = token[:i]
	}
	if kind, ok := knownKinds[token]; ok {
		return &Error{Kind: kind, Raw: text}
	}

	if bytes.HasPrefix(raw, []byte("{")) {
		var envelope struct {
			Status  string `json:"status"`
			Err     string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Status == "error" {
			msg := envelope.Err
			if msg == "" {
				msg = envelope.Message
			}
			kind := KindUnknown
			if k, ok := knownKinds[strings.TrimSpace(msg)]; ok {
				kind = k
			}
			return &Error{Kind: kind, Raw: msg}
		}
	}

	return nil
}

// flexInt64 tolerates the upstream habit of quoting numbers.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt64(n)
	return nil
}

// flexFloat tolerates quoted decimal costs.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexString accepts a bare string, null, or a list of strings, in which
// case the first element wins. getActiveActivations serves smsCode in
// all three shapes.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = ""
		return nil
	}
	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) == 0 {
			*f = ""
			return nil
		}
		*f = flexString(list[0])
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	*f = flexString(s)
	return nil
}
