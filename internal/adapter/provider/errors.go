package provider

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of upstream rejection tokens. The raw
// protocol mixes these into the same channel as success payloads, so the
// client classifies every reply before anything else sees it.
type ErrorKind string

const (
	KindBadKey            ErrorKind = "BAD_KEY"
	KindBadAction         ErrorKind = "BAD_ACTION"
	KindBadService        ErrorKind = "BAD_SERVICE"
	KindBadStatus         ErrorKind = "BAD_STATUS"
	KindWrongActivationID ErrorKind = "WRONG_ACTIVATION_ID"
	KindNoActivation      ErrorKind = "NO_ACTIVATION"
	KindNoNumbers         ErrorKind = "NO_NUMBERS"
	KindNoBalance         ErrorKind = "NO_BALANCE"
	KindSQLError          ErrorKind = "ERROR_SQL"
	KindBanned            ErrorKind = "BANNED"
	KindUnknown           ErrorKind = "UNKNOWN"
)

// Error is an upstream rejection classified into a known kind. Raw keeps
// the original token for logs only.
type Error struct {
	Kind ErrorKind
	Raw  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider: %s", e.Kind)
}

// Terminal reports whether the upstream no longer recognizes the
// activation at all. The provider gives no further detail for these, so
// the reconciler resolves them from locally-known state.
func (e *Error) Terminal() bool {
	switch e.Kind {
	case KindBadKey, KindWrongActivationID, KindNoActivation:
		return true
	}
	return false
}

// ErrUnexpectedStatus signals a reply outside the documented status set,
// which means the upstream is degraded or the protocol drifted.
var ErrUnexpectedStatus = errors.New("unexpected provider status")
