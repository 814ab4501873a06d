package state

import "net/http"

// Result is the outcome of a player action. Validation failures are
// reported here instead of as Go errors.
type Result struct {
	OK            bool   `json:"ok"`
	Status        int    `json:"status,omitempty"`
	Error         string `json:"error,omitempty"`
	CooldownUntil int    `json:"cooldownUntil,omitempty"`

	// Summary carries a human-readable outcome for decrees and events.
	Summary string `json:"summary,omitempty"`

	// Election outcome fields.
	Win       *bool   `json:"win,omitempty"`
	WinChance float64 `json:"winChance,omitempty"`
	Narrative string  `json:"narrative,omitempty"`

	// Bonus lists metrics that received the plan anticrisis bonus.
	Bonus []string `json:"bonusApplied,omitempty"`
}

// Ok returns a successful result.
func Ok() Result { return Result{OK: true} }

// Fail returns a failed result with an HTTP-style status code.
func Fail(status int, msg string) Result {
	return Result{Status: status, Error: msg}
}

// BadRequest is shorthand for Fail(400, msg).
func BadRequest(msg string) Result { return Fail(http.StatusBadRequest, msg) }

// Forbidden is shorthand for Fail(403, msg).
func Forbidden(msg string) Result { return Fail(http.StatusForbidden, msg) }

// NotFound is shorthand for Fail(404, msg).
func NotFound(msg string) Result { return Fail(http.StatusNotFound, msg) }

// HTTPStatus returns the status to answer with, 200 on success.
func (r Result) HTTPStatus() int {
	if r.OK {
		return http.StatusOK
	}
	if r.Status == 0 {
		return http.StatusBadRequest
	}
	return r.Status
}
