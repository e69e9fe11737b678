package youtube

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Outcome is the classification of a provider response, decided once at the
// HTTP-response boundary and never re-inspected downstream.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeQuotaExceeded
	OutcomeInvalidCredential
	OutcomeOther
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeQuotaExceeded:
		return "quota_exceeded"
	case OutcomeInvalidCredential:
		return "invalid_credential"
	default:
		return "error"
	}
}

// ErrPoolExhausted is returned when no usable credential remains.
var ErrPoolExhausted = errors.New("no usable credentials left")

// CallError is a classified provider failure.
type CallError struct {
	Outcome Outcome
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("provider call failed (%s): %v", e.Outcome, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// OutcomeOf extracts the classification from an error returned by Executor.Do.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var cerr *CallError
	if errors.As(err, &cerr) {
		return cerr.Outcome
	}
	return OutcomeOther
}

// Classify maps a Data API error onto the closed outcome set. Quota and
// daily-limit signals arrive as 403s with machine-readable reasons; invalid
// keys as 400s with a "not valid" message; expired or revoked tokens as 401s.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return OutcomeOther
	}

	switch gerr.Code {
	case http.StatusForbidden:
		for _, item := range gerr.Errors {
			if item.Reason == "quotaExceeded" || item.Reason == "dailyLimitExceeded" {
				return OutcomeQuotaExceeded
			}
		}
	case http.StatusBadRequest:
		for _, item := range gerr.Errors {
			if item.Reason == "keyInvalid" {
				return OutcomeInvalidCredential
			}
		}
		if strings.Contains(gerr.Message, "not valid") {
			return OutcomeInvalidCredential
		}
	case http.StatusUnauthorized:
		return OutcomeInvalidCredential
	}

	return OutcomeOther
}
