package youtube_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"mkuznets.com/go/ytingest/internal/youtube"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected youtube.Outcome
	}{
		{"nil", nil, youtube.OutcomeSuccess},
		{
			"quota exceeded",
			&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}}},
			youtube.OutcomeQuotaExceeded,
		},
		{
			"daily limit exceeded",
			&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "dailyLimitExceeded"}}},
			youtube.OutcomeQuotaExceeded,
		},
		{
			"forbidden without quota reason",
			&googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "forbidden"}}},
			youtube.OutcomeOther,
		},
		{
			"key invalid",
			&googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "keyInvalid"}}},
			youtube.OutcomeInvalidCredential,
		},
		{
			"bad request with not valid message",
			&googleapi.Error{Code: 400, Message: "API key not valid. Please pass a valid API key."},
			youtube.OutcomeInvalidCredential,
		},
		{
			"plain bad request",
			&googleapi.Error{Code: 400, Message: "invalid publishedAfter"},
			youtube.OutcomeOther,
		},
		{
			"unauthorized",
			&googleapi.Error{Code: 401},
			youtube.OutcomeInvalidCredential,
		},
		{
			"server error",
			&googleapi.Error{Code: 500},
			youtube.OutcomeOther,
		},
		{"network error", errors.New("connection reset"), youtube.OutcomeOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, youtube.Classify(tc.err))
		})
	}
}
