package middleware

import (
	"context"
	"fmt"
	"testing"

	"qnabot/internal/domain"
	"qnabot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

type stubAuthorizer struct {
	authorized bool
	err        error
	calls      int
}

func (s *stubAuthorizer) Authorized(context.Context, domain.Sender) (bool, error) {
	s.calls++
	return s.authorized, s.err
}

func TestAuthFailed(t *testing.T) {
	tests := []struct {
		name       string
		authorized bool
		err        error
		expected   bool
	}{
		{name: "authorized sender passes", authorized: true, expected: false},
		{name: "unauthorized sender fails", authorized: false, expected: true},
		{name: "lookup error fails closed", err: fmt.Errorf("db error"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthorizer{authorized: tt.authorized, err: tt.err}
			pred := AuthFailed[struct{}](auth, testutil.NewTestLogger())

			failed, err := pred(context.Background(), testutil.TextUpdate(1, "hi"), struct{}{})

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, failed)
			assert.Equal(t, 1, auth.calls)
		})
	}
}
