//go:build testing

package oops

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func RequireNoError(t *testing.T, err error, msgAndArgs ...any) {
	if err == nil {
		return
	}

	t.Helper()
	sterr, ok := err.(*Error)
	if !ok {
		require.Fail(t, fmt.Sprintf("Received unexpected error:\n%+v", err), msgAndArgs...)
		return
	}

	message := fmt.Sprintf(
		"Received unexpected error:\n%+v\n%s", err, stackString(sterr.StackTrace()),
	)
	require.Fail(t, message, msgAndArgs...)
}
