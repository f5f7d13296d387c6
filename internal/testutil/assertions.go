// Package testutil provides common test assertions for layer tests
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResult compares result codes and reports mismatches by name.
func AssertResult(t *testing.T, expected, actual entities.Result, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Equal(t, expected.String(), actual.String(), msgAndArgs...)
}

// RequireSuccess stops the test unless res is XR_SUCCESS.
func RequireSuccess(t *testing.T, res entities.Result, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, entities.Success.String(), res.String(), msgAndArgs...)
}

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// AssertHandleLive asserts that h is a non-null instance handle.
func AssertHandleLive(t *testing.T, h entities.Instance, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NotEqual(t, entities.NullInstance, h, msgAndArgs...)
}
