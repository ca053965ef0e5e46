package errmsg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBasicShapes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "nil input", input: nil, expected: "Unknown error"},
		{name: "native error", input: errors.New("connection refused"), expected: "connection refused"},
		{name: "error carrying the generic token", input: errors.New("[object Object]"), expected: "An unexpected error occurred (Invalid Error Message)"},
		{name: "plain string", input: "row level security violation", expected: "row level security violation"},
		{name: "generic token string", input: "[object Object]", expected: "Unknown error (Invalid String)"},
		{name: "empty string", input: "", expected: "Unknown error"},
		{name: "message only", input: map[string]any{"message": "permission denied"}, expected: "permission denied"},
		{
			name: "message with details and hint",
			input: map[string]any{
				"message": "insert failed",
				"details": "Key (user_id, event_id) already exists.",
				"hint":    "check registrations",
			},
			expected: "insert failed (Key (user_id, event_id) already exists.) Hint: check registrations",
		},
		{
			name:     "falsy details and hint are skipped",
			input:    map[string]any{"message": "insert failed", "details": "", "hint": nil},
			expected: "insert failed",
		},
		{
			name:     "object message is serialized",
			input:    map[string]any{"message": map[string]any{"code": float64(500)}},
			expected: `{"code":500}`,
		},
		{name: "error_description field", input: map[string]any{"error_description": "invalid grant"}, expected: "invalid grant"},
		{name: "msg field", input: map[string]any{"msg": "token expired"}, expected: "token expired"},
		{
			name:     "nested error object",
			input:    map[string]any{"error": map[string]any{"message": "nested failure"}},
			expected: "nested failure",
		},
		{name: "empty object", input: map[string]any{}, expected: "An unexpected error occurred (Empty Object)"},
		{name: "unrecognized object falls back to JSON", input: map[string]any{"status": float64(503)}, expected: `{"status":503}`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeCircularObject(t *testing.T) {
	m := map[string]any{"code": "XX000"}
	m["self"] = m

	assert.Equal(t, "Unknown error object (Circular structure?)", Normalize(m))
}

func TestNormalizeSelfWrappedError(t *testing.T) {
	// An "error" key pointing back at the same map must not recurse forever.
	m := map[string]any{}
	m["error"] = m

	out := Normalize(m)
	assert.NotEmpty(t, out)
	assert.NotEqual(t, "[object Object]", out)
}

func TestNormalizeStructInput(t *testing.T) {
	in := struct {
		Message string `json:"message"`
		Hint    string `json:"hint"`
	}{Message: "relation \"events\" does not exist", Hint: "run the schema setup"}

	assert.Equal(t, `relation "events" does not exist Hint: run the schema setup`, Normalize(in))
}

// The normalizer is total: whatever comes in, a non-empty string comes out and
// the generic object token never leaks through.
func TestNormalizeNeverReturnsToken(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["error"] = cyclic

	inputs := []any{
		nil,
		errors.New("[object Object]"),
		"[object Object]",
		"",
		false,
		0,
		map[string]any{},
		map[string]any{"message": "[object Object]"},
		map[string]any{"error": map[string]any{}},
		map[string]any{"msg": "x"},
		cyclic,
		[]string{"a", "b"},
		struct{}{},
	}

	for _, in := range inputs {
		out := Normalize(in)
		assert.NotEmpty(t, out)
		assert.False(t, strings.Contains(out, "[object Object]"), "input %#v produced %q", in, out)
	}
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsMissingTable(`relation "public.events" does not exist`))
	assert.True(t, IsMissingTable("ERROR: 42P01"))
	assert.False(t, IsMissingTable("permission denied"))

	assert.True(t, IsDuplicate(`duplicate key value violates unique constraint "registrations_user_id_event_id_key"`))
	assert.True(t, IsDuplicate("SQLSTATE 23505"))
	assert.False(t, IsDuplicate("not null violation"))

	assert.True(t, IsInvalidCredentials("Invalid login credentials"))
	assert.True(t, IsEmailNotConfirmed("Email not confirmed"))
	assert.True(t, IsAlreadyRegistered("User already registered"))
	assert.True(t, IsAlreadyRegistered("user_already_exists"))
	assert.False(t, IsAlreadyRegistered("Invalid login credentials"))
}
