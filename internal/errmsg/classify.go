package errmsg

import "strings"

// Signature matching over normalized messages. Postgres and gotrue keep these
// strings stable across versions, so substring checks are the contract here.

// IsMissingTable reports whether the message is a Postgres "undefined table"
// error (SQLSTATE 42P01), which means the schema was never set up.
func IsMissingTable(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "42P01") ||
		strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "relation")
}

// IsDuplicate reports a unique-constraint violation (SQLSTATE 23505), e.g. a
// second registration for the same (user, event) pair.
func IsDuplicate(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "23505") ||
		strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "unique constraint")
}

// IsInvalidCredentials matches gotrue's bad email/password response.
func IsInvalidCredentials(msg string) bool {
	return strings.Contains(msg, "Invalid login credentials")
}

// IsEmailNotConfirmed matches gotrue's unverified-email sign-in rejection.
func IsEmailNotConfirmed(msg string) bool {
	return strings.Contains(msg, "Email not confirmed")
}

// IsAlreadyRegistered matches gotrue's duplicate-signup responses.
func IsAlreadyRegistered(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "already registered") ||
		strings.Contains(lower, "user_already_exists")
}
