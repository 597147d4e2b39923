package service

// TokenProvider returns the bearer token for the active console session, or
// an empty string when no session exists. Implementations are called on
// every request so token rotation needs no extra plumbing.
type TokenProvider func() string

// StaticToken returns a TokenProvider that always yields the given token.
func StaticToken(token string) TokenProvider {
	return func() string { return token }
}
