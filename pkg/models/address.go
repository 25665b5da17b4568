package models

// EmailAddress is the active disposable identity. It is kept in
// structured form; the composed string exists only for display and
// provider API calls.
type EmailAddress struct {
	Username string `json:"username"`
	Domain   string `json:"domain"`
}

// String composes the address as username@domain.
func (a EmailAddress) String() string {
	return a.Username + "@" + a.Domain
}

// IsZero reports whether the address is unset.
func (a EmailAddress) IsZero() bool {
	return a.Username == "" || a.Domain == ""
}
