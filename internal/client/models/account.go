package models

// Profile is the user-supplied part of an Account.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Account is a registered identity. Email is the unique key and is
// compared exactly as stored.
//
// CredentialToken is whatever the configured codec produced from the
// secret. It is serialized as "passwordHash", the name used by the
// browser storage format, so existing blobs load unchanged.
type Account struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	CredentialToken string `json:"passwordHash"`
}

// Profile returns the account's name and email.
func (a Account) Profile() Profile {
	return Profile{Name: a.Name, Email: a.Email}
}
