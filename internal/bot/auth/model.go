// Package auth implements the password gate in front of every privileged
// bot operation: a single shared secret, a persisted allow-list of verified
// user ids, and a fixed operator allow-list from configuration.
package auth

// Document is the durable authorization state. It is stored as a small JSON
// object, either in a local file or as a hidden object inside the same
// bucket the bot manages.
//
// The secret itself is never stored: only an argon2id hash and its salt.
type Document struct {
	PasswordHash  string  `json:"password_hash"`
	PasswordSalt  string  `json:"password_salt"`
	VerifiedUsers []int64 `json:"verified_users"`
}

// HasUser reports whether userID is in the verified list.
func (d *Document) HasUser(userID int64) bool {
	for _, id := range d.VerifiedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// AddUser appends userID if absent and reports whether the document changed.
func (d *Document) AddUser(userID int64) bool {
	if d.HasUser(userID) {
		return false
	}
	d.VerifiedUsers = append(d.VerifiedUsers, userID)
	return true
}

// RemoveUser deletes userID if present and reports whether the document
// changed.
func (d *Document) RemoveUser(userID int64) bool {
	for i, id := range d.VerifiedUsers {
		if id == userID {
			d.VerifiedUsers = append(d.VerifiedUsers[:i], d.VerifiedUsers[i+1:]...)
			return true
		}
	}
	return false
}
