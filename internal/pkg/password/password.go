// Package password wraps bcrypt for the operator credential kept in the
// config file. The service stores a hash, never the plain password.
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a bcrypt hash suitable for the admin_password_hash
// config field.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
