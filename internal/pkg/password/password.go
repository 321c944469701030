package password

import "golang.org/x/crypto/bcrypt"

// Used for both account passwords and share-link passwords; the two never
// need different costs.

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare returns a non-nil error when plain does not match hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
