package crypto

import "golang.org/x/crypto/bcrypt"

const hashCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns nil when the password matches the stored hash.
// bcrypt embeds the salt and cost in the hash and compares in constant
// time; a malformed hash surfaces as a non-nil error the same way a
// mismatch does.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
