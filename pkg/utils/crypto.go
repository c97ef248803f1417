package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt hash. Passwords longer than 72 bytes
// are rejected by bcrypt rather than silently truncated.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
