//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

func passwordHashCost() int {
	// keep race-enabled test runs inside their timeouts
	return bcrypt.MinCost
}
