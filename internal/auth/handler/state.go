package handler

import (
	"crypto/subtle"

	"oauth-bridge/internal/utils"
)

const stateBytes = 32

func generateState() (string, error) {
	return utils.RandomString(stateBytes)
}

func stateMatches(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
