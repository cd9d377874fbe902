package escrow

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generateMeetupCode returns a random 6-digit numeric code.
func generateMeetupCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate meet-up code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateMeetupCodePair returns two distinct 6-digit codes, one per party.
// Distinctness matters: each party must only be able to confirm with the
// counterparty's code, never their own.
func generateMeetupCodePair() (forTraveler, forGuide string, err error) {
	forTraveler, err = generateMeetupCode()
	if err != nil {
		return "", "", err
	}
	for {
		forGuide, err = generateMeetupCode()
		if err != nil {
			return "", "", err
		}
		if forGuide != forTraveler {
			return forTraveler, forGuide, nil
		}
	}
}
