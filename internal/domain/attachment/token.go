package attachment

import (
	"crypto/rand"
	"fmt"
)

const (
	idLength   = 6
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// maxIDAttempts bounds collision redraws. With a 62^6 space a category
	// would need millions of records before this is ever reached.
	maxIDAttempts = 32
)

// NewID draws a 6-character alphanumeric token not present in existing. It
// does not mutate anything; callers own the uniqueness of the eventual
// append. Returns ErrConflict if every attempt collided.
func NewID(existing map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := randomID()
		if err != nil {
			return "", err
		}
		if _, taken := existing[id]; !taken {
			return id, nil
		}
	}
	return "", ErrConflict
}

func randomID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
