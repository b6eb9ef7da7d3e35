package ctrl

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/JMURv/player-pairing/internal/config"
)

const maxCodeAttempts = 5

func generateCode() (string, error) {
	alphabet := config.PairingCodeAlphabet
	max := big.NewInt(int64(len(alphabet)))

	b := make([]byte, config.PairingCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}

	return string(b), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func statusCacheKey(deviceUUID string) string {
	return "pairing:status:" + deviceUUID
}
