package proxy

import (
	"math/rand/v2"
	"strings"

	"github.com/nao1215/repocrawl/internal/model"
)

// schemes are the prefixes that mark a pool entry as a complete proxy URL.
var schemes = []string{"http://", "https://", "socks5://"}

// Select picks one pool entry uniformly at random and expands it into a
// proxy pair. A bare "ip:port" entry becomes "http://ip:port" for both
// schemes; an entry that already names a scheme is used verbatim.
func Select(pool []string) (model.ProxyPair, error) {
	if len(pool) == 0 {
		return model.ProxyPair{}, ErrEmptyPool
	}
	entry := pool[rand.IntN(len(pool))] //nolint:gosec // uniform choice, not a secret
	return PairFor(entry), nil
}

// PairFor expands a single pool entry into a proxy pair.
func PairFor(entry string) model.ProxyPair {
	entry = strings.TrimSpace(entry)
	u := entry
	if !hasScheme(entry) {
		u = "http://" + entry
	}
	return model.ProxyPair{HTTP: u, HTTPS: u}
}

func hasScheme(entry string) bool {
	lower := strings.ToLower(entry)
	for _, s := range schemes {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}
