package trip

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// DeriveKey hashes a normalized request tuple into a stable lookup key.
// Two requests differing only in letter case or surrounding whitespace map
// to the same key. The function is pure: no I/O, no randomness, no clock.
//
// Origin and traveler count are folded into the destination component so a
// cached Paris-from-Mumbai plan is never served to a Paris-from-Delhi
// request.
func DeriveKey(origin, destination string, days int, budget string, travelers int, travelStyle string) string {
	style := normalize(travelStyle)
	if style == "" {
		style = "leisure"
	}

	destComponent := normalize(destination) + ":" + normalize(origin) + ":" + strconv.Itoa(travelers)

	data := strings.Join([]string{
		destComponent,
		strconv.Itoa(days),
		strings.TrimSpace(budget),
		style,
	}, "|")

	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
