package auth

import (
	"strconv"
	"strings"
)

// ParseAccountID parses a decimal account id as found in route params and
// token subjects. Ids are always positive.
func ParseAccountID(raw string) (int64, error) {
	return parseAccountID(raw)
}

func parseAccountID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrAccountNotFound
	}
	return id, nil
}
