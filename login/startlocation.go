package login

import (
	"fmt"
	"strconv"
	"strings"
)

// StartLocation is the parsed form of the login `start` parameter
// (spec.md §6.1): either a named location or a region name plus
// coordinate.
type StartLocation struct {
	Named string // "home" or "last"; empty when Region is set
	Region string
	X, Y, Z float64
}

// ParseStartLocation accepts "home", "last", or the ampersand-delimited
// "uri:<RegionName>&<X>&<Y>&<Z>" form. The slash-delimited variant some
// viewers historically emitted is deliberately rejected — spec.md §6.1
// notes it triggers server-side 500 responses.
func ParseStartLocation(s string) (StartLocation, error) {
	switch s {
	case "home", "last":
		return StartLocation{Named: s}, nil
	}

	const prefix = "uri:"
	if !strings.HasPrefix(s, prefix) {
		return StartLocation{}, fmt.Errorf("login: unrecognised start location %q", s)
	}
	rest := strings.TrimPrefix(s, prefix)
	if strings.Contains(rest, "/") {
		return StartLocation{}, fmt.Errorf("login: start location %q uses slash-delimited form, which the simulator rejects", s)
	}

	parts := strings.Split(rest, "&")
	if len(parts) != 4 {
		return StartLocation{}, fmt.Errorf("login: start location %q does not have 4 ampersand-delimited fields", s)
	}
	x, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return StartLocation{}, fmt.Errorf("login: start location %q: bad X: %w", s, err)
	}
	y, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return StartLocation{}, fmt.Errorf("login: start location %q: bad Y: %w", s, err)
	}
	z, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return StartLocation{}, fmt.Errorf("login: start location %q: bad Z: %w", s, err)
	}

	return StartLocation{Region: parts[0], X: x, Y: y, Z: z}, nil
}
