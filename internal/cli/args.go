package cli

import (
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

type flags struct {
	parallel bool
	status   index.DocumentStatus
}

// nextField splits off the first space-delimited field of s.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " ")
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i+1:], " ")
}

// parseFlags consumes leading -p, -s STATUS and an optional "--" that ends
// the flags, so a query may start with a minus word such as "-p".
func parseFlags(args string, allowStatus bool) (flags, string, error) {
	f := flags{status: index.StatusActual}
	rest := args
	for {
		field, next := nextField(rest)
		switch {
		case field == "-p":
			f.parallel = true
		case field == "-s" && allowStatus:
			name, after := nextField(next)
			status, err := index.ParseStatus(name)
			if err != nil {
				return flags{}, "", err
			}
			f.status = status
			next = after
		case field == "--":
			return f, next, nil
		default:
			return f, strings.TrimLeft(rest, " "), nil
		}
		rest = next
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrInvalidInput, "document id %q is not an integer", s)
	}
	return id, nil
}

// parseRatings reads "r1,r2,..." or "-" for no ratings.
func parseRatings(s string) ([]int, error) {
	if s == "-" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ratings := make([]int, 0, len(parts))
	for _, p := range parts {
		r, err := strconv.Atoi(p)
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidInput, "rating %q is not an integer", p)
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}
