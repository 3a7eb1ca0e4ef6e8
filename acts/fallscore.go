package acts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/wrestling-league/models"
)

// MaxFallsPerSide bounds the falls one wrestler can be credited with in a bout.
const MaxFallsPerSide = 10

// ParseFallScore reads the "L-V" wire form of a bout result, e.g. "2-1".
// Both counts are plain decimal digits no greater than MaxFallsPerSide.
func ParseFallScore(s string) (local, visitor int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("fall score %q is not in L-V form", s)
	}
	local, err = parseFallCount(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("fall score %q has an invalid local count: %w", s, err)
	}
	visitor, err = parseFallCount(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("fall score %q has an invalid visitor count: %w", s, err)
	}
	return local, visitor, nil
}

func parseFallCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing count")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("unexpected character %q", r)
		}
	}
	if len(s) > 2 {
		return 0, fmt.Errorf("more than %d falls", MaxFallsPerSide)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n > MaxFallsPerSide {
		return 0, fmt.Errorf("more than %d falls", MaxFallsPerSide)
	}
	return n, nil
}

// FormatFallScore is the inverse of ParseFallScore for a bout.
func FormatFallScore(b models.MatchBout) string {
	return strconv.Itoa(len(b.LocalFalls)) + "-" + strconv.Itoa(len(b.VisitorFalls))
}

// RegularFalls builds n REGULAR falls.
func RegularFalls(n int) []models.Fall {
	falls := make([]models.Fall, n)
	for i := range falls {
		falls[i] = models.Fall{ID: i + 1, Type: models.FallRegular}
	}
	return falls
}

func ValidFallType(t models.FallType) bool {
	switch t {
	case models.FallRegular, models.FallPenalty, models.FallForfeit:
		return true
	}
	return false
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
