// Package sorting validates requested sort keys against a view's whitelist and
// applies the fixed name-pairing and age-ordering rules.
package sorting

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/rpattn/sfs/internal/domain"
)

const (
	lastName  = "last_name"
	firstName = "first_name"
	birthday  = "birthday"
)

// Compile keeps the requested tokens whose base name is in allowed. A last_name
// key is followed by the matching first_name key and a birthday key has its
// direction inverted, since earlier birthdays mean greater ages.
func Compile(requested []string, allowed []string, logger *slog.Logger) ([]domain.SortToken, error) {
	if len(requested) == 0 {
		return nil, domain.ErrNoDefaultSort
	}
	if logger == nil {
		logger = slog.Default()
	}

	tokens := make([]domain.SortToken, 0, len(requested)+1)
	for _, raw := range requested {
		token := domain.ParseSortToken(raw)
		if !slices.Contains(allowed, token.Name) {
			logger.Debug("sort is not in the view's sorts, dropping it", "sort", token.Name)
			continue
		}

		switch {
		case token.Name == lastName || strings.HasSuffix(token.Name, "__"+lastName):
			tokens = append(tokens, token, domain.SortToken{
				Name:       strings.TrimSuffix(token.Name, lastName) + firstName,
				Descending: token.Descending,
			})
		case token.Name == birthday:
			tokens = append(tokens, token.Inverted())
		default:
			tokens = append(tokens, token)
		}
	}

	return tokens, nil
}
