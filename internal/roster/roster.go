// Package roster provides read-only access to the employee identity roster.
package roster

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/store"
)

// ErrEmptyRoster is returned when there are no identities to assign.
var ErrEmptyRoster = errors.New("identity roster is empty")

// Roster holds an immutable snapshot of the employee roster. Picking an
// identity never mutates shared state; callers own the returned value.
type Roster struct {
	identities []domain.Identity
}

// Load reads the full roster once from the repository.
func Load(ctx context.Context, repo store.Repository) (*Roster, error) {
	identities, err := repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return &Roster{identities: identities}, nil
}

// New builds a roster from an in-memory identity list.
func New(identities []domain.Identity) *Roster {
	return &Roster{identities: slices.Clone(identities)}
}

// List returns all identities eligible for random assignment.
func (r *Roster) List() []domain.Identity {
	return slices.Clone(r.identities)
}

// Len returns the roster size.
func (r *Roster) Len() int {
	return len(r.identities)
}

// PickRandom selects an identity uniformly at random. When excluding is
// non-nil and the roster holds more than one entry, the excluded identity
// is never returned, so a shuffle is guaranteed to look different.
func (r *Roster) PickRandom(excluding *domain.Identity) (domain.Identity, error) {
	if len(r.identities) == 0 {
		return domain.Identity{}, ErrEmptyRoster
	}

	candidates := r.identities
	if excluding != nil && len(r.identities) > 1 {
		filtered := make([]domain.Identity, 0, len(r.identities)-1)
		for _, id := range r.identities {
			if id.Name == excluding.Name && id.Region == excluding.Region && id.Role == excluding.Role {
				continue
			}
			filtered = append(filtered, id)
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	return candidates[rand.IntN(len(candidates))], nil
}
