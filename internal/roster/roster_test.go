package roster

import (
	"errors"
	"testing"

	"github.com/ashureev/saleswizz/internal/domain"
)

func testIdentities() []domain.Identity {
	return []domain.Identity{
		{Name: "Ava Mitchell", Role: domain.RoleAccountExecutive, Region: domain.RegionNorthAmerica, EmploymentType: domain.EmploymentEmployee},
		{Name: "Lukas Brandt", Role: domain.RoleAccountExecutive, Region: domain.RegionEMEA, EmploymentType: domain.EmploymentEmployee},
		{Name: "Daniel Okafor", Role: domain.RoleDirector, Region: domain.RegionEMEA, EmploymentType: domain.EmploymentEmployee},
	}
}

func TestPickRandomEmptyRoster(t *testing.T) {
	r := New(nil)
	if _, err := r.PickRandom(nil); !errors.Is(err, ErrEmptyRoster) {
		t.Errorf("err = %v, want ErrEmptyRoster", err)
	}
}

func TestPickRandomExcludes(t *testing.T) {
	r := New(testIdentities())
	current := testIdentities()[0]

	for i := 0; i < 50; i++ {
		picked, err := r.PickRandom(&current)
		if err != nil {
			t.Fatalf("PickRandom: %v", err)
		}
		if picked.Name == current.Name {
			t.Fatalf("pick %d returned excluded identity %s", i, picked.Name)
		}
	}
}

func TestPickRandomSingleEntryIgnoresExclusion(t *testing.T) {
	only := testIdentities()[:1]
	r := New(only)

	picked, err := r.PickRandom(&only[0])
	if err != nil {
		t.Fatalf("PickRandom: %v", err)
	}
	if picked.Name != only[0].Name {
		t.Errorf("picked %s, want the only roster entry", picked.Name)
	}
}

func TestListReturnsCopy(t *testing.T) {
	r := New(testIdentities())

	list := r.List()
	list[0].Name = "mutated"

	if r.List()[0].Name == "mutated" {
		t.Error("List exposed internal roster state")
	}
}

func TestPickDoesNotMutateRoster(t *testing.T) {
	r := New(testIdentities())
	before := r.Len()

	for i := 0; i < 10; i++ {
		if _, err := r.PickRandom(nil); err != nil {
			t.Fatalf("PickRandom: %v", err)
		}
	}

	if r.Len() != before {
		t.Errorf("roster size changed from %d to %d after picks", before, r.Len())
	}
}
