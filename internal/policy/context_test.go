package policy

import (
	"strings"
	"testing"

	"github.com/ashureev/saleswizz/internal/domain"
)

func TestContextStringCarriesIdentityAndScope(t *testing.T) {
	e := newTestEngine(t)
	id := domain.Identity{
		Name:           "Lukas Brandt",
		Role:           domain.RoleAccountExecutive,
		Region:         domain.RegionEMEA,
		EmploymentType: domain.EmploymentEmployee,
	}

	ev := e.Evaluate(id, []Request{{OwnRegion: true}, {Region: domain.RegionAsia}})
	ctx := ContextString(id, ev)

	for _, want := range []string{"Lukas Brandt", "Account Executive", "EMEA", "refer to their manager"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q", want)
		}
	}
	if !strings.Contains(ctx, "these regions only: EMEA") {
		t.Errorf("context does not restrict regions: %s", ctx)
	}
}

func TestContextStringFullDenial(t *testing.T) {
	e := newTestEngine(t)
	id := domain.Identity{
		Name:           "Tomás Rocha",
		Role:           domain.RoleContractor,
		Region:         domain.RegionLATAM,
		EmploymentType: domain.EmploymentContractor,
	}

	ev := e.Evaluate(id, []Request{{OwnRegion: true}})
	ctx := ContextString(id, ev)
	if !strings.Contains(ctx, "No sales records were granted") {
		t.Errorf("denial context missing refusal instruction: %s", ctx)
	}
}
