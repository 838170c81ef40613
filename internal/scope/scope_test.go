package scope

import (
	"testing"

	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/policy"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		q       string
		regions []domain.Region
		own     bool
	}{
		{
			name:    "explicit single region",
			q:       "What's the Q2 quota in EMEA?",
			regions: []domain.Region{domain.RegionEMEA},
		},
		{
			name:    "multi word region",
			q:       "What's the Q3 revenue in North America?",
			regions: []domain.Region{domain.RegionNorthAmerica},
		},
		{
			name: "my region phrasing",
			q:    "What's the Q3 revenue in my region?",
			own:  true,
		},
		{
			name: "my metric phrasing",
			q:    "What is my Q1 quota?",
			own:  true,
		},
		{
			name:    "comparison across regions",
			q:       "Compare EMEA and Asia revenue for Q4",
			regions: []domain.Region{domain.RegionEMEA, domain.RegionAsia},
		},
		{
			name: "no region defaults to own",
			q:    "How did we do in Q2?",
			own:  true,
		},
		{
			name:    "explicit region plus my quota",
			q:       "What's my quota versus the LATAM quota?",
			regions: []domain.Region{domain.RegionLATAM},
			own:     true,
		},
		{
			name:    "case insensitive",
			q:       "q1 revenue in latam please",
			regions: []domain.Region{domain.RegionLATAM},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.q)

			var regions []domain.Region
			own := false
			for _, req := range got {
				if req.OwnRegion {
					own = true
					continue
				}
				regions = append(regions, req.Region)
			}

			if own != tt.own {
				t.Errorf("own = %v, want %v (requests: %+v)", own, tt.own, got)
			}
			if len(regions) != len(tt.regions) {
				t.Fatalf("regions = %v, want %v", regions, tt.regions)
			}
			want := make(map[domain.Region]bool)
			for _, r := range tt.regions {
				want[r] = true
			}
			for _, r := range regions {
				if !want[r] {
					t.Errorf("unexpected region %s", r)
				}
			}
		})
	}
}

func TestExtractNeverReturnsEmpty(t *testing.T) {
	for _, q := range []string{"", "hello", "???"} {
		reqs := Extract(q)
		if len(reqs) == 0 {
			t.Errorf("Extract(%q) returned no requests", q)
		}
	}
}

func TestExtractSampleQuestionsResolve(t *testing.T) {
	// Every canned question must yield at least one well-formed request.
	for _, q := range domain.SampleQuestions {
		for _, req := range Extract(q) {
			if !req.OwnRegion && !req.Region.Valid() {
				t.Errorf("question %q produced invalid request %+v", q, req)
			}
		}
	}
	// And the deliberately cross-region sample targets EMEA literally.
	reqs := Extract("What's the Q2 quota in EMEA?")
	if len(reqs) != 1 || reqs[0] != (policy.Request{Region: domain.RegionEMEA}) {
		t.Errorf("unexpected requests %+v", reqs)
	}
}
