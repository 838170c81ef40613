// Package scope extracts the requested data scope from a free-text question.
//
// The region vocabulary is a closed set of four names, so extraction is a
// normalize-and-scan over known aliases rather than real language parsing;
// anything subtler than a literal region mention is the answer engine's
// problem, and the policy decision stays conservative either way.
package scope

import (
	"strings"

	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/policy"
)

var regionAliases = []struct {
	alias  string
	region domain.Region
}{
	{"north america", domain.RegionNorthAmerica},
	{"emea", domain.RegionEMEA},
	{"asia", domain.RegionAsia},
	{"latam", domain.RegionLATAM},
	{"latin america", domain.RegionLATAM},
}

var ownRegionMarkers = []string{"my ", "my.", "our ", "mine"}

// Extract decomposes a question into per-region policy requests. Every
// literally mentioned region yields one request; "my ..." phrasing yields an
// own-region request. A question mentioning no region at all is treated as
// own-region, matching how users phrase "what is my Q1 quota".
func Extract(question string) []policy.Request {
	normalized := " " + strings.Join(strings.Fields(strings.ToLower(question)), " ") + " "

	var requests []policy.Request
	seen := make(map[domain.Region]bool)
	for _, a := range regionAliases {
		if seen[a.region] {
			continue
		}
		if strings.Contains(normalized, a.alias) {
			seen[a.region] = true
			requests = append(requests, policy.Request{Region: a.region})
		}
	}

	own := false
	for _, marker := range ownRegionMarkers {
		if strings.Contains(normalized, marker) {
			own = true
			break
		}
	}
	if own || len(requests) == 0 {
		requests = append(requests, policy.Request{OwnRegion: true})
	}

	return requests
}
