package corpus

import (
	"strings"
	"testing"

	"github.com/ashureev/saleswizz/internal/domain"
)

func testRecords() []domain.SalesRecord {
	var records []domain.SalesRecord
	for _, region := range domain.Regions() {
		for _, quarter := range domain.Quarters() {
			records = append(records, domain.SalesRecord{
				Region:  region,
				Quarter: quarter,
				Quota:   100,
				Revenue: 200,
			})
		}
	}
	return records
}

func TestDocumentsCarryColumnTags(t *testing.T) {
	c := New(testRecords())
	for _, doc := range c.All() {
		if doc.Columns != domain.SalesColumns {
			t.Fatalf("columns = %q, want %q", doc.Columns, domain.SalesColumns)
		}
	}
}

func TestFilterScopesRegions(t *testing.T) {
	c := New(testRecords())

	docs := c.Filter([]domain.Region{domain.RegionEMEA})
	if len(docs) != 4 {
		t.Fatalf("filtered docs = %d, want 4", len(docs))
	}
	for _, doc := range docs {
		if doc.Record.Region != domain.RegionEMEA {
			t.Errorf("leaked region %s into EMEA-only view", doc.Record.Region)
		}
	}

	if got := c.Filter(nil); len(got) != 0 {
		t.Errorf("empty scope returned %d docs", len(got))
	}
}

func TestFilterDoesNotMutateCorpus(t *testing.T) {
	c := New(testRecords())
	before := c.Len()

	_ = c.Filter([]domain.Region{domain.RegionAsia})
	_ = c.Filter(nil)

	if c.Len() != before {
		t.Errorf("corpus size changed from %d to %d", before, c.Len())
	}
	if len(c.All()) != before {
		t.Error("All() shrank after filtering")
	}
}

func TestDocumentText(t *testing.T) {
	doc := Document{
		Record: domain.SalesRecord{
			Region:  domain.RegionLATAM,
			Quarter: domain.Q3,
			Quota:   510000,
			Revenue: 602000,
		},
		Columns: domain.SalesColumns,
	}

	text := doc.Text()
	for _, want := range []string{"region=LATAM", "quarter=Q3", "quota=510000", "revenue=602000"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q missing %q", text, want)
		}
	}
}
