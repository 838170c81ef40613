// Package corpus exposes the sales facts as a tagged, read-only document
// collection for the answer engine.
package corpus

import (
	"context"
	"fmt"
	"slices"

	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/store"
)

// Document is one sales record prepared for the answer engine, tagged with
// the metadata field enumerating its available columns.
type Document struct {
	Record  domain.SalesRecord `json:"record"`
	Columns string             `json:"columns"`
}

// Text renders the document for engine grounding.
func (d Document) Text() string {
	r := d.Record
	return fmt.Sprintf("region=%s quarter=%s quota=%.0f profit=%.0f commission=%.0f revenue=%.0f",
		r.Region, r.Quarter, r.Quota, r.Profit, r.Commission, r.Revenue)
}

// Corpus is the full document collection. It is loaded once, shared
// read-only across sessions, and never mutated after load; Filter returns
// derived views.
type Corpus struct {
	docs []Document
}

// Load reads the sales facts once from the repository and tags each record.
func Load(ctx context.Context, repo store.Repository) (*Corpus, error) {
	records, err := repo.ListSalesRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return New(records), nil
}

// New builds a corpus from in-memory records.
func New(records []domain.SalesRecord) *Corpus {
	docs := make([]Document, len(records))
	for i, rec := range records {
		docs[i] = Document{Record: rec, Columns: domain.SalesColumns}
	}
	return &Corpus{docs: docs}
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.docs)
}

// All returns a copy of every document.
func (c *Corpus) All() []Document {
	return slices.Clone(c.docs)
}

// Filter returns the documents whose region is in scope. The result is a
// fresh slice; records outside the scope are omitted entirely, never
// redacted in place.
func (c *Corpus) Filter(regions []domain.Region) []Document {
	allowed := make(map[domain.Region]bool, len(regions))
	for _, r := range regions {
		allowed[r] = true
	}

	var out []Document
	for _, doc := range c.docs {
		if allowed[doc.Record.Region] {
			out = append(out, doc)
		}
	}
	return out
}
