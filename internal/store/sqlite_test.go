package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/saleswizz/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestSeededRosterOmitsEmployeeID(t *testing.T) {
	s := newTestStore(t)

	identities, err := s.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(identities) == 0 {
		t.Fatal("seeded roster is empty")
	}

	var hasContractor, hasDirector, hasAE bool
	for _, id := range identities {
		if id.Name == "" {
			t.Error("identity without a name")
		}
		switch {
		case id.IsContractor():
			hasContractor = true
		case id.Role == domain.RoleDirector:
			hasDirector = true
		case id.Role == domain.RoleAccountExecutive:
			hasAE = true
		}
	}
	if !hasContractor || !hasDirector || !hasAE {
		t.Errorf("seed lacks role coverage: contractor=%v director=%v ae=%v",
			hasContractor, hasDirector, hasAE)
	}
}

func TestSeededSalesCoverAllRegionsAndQuarters(t *testing.T) {
	s := newTestStore(t)

	records, err := s.ListSalesRecords(context.Background())
	if err != nil {
		t.Fatalf("ListSalesRecords: %v", err)
	}
	if len(records) != 16 {
		t.Fatalf("records = %d, want 16 (4 regions x 4 quarters)", len(records))
	}

	seen := make(map[domain.Region]map[domain.Quarter]bool)
	for _, rec := range records {
		if !rec.Region.Valid() {
			t.Errorf("invalid region %q", rec.Region)
		}
		if seen[rec.Region] == nil {
			seen[rec.Region] = make(map[domain.Quarter]bool)
		}
		if seen[rec.Region][rec.Quarter] {
			t.Errorf("duplicate record for %s/%s", rec.Region, rec.Quarter)
		}
		seen[rec.Region][rec.Quarter] = true
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s1, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	first, err := s1.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	second, err := s2.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(first) != len(second) {
		t.Errorf("roster grew from %d to %d on reopen", len(first), len(second))
	}
}

func TestChatTranscriptRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if got, err := s.GetChatTranscript(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("missing transcript = %v, %v; want nil, nil", got, err)
	}

	in := &domain.ChatTranscript{
		SessionID:    "sess-1",
		IdentityJSON: `{"name":"Lukas Brandt"}`,
		MessagesJSON: `[{"role":"assistant","content":"Hi Lukas!"}]`,
	}
	if err := s.UpsertChatTranscript(ctx, in); err != nil {
		t.Fatalf("UpsertChatTranscript: %v", err)
	}

	got, err := s.GetChatTranscript(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetChatTranscript: %v", err)
	}
	if got == nil || got.MessagesJSON != in.MessagesJSON {
		t.Errorf("transcript = %+v", got)
	}

	in.MessagesJSON = `[]`
	if err := s.UpsertChatTranscript(ctx, in); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = s.GetChatTranscript(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetChatTranscript: %v", err)
	}
	if got.MessagesJSON != `[]` {
		t.Errorf("upsert did not update messages: %q", got.MessagesJSON)
	}

	if err := s.DeleteChatTranscript(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteChatTranscript: %v", err)
	}
	if got, err := s.GetChatTranscript(ctx, "sess-1"); err != nil || got != nil {
		t.Errorf("deleted transcript = %v, %v; want nil, nil", got, err)
	}
}

func TestCleanupExpiredTranscripts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertChatTranscript(ctx, &domain.ChatTranscript{
		SessionID:    "old",
		IdentityJSON: `{}`,
		MessagesJSON: `[]`,
	}); err != nil {
		t.Fatalf("UpsertChatTranscript: %v", err)
	}

	// Nothing is older than an hour yet.
	n, err := s.CleanupExpiredTranscripts(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CleanupExpiredTranscripts: %v", err)
	}
	if n != 0 {
		t.Errorf("cleanup removed %d fresh transcripts", n)
	}

	// With a negative cutoff in the future everything is expired.
	n, err = s.CleanupExpiredTranscripts(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("CleanupExpiredTranscripts: %v", err)
	}
	if n != 1 {
		t.Errorf("cleanup removed %d transcripts, want 1", n)
	}
}
