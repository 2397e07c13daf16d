package reconcile

import (
	"testing"
	"time"

	"github.com/streamvault/streamvault/app/store"
)

func TestBackfillCreatedAt_ExistingValueUntouched(t *testing.T) {
	existing := time.Date(2023, time.May, 2, 10, 0, 0, 0, time.UTC)

	got, changed := BackfillCreatedAt(existing, nil, 2016)
	if changed {
		t.Error("Existing creation time should not be backfilled")
	}
	if got != existing {
		t.Errorf("Creation time changed to %v", got)
	}
}

func TestBackfillCreatedAt_FromBlogPost(t *testing.T) {
	postTime := time.Date(2021, time.September, 14, 8, 30, 0, 0, time.UTC)
	post := &store.BlogPost{ID: "b1", ContentType: "show", ContentID: "s1", CreatedAt: postTime}

	got, changed := BackfillCreatedAt(time.Time{}, post, 2016)
	if !changed {
		t.Fatal("Expected backfill to apply")
	}
	if got != postTime {
		t.Errorf("Expected blog post time %v, got %v", postTime, got)
	}
}

func TestBackfillCreatedAt_FromReleaseYear(t *testing.T) {
	got, changed := BackfillCreatedAt(time.Time{}, nil, 2016)
	if !changed {
		t.Fatal("Expected backfill to apply")
	}
	want := time.Date(2016, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBackfillCreatedAt_Fallback(t *testing.T) {
	got, changed := BackfillCreatedAt(time.Time{}, nil, 0)
	if !changed {
		t.Fatal("Expected backfill to apply")
	}
	if got != FallbackCreatedAt {
		t.Errorf("Expected fallback constant, got %v", got)
	}
}
