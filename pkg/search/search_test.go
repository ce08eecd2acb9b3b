package search

import (
	"testing"
)

func TestAggregate_DeduplicatesNames(t *testing.T) {
	hits := []Hit{
		{Name: "foo", Summary: "one", Version: "1.0", Score: 1},
		{Name: "bar", Summary: "two", Version: "0.5", Score: 2},
		{Name: "foo", Summary: "three", Version: "2.0", Score: 3},
		{Name: "foo", Summary: "four", Version: "1.5", Score: 4},
	}

	got := Aggregate(hits)

	if len(got) != 2 {
		t.Fatalf("Aggregate returned %d records, want 2", len(got))
	}

	var foo *Package
	for i := range got {
		if got[i].Name == "foo" {
			foo = &got[i]
		}
	}
	if foo == nil {
		t.Fatal("no record for foo")
	}

	wantVersions := []string{"1.0", "2.0", "1.5"}
	if len(foo.Versions) != len(wantVersions) {
		t.Fatalf("foo.Versions = %v, want %v", foo.Versions, wantVersions)
	}
	for i, v := range wantVersions {
		if foo.Versions[i] != v {
			t.Errorf("foo.Versions[%d] = %q, want %q (discovery order)", i, foo.Versions[i], v)
		}
	}
}

func TestAggregate_SummaryTracksHighestVersion(t *testing.T) {
	tests := []struct {
		name        string
		hits        []Hit
		wantSummary string
		wantScore   float64
	}{
		{
			name: "ascending versions replace",
			hits: []Hit{
				{Name: "foo", Summary: "old", Version: "1.0", Score: 1},
				{Name: "foo", Summary: "new", Version: "2.0", Score: 2},
			},
			wantSummary: "new",
			wantScore:   2,
		},
		{
			name: "later lower version does not replace",
			hits: []Hit{
				{Name: "foo", Summary: "new", Version: "2.0", Score: 9},
				{Name: "foo", Summary: "old", Version: "1.0", Score: 1},
			},
			wantSummary: "new",
			wantScore:   9,
		},
		{
			name: "prerelease does not displace final of same release",
			hits: []Hit{
				{Name: "foo", Summary: "stable", Version: "1.0", Score: 5},
				{Name: "foo", Summary: "preview", Version: "1.0rc1", Score: 1},
			},
			wantSummary: "stable",
			wantScore:   5,
		},
		{
			name: "prerelease of a newer release does displace",
			hits: []Hit{
				{Name: "foo", Summary: "stable", Version: "1.0", Score: 5},
				{Name: "foo", Summary: "preview", Version: "2.0a1", Score: 1},
			},
			wantSummary: "preview",
			wantScore:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.hits)
			if len(got) != 1 {
				t.Fatalf("got %d records, want 1", len(got))
			}
			if got[0].Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", got[0].Summary, tt.wantSummary)
			}
			if got[0].Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got[0].Score, tt.wantScore)
			}
		})
	}
}

func TestAggregate_SortsByScoreDescending(t *testing.T) {
	hits := []Hit{
		{Name: "low", Version: "1.0", Score: 1},
		{Name: "high", Version: "1.0", Score: 10},
		{Name: "mid", Version: "1.0", Score: 5},
	}

	got := Aggregate(hits)

	want := []string{"high", "mid", "low"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestAggregate_StableOnEqualScores(t *testing.T) {
	hits := []Hit{
		{Name: "first", Version: "1.0", Score: 3},
		{Name: "second", Version: "1.0", Score: 3},
		{Name: "third", Version: "1.0", Score: 3},
	}

	got := Aggregate(hits)

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("got[%d].Name = %q, want %q (first-seen order on ties)", i, got[i].Name, name)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, want empty", got)
	}
}
