package collection_test

import (
	"reflect"
	"testing"

	"github.com/photodesk/photodesk/internal/collection"
)

func TestFilterCriteria_Apply(t *testing.T) {
	base := collection.DefaultFilter()

	search := "kitchen"
	tags := []string{"interior", "staged"}
	next := base.Apply(collection.FilterPatch{
		Search: &search,
		Tags:   &tags,
	})

	if next.Search != "kitchen" {
		t.Errorf("Search = %q, want kitchen", next.Search)
	}
	if !reflect.DeepEqual(next.Tags, tags) {
		t.Errorf("Tags = %v, want %v", next.Tags, tags)
	}
	if next.SortBy != base.SortBy {
		t.Errorf("SortBy = %q, want unchanged %q", next.SortBy, base.SortBy)
	}
	if base.Search != "" {
		t.Error("Apply mutated the receiver, want value semantics")
	}
}

func TestFilterCriteria_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filter  collection.FilterCriteria
		wantErr bool
	}{
		{"defaults", collection.DefaultFilter(), false},
		{
			"bad date range",
			collection.FilterCriteria{DateRange: "decade", SortBy: collection.SortByName, SortDirection: collection.SortAsc},
			true,
		},
		{
			"bad sort field",
			collection.FilterCriteria{DateRange: collection.DateRangeAll, SortBy: "rating", SortDirection: collection.SortAsc},
			true,
		},
		{
			"bad sort direction",
			collection.FilterCriteria{DateRange: collection.DateRangeAll, SortBy: collection.SortByName, SortDirection: "up"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestFilterCriteria_ToQuery(t *testing.T) {
	filter := collection.FilterCriteria{
		Search:        "porch",
		ProjectID:     "p1",
		Tags:          []string{"exterior"},
		DateRange:     collection.DateRangeMonth,
		SortBy:        collection.SortBySize,
		SortDirection: collection.SortAsc,
	}

	query := filter.ToQuery(3, 50)

	if query.Page != 3 || query.Limit != 50 {
		t.Errorf("pagination = %d/%d, want 3/50", query.Page, query.Limit)
	}
	if query.Search != "porch" || query.ProjectID != "p1" {
		t.Errorf("search/project = %q/%q", query.Search, query.ProjectID)
	}
	if query.DateRange != "month" || query.SortBy != "size" || query.SortDirection != "asc" {
		t.Errorf("enums = %q/%q/%q", query.DateRange, query.SortBy, query.SortDirection)
	}
}

func TestFilterCriteria_Digest(t *testing.T) {
	a := collection.DefaultFilter()
	b := collection.DefaultFilter()

	if a.Digest() != b.Digest() {
		t.Error("equal filters produced different digests")
	}

	search := "deck"
	c := a.Apply(collection.FilterPatch{Search: &search})
	if a.Digest() == c.Digest() {
		t.Error("different filters produced the same digest")
	}
}
