package tracker

import (
	"testing"

	"github.com/five82/margin/internal/calendar"
)

func TestParams_EncodeKeepsOrderAndDropsNil(t *testing.T) {
	var missing *string
	name := "Ann Leckie"
	params := Params{}.
		Add("year", 2024).
		Add("skip", nil).
		Add("author", &name).
		Add("gone", missing).
		Add("date", calendar.MustParse("2024-03-01")).
		Add("all", true)

	want := "year=2024&author=Ann+Leckie&date=2024-03-01&all=true"
	if got := params.Encode(); got != want {
		t.Fatalf("Encode() = %q, want %q", got, want)
	}
}

func TestParams_OptionalHelpers(t *testing.T) {
	params := Params{}.
		Add("year", optionalYear(0)).
		Add("date", optionalDate(calendar.Date{}))
	if got := params.Encode(); got != "" {
		t.Fatalf("Encode() = %q, want empty", got)
	}
}

func TestWithQuery(t *testing.T) {
	tests := []struct {
		path   string
		params Params
		want   string
	}{
		{"/stats/basic", nil, "/stats/basic"},
		{"/stats/basic", Params{{Key: "year", Value: 2023}}, "/stats/basic?year=2023"},
		{"/x?a=1", Params{{Key: "b", Value: "two words"}}, "/x?a=1&b=two+words"},
		{"/x", Params{{Key: "z", Value: 1}, {Key: "a", Value: 2}}, "/x?z=1&a=2"},
	}
	for _, tt := range tests {
		if got := withQuery(tt.path, tt.params); got != tt.want {
			t.Fatalf("withQuery(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
