package service

import (
	"testing"

	"alertdesk_go/internal/model"
)

func tagNames(tags []model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func TestMatchTags(t *testing.T) {
	tags := []model.Tag{
		{ID: 1, Name: "cat"},
		{ID: 2, Name: "dog"},
		{ID: 3, Name: "bird"},
		{ID: 4, Name: "c++"},
		{ID: 5, Name: "box"},
	}

	cases := []struct {
		name string
		text string
		want []string
	}{
		{"plural forms", "I like cats and dogs.", []string{"cat", "dog"}},
		{"case insensitive", "A CAT appeared", []string{"cat"}},
		{"es plural", "three boxes", []string{"box"}},
		{"not inside other words", "concatenate the dogma", nil},
		{"punctuation in name", "written in C++, mostly", []string{"c++"}},
		{"empty text", "   ", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tagNames(MatchTags(tc.text, tags))
			if len(got) != len(tc.want) {
				t.Fatalf("MatchTags(%q) = %v, want %v", tc.text, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("MatchTags(%q) = %v, want %v", tc.text, got, tc.want)
				}
			}
		})
	}
}

func TestMatchTags_EachTagOnce(t *testing.T) {
	tags := []model.Tag{{ID: 1, Name: "cat"}}
	got := MatchTags("cat cat cats", tags)
	if len(got) != 1 {
		t.Fatalf("expect a single match per tag, got %d", len(got))
	}
}
