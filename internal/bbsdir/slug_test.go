package bbsdir

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Level 29":        "level-29",
		"The Underground!": "the-underground",
		"  Spaced  Out  ":  "spaced-out",
		"C64-Haven_BBS":    "c64-haven-bbs",
	}
	for in, want := range cases {
		if got := GenerateSlug(in); got != want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindBySlug(t *testing.T) {
	entries := []Entry{
		{ID: "level-29", Name: "Level 29"},
		{ID: "other-bbs", Name: "Other BBS"},
	}
	if e := FindBySlug("level-29", entries); e == nil || e.Name != "Level 29" {
		t.Fatalf("FindBySlug did not find entry by ID")
	}
	if e := FindBySlug("other-bbs", entries); e == nil || e.Name != "Other BBS" {
		t.Fatalf("FindBySlug did not find entry by derived slug")
	}
	if e := FindBySlug("nonexistent", entries); e != nil {
		t.Fatalf("FindBySlug found unexpected entry: %+v", e)
	}
}
