package db

import "testing"

func TestEscapeTag(t *testing.T) {
	tests := map[string]string{
		"CA":                  "CA",
		"Blue Cross":          `Blue\ Cross`,
		"a-b.c":               `a\-b\.c`,
		"3f2a|x":              `3f2a\|x`,
		"1234567890":          "1234567890",
		"d1f4c0aa-11b2-4c3d": `d1f4c0aa\-11b2\-4c3d`,
	}
	for in, want := range tests {
		if got := EscapeTag(in); got != want {
			t.Errorf("EscapeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeText(t *testing.T) {
	if got := EscapeText("knee (MRI) -urgent"); got != `knee \(MRI\) \-urgent` {
		t.Errorf("EscapeText = %q", got)
	}
	if got := EscapeText("plain words"); got != "plain words" {
		t.Errorf("EscapeText should keep spaces, got %q", got)
	}
}

func TestTagFilter(t *testing.T) {
	if got := TagFilter("permittedGroups"); got != "" {
		t.Errorf("empty values should render empty filter, got %q", got)
	}
	got := TagFilter("permittedGroups", "g-1", "g 2")
	want := `@permittedGroups:{g\-1 | g\ 2}`
	if got != want {
		t.Errorf("TagFilter = %q, want %q", got, want)
	}
}
