package sketch_test

import (
	"testing"

	"imprint/internal/sketch"
)

func TestParseCompleteness(t *testing.T) {
	cases := []struct {
		input string
		want  sketch.Completeness
		ok    bool
	}{
		{"", sketch.CompletenessStandard, true},
		{"standard", sketch.CompletenessStandard, true},
		{" Minimal ", sketch.CompletenessMinimal, true},
		{"FULL", sketch.CompletenessFull, true},
		{"everything", "", false},
	}
	for _, tc := range cases {
		got, err := sketch.ParseCompleteness(tc.input)
		if tc.ok && err != nil {
			t.Fatalf("ParseCompleteness(%q) unexpected error: %v", tc.input, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseCompleteness(%q) expected error", tc.input)
		}
		if got != tc.want {
			t.Fatalf("ParseCompleteness(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestValidateRejectsEmptyInputs(t *testing.T) {
	if err := sketch.FreeText("   ").Validate(); err == nil {
		t.Fatal("expected empty free text to be rejected")
	}
	if err := sketch.Partial(nil).Validate(); err == nil {
		t.Fatal("expected empty partial mapping to be rejected")
	}
	if err := (sketch.Input{Kind: "mystery"}).Validate(); err == nil {
		t.Fatal("expected unknown kind to be rejected")
	}
	if err := sketch.FreeText("cozy mysteries set in lighthouses").Validate(); err != nil {
		t.Fatalf("valid free text rejected: %v", err)
	}
}

func TestParsePartialJSON(t *testing.T) {
	in, err := sketch.ParsePartialJSON([]byte(`{
        "name": "Night Forge",
        "genres": ["horror", "  ", "dark fantasy"],
        "trim_size": "5.5x8.5"
    }`))
	if err != nil {
		t.Fatalf("ParsePartialJSON: %v", err)
	}

	name, ok := in.StringField("name")
	if !ok || name != "Night Forge" {
		t.Fatalf("StringField(name) = %q, %v", name, ok)
	}

	genres, ok := in.StringsField("genres")
	if !ok {
		t.Fatal("StringsField(genres) missing")
	}
	if len(genres) != 2 || genres[0] != "horror" || genres[1] != "dark fantasy" {
		t.Fatalf("genres = %#v", genres)
	}

	if _, ok := in.StringField("missing"); ok {
		t.Fatal("expected missing field to report false")
	}

	if _, err := sketch.ParsePartialJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected malformed JSON to fail")
	}
	if _, err := sketch.ParsePartialJSON([]byte(`{}`)); err == nil {
		t.Fatal("expected empty object to fail validation")
	}
}

func TestSummaryTruncatesFreeText(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "lighthouse mysteries "
	}
	summary := sketch.FreeText(long).Summary()
	if len(summary) > 200 {
		t.Fatalf("summary too long: %d chars", len(summary))
	}
}
