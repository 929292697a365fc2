package notes

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		tags []string
		want Class
	}{
		{
			name: "plain native note",
			body: "<p>just a thought</p>",
			want: Native,
		},
		{
			name: "origin marker",
			body: OriginMarker + "<p><b>Reading sheet notes</b></p><p>foo</p>",
			want: Origin,
		},
		{
			name: "legacy origin tag",
			body: "<p>foo</p>",
			tags: []string{"sheet-origin"},
			want: Origin,
		},
		{
			name: "legacy origin tag case-insensitive",
			body: "<p>foo</p>",
			tags: []string{"Sheet-Origin"},
			want: Origin,
		},
		{
			name: "origin header phrase only",
			body: "<p><b>Reading sheet notes</b></p><p>foo</p>",
			want: Origin,
		},
		{
			name: "imported marker",
			body: ImportedMarker + "<p>already copied</p>",
			want: Imported,
		},
		{
			name: "legacy imported tag",
			body: "<p>already copied</p>",
			tags: []string{"imported-to-sheet"},
			want: Imported,
		},
		{
			name: "origin evidence wins over imported evidence",
			body: OriginMarker + ImportedMarker + "<p>foo</p>",
			tags: []string{"imported-to-sheet"},
			want: Origin,
		},
		{
			name: "unrelated tags stay native",
			body: "<p>foo</p>",
			tags: []string{"nlp", "vision"},
			want: Native,
		},
		{
			name: "header phrase mid-body does not count",
			body: "<p>about the Reading sheet notes feature</p>",
			want: Native,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.body, tt.tags); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMigrate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		tags        []string
		wantBody    string
		wantTags    []string
		wantChanged bool
	}{
		{
			name:        "native untouched",
			body:        "<p>foo</p>",
			tags:        []string{"nlp"},
			wantBody:    "<p>foo</p>",
			wantTags:    []string{"nlp"},
			wantChanged: false,
		},
		{
			name:        "legacy imported tag rewritten to marker",
			body:        "<p>foo</p>",
			tags:        []string{"imported-to-sheet", "nlp"},
			wantBody:    ImportedMarker + "<p>foo</p>",
			wantTags:    []string{"nlp"},
			wantChanged: true,
		},
		{
			name:        "legacy origin tag rewritten to marker",
			body:        "<p>foo</p>",
			tags:        []string{"sheet-origin"},
			wantBody:    OriginMarker + "<p>foo</p>",
			wantTags:    []string{},
			wantChanged: true,
		},
		{
			name:        "header-phrase origin gains marker",
			body:        "<p><b>Reading sheet notes</b></p><p>foo</p>",
			tags:        nil,
			wantBody:    OriginMarker + "<p><b>Reading sheet notes</b></p><p>foo</p>",
			wantTags:    nil,
			wantChanged: true,
		},
		{
			name:        "marker form untouched",
			body:        ImportedMarker + "<p>foo</p>",
			tags:        []string{"nlp"},
			wantBody:    ImportedMarker + "<p>foo</p>",
			wantTags:    []string{"nlp"},
			wantChanged: false,
		},
		{
			name:        "marker form with stale legacy tag only strips the tag",
			body:        ImportedMarker + "<p>foo</p>",
			tags:        []string{"imported-to-sheet"},
			wantBody:    ImportedMarker + "<p>foo</p>",
			wantTags:    []string{},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotBody, gotTags, gotChanged := Migrate(tt.body, tt.tags)
			if gotBody != tt.wantBody {
				t.Errorf("Migrate() body = %q, want %q", gotBody, tt.wantBody)
			}
			if !equalStrings(gotTags, tt.wantTags) {
				t.Errorf("Migrate() tags = %v, want %v", gotTags, tt.wantTags)
			}
			if gotChanged != tt.wantChanged {
				t.Errorf("Migrate() changed = %v, want %v", gotChanged, tt.wantChanged)
			}
		})
	}
}

// Migrating a second time must be a no-op regardless of the first pass.
func TestMigrate_Idempotent(t *testing.T) {
	inputs := []struct {
		body string
		tags []string
	}{
		{"<p>foo</p>", []string{"imported-to-sheet"}},
		{"<p>foo</p>", []string{"sheet-origin", "nlp"}},
		{"<p><b>Reading sheet notes</b></p><p>x</p>", nil},
		{ImportedMarker + "<p>foo</p>", nil},
		{"<p>plain</p>", []string{"nlp"}},
	}

	for _, in := range inputs {
		body1, tags1, _ := Migrate(in.body, in.tags)
		body2, tags2, changed2 := Migrate(body1, tags1)
		if changed2 {
			t.Errorf("second Migrate(%q, %v) reported changed", in.body, in.tags)
		}
		if body2 != body1 || !equalStrings(tags2, tags1) {
			t.Errorf("second Migrate(%q, %v) altered the note: %q %v -> %q %v",
				in.body, in.tags, body1, tags1, body2, tags2)
		}
	}
}

func TestIsInternalTag(t *testing.T) {
	for _, tag := range []string{"sheet-origin", "imported-to-sheet", "Sheet-Origin", "IMPORTED-TO-SHEET"} {
		if !IsInternalTag(tag) {
			t.Errorf("IsInternalTag(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"nlp", "origin", "imported", ""} {
		if IsInternalTag(tag) {
			t.Errorf("IsInternalTag(%q) = true, want false", tag)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
