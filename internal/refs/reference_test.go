package refs

import "testing"

func sample() Reference {
	return Reference{
		Key:     "AB12",
		Version: 3,
		Title:   "Foo Bar",
		Authors: "Smith, Jane",
		Year:    "2021",
		Themes:  "ml, nlp",
		Status:  StatusRead,
		Notes:   "dense but worth it",
		LinkURL: "https://example.com/paper",
	}
}

func TestReference_ContentFingerprint(t *testing.T) {
	base := sample()
	if base.ContentFingerprint() != sample().ContentFingerprint() {
		t.Fatal("fingerprint not deterministic for identical references")
	}

	// Every synced field participates.
	mutations := map[string]func(*Reference){
		"title":   func(r *Reference) { r.Title = "Foo Baz" },
		"authors": func(r *Reference) { r.Authors = "Doe, John" },
		"year":    func(r *Reference) { r.Year = "2022" },
		"themes":  func(r *Reference) { r.Themes = "nlp" },
		"status":  func(r *Reference) { r.Status = StatusSkimmed },
		"notes":   func(r *Reference) { r.Notes = "skipped it" },
		"link":    func(r *Reference) { r.LinkURL = "https://example.com/other" },
	}
	for field, mutate := range mutations {
		changed := sample()
		mutate(&changed)
		if changed.ContentFingerprint() == base.ContentFingerprint() {
			t.Errorf("changing %s did not change the content fingerprint", field)
		}
	}

	// Key and version are identity, not content.
	relabeled := sample()
	relabeled.Key = "ZZ99"
	relabeled.Version = 42
	if relabeled.ContentFingerprint() != base.ContentFingerprint() {
		t.Error("key/version changed the content fingerprint")
	}
}

func TestReference_CoreFingerprint(t *testing.T) {
	base := sample()

	// Sheet-side edits leave the core fingerprint alone.
	edited := sample()
	edited.Themes = "nlp"
	edited.Status = StatusPriority
	edited.Notes = "rewritten"
	edited.LinkURL = ""
	if edited.CoreFingerprint() != base.CoreFingerprint() {
		t.Error("non-core edit changed the core fingerprint")
	}

	retitled := sample()
	retitled.Title = "Foo Baz"
	if retitled.CoreFingerprint() == base.CoreFingerprint() {
		t.Error("title edit did not change the core fingerprint")
	}
}

func TestReference_Label(t *testing.T) {
	tests := []struct {
		name string
		ref  Reference
		want string
	}{
		{
			name: "title and year",
			ref:  Reference{Key: "AB12", Title: "Foo Bar", Year: "2021"},
			want: "Foo Bar (2021)",
		},
		{
			name: "title only",
			ref:  Reference{Key: "AB12", Title: "Foo Bar"},
			want: "Foo Bar",
		},
		{
			name: "key fallback",
			ref:  Reference{Key: "AB12", Year: "2021"},
			want: "AB12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
