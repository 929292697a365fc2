package fingerprint

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestDigestDeterministic(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
	}{
		{name: "empty tuple", fields: nil},
		{name: "single field", fields: []string{"Attention Is All You Need"}},
		{name: "full reference", fields: []string{"Foo Bar", "Smith, Jane", "2021", "nlp", "Read", "solid intro", "https://example.com/paper"}},
		{name: "empty fields", fields: []string{"", "", ""}},
		{name: "unicode", fields: []string{"Čapek", "日本語", "ümlaut"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Digest(tt.fields...)
			second := Digest(tt.fields...)
			if first != second {
				t.Errorf("Digest not deterministic: %q vs %q", first, second)
			}
			if len(first) != 64 {
				t.Errorf("Digest length = %d, want 64", len(first))
			}
			if first != strings.ToLower(first) {
				t.Errorf("Digest not lowercase hex: %q", first)
			}
		})
	}
}

func TestDigestTrimsFields(t *testing.T) {
	if Digest(" a ", "b\t") != Digest("a", "b") {
		t.Error("Digest should trim each field independently")
	}
}

func TestDigestFieldSensitivity(t *testing.T) {
	base := Digest("title", "authors", "2021")

	tests := []struct {
		name   string
		fields []string
	}{
		{name: "title changed", fields: []string{"title2", "authors", "2021"}},
		{name: "authors changed", fields: []string{"title", "authors2", "2021"}},
		{name: "year changed", fields: []string{"title", "authors", "2022"}},
		{name: "field boundary moved", fields: []string{"titlea", "uthors", "2021"}},
		{name: "field dropped", fields: []string{"title", "authors"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Digest(tt.fields...) == base {
				t.Errorf("Digest(%q) collided with base tuple", tt.fields)
			}
		})
	}
}

func TestDigestProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.SliceOfN(rapid.String(), 0, 8).Draw(rt, "a")
		b := rapid.SliceOfN(rapid.String(), 0, 8).Draw(rt, "b")

		trim := func(ss []string) string {
			out := make([]string, len(ss))
			for i, s := range ss {
				out[i] = strings.TrimSpace(s)
			}
			return strings.Join(out, "\x1f")
		}

		same := trim(a) == trim(b)
		if (Digest(a...) == Digest(b...)) != same {
			rt.Fatalf("digest equality mismatch: tuples %q and %q", a, b)
		}
	})
}

func BenchmarkDigest(b *testing.B) {
	fields := []string{"Foo Bar", "Smith, Jane; Doe, John", "2021", "nlp, vision", "Read", "long running note text", "https://doi.org/10.1234/abc.def"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Digest(fields...)
	}
}
