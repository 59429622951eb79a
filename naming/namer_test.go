package naming

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakeTranslator struct {
	out  string
	err  error
	got  string
	lang string
}

func (f *fakeTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	f.got, f.lang = text, lang
	return f.out, f.err
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10 w/o 20", "10 without 20"},
		{"coffee w/ milk", "coffee with milk"},
		{"rated 4/5", "rated 4 of 5"},
		{"cats/dogs", "cats or dogs"},
		{"What is: <this>?", "What is this"},
		{`say "hi" | 50%*`, "say hi  50"},
		{"a / ", "a  "},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := Normalize(c.in)
			if got != c.want {
				t.Fatalf("Normalize(%q) = %q; want %q", c.in, got, c.want)
			}
			if strings.Contains(got, "/") {
				t.Fatalf("slash left in %q", got)
			}
		})
	}
}

func TestFilenameWithoutLanguage(t *testing.T) {
	tr := &fakeTranslator{out: "ignored"}
	n := &Namer{Translator: tr}
	got, err := n.Filename(context.Background(), "10 w/o 20")
	if err != nil {
		t.Fatalf("Filename: %v", err)
	}
	if got != "10 without 20.mp4" {
		t.Fatalf("Filename = %q", got)
	}
	if tr.got != "" {
		t.Fatalf("translator should not be called without a language")
	}
}

func TestFilenameTruncates(t *testing.T) {
	titles := map[string]string{
		"ascii":    strings.Repeat("a", 400),
		"latin":    strings.Repeat("é", 400),
		"japanese": strings.Repeat("日本語のタイトル", 40),
		"emoji":    strings.Repeat("🎥", 100),
	}
	for name, title := range titles {
		t.Run(name, func(t *testing.T) {
			got, err := (&Namer{}).Filename(context.Background(), title)
			if err != nil {
				t.Fatalf("Filename: %v", err)
			}
			stem := strings.TrimSuffix(got, ".mp4")
			if len(stem) > 251 || len(stem) < 248 {
				t.Fatalf("stem is %d bytes; want at most 251 and no shorter than one character less", len(stem))
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncation split a character: %q", got)
			}
			if err := os.WriteFile(filepath.Join(t.TempDir(), got), []byte("x"), 0o644); err != nil {
				t.Fatalf("cannot create %d-byte name: %v", len(got), err)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"ééé", 3, "é"},
		{"ééé", 4, "éé"},
		{"日本", 2, ""},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.max); got != c.want {
			t.Fatalf("Truncate(%q, %d) = %q; want %q", c.in, c.max, got, c.want)
		}
	}
}

func TestFilenameTranslates(t *testing.T) {
	tr := &fakeTranslator{out: strings.Repeat("x", 300)}
	n := &Namer{Lang: "es", Translator: tr}
	got, err := n.Filename(context.Background(), "cats/dogs")
	if err != nil {
		t.Fatalf("Filename: %v", err)
	}
	if tr.got != "cats or dogs" || tr.lang != "es" {
		t.Fatalf("translator got %q/%q", tr.got, tr.lang)
	}
	if len(got) != 251+len(".mp4") {
		t.Fatalf("translated name not truncated: %d", len(got))
	}
}

func TestFilenameTranslatorFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	n := &Namer{Lang: "de", Translator: &fakeTranslator{err: boom}}
	_, err := n.Filename(context.Background(), "title")
	var nerr *NamingError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NamingError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("NamingError should wrap the translator error")
	}
}

func TestFilenameMissingTranslator(t *testing.T) {
	n := &Namer{Lang: "fr"}
	_, err := n.Filename(context.Background(), "title")
	var nerr *NamingError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NamingError, got %v", err)
	}
}

func TestFilenameEmpty(t *testing.T) {
	if _, err := (&Namer{}).Filename(context.Background(), "???"); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
