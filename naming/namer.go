package naming

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"shortsmith/config"
)

// Translator turns text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// NamingError reports a failure to produce an output filename.
type NamingError struct {
	Title string
	Err   error
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("failed to name %q: %v", e.Title, e.Err)
}

func (e *NamingError) Unwrap() error { return e.Err }

type substitution struct {
	pattern *regexp.Regexp
	repl    string
}

// Slash idioms are rewritten before the generic slash removal.
var substitutions = []substitution{
	{regexp.MustCompile(`[?\\"%*:|<>]`), ""},
	{regexp.MustCompile(`( [wW])\s?/\s?([oO0])`), " without"},
	{regexp.MustCompile(`( [wW])\s?/`), " with"},
	{regexp.MustCompile(`(\d+)\s?/\s?(\d+)`), "$1 of $2"},
	{regexp.MustCompile(`(\w+)\s?/\s?(\w+)`), "$1 or $2"},
	{regexp.MustCompile(`/`), ""},
}

// Normalize makes a title safe to use as a filename.
func Normalize(name string) string {
	for _, s := range substitutions {
		name = s.pattern.ReplaceAllString(name, s.repl)
	}
	return name
}

// Truncate caps name at max bytes without splitting a character.
func Truncate(name string, max int) string {
	if len(name) <= max {
		return name
	}
	cut := 0
	for i := range name {
		if i > max {
			break
		}
		cut = i
	}
	return name[:cut]
}

// Namer derives output filenames from content titles.
type Namer struct {
	// Lang is the optional target language; empty keeps the source language.
	Lang       string
	Translator Translator
}

// Filename normalizes title, translates it when a language is configured,
// and returns it capped at config.MaxFilenameLength bytes with an .mp4
// extension.
func (n *Namer) Filename(ctx context.Context, title string) (string, error) {
	name := strings.TrimSpace(Normalize(title))

	if lang := strings.TrimSpace(n.Lang); lang != "" {
		if n.Translator == nil {
			return "", &NamingError{Title: title, Err: fmt.Errorf("no translator configured for %q", lang)}
		}
		translated, err := n.Translator.Translate(ctx, name, lang)
		if err != nil {
			return "", &NamingError{Title: title, Err: err}
		}
		name = strings.TrimSpace(Normalize(translated))
	}

	if name == "" {
		return "", &NamingError{Title: title, Err: fmt.Errorf("title normalizes to an empty name")}
	}
	return Truncate(name, config.MaxFilenameLength) + ".mp4", nil
}
