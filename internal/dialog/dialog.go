// Package dialog loads the optional transcript that guides phone
// recognition and reduces it to plain, comparable text.
package dialog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"lipsync/internal/fileutil"
	"lipsync/internal/services"
)

// Dialog is a normalized transcript. Hash identifies Text and is part of
// the phone cache key, so two files that normalize to the same text share
// cached results.
type Dialog struct {
	Source string
	Text   string
	Hash   string
}

var punctuation = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`, "″", `"`,
	"–", "-", "—", "-", "−", "-",
	"…", "...",
)

// Load reads path and normalizes its contents.
func Load(path string) (*Dialog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.InvalidArgument("dialog file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return nil, services.Wrap(marker, "dialog", "read", path, err)
	}
	text, err := Normalize(string(data))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "dialog", "normalize", path, err)
	}
	return &Dialog{Source: path, Text: text, Hash: fileutil.HashString(text)}, nil
}

// Normalize folds full-width forms, strips combining marks, replaces
// typographic punctuation with ASCII and collapses whitespace runs to a
// single space.
func Normalize(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("text is not valid UTF-8")
	}
	folded, _, err := transform.String(transform.Chain(
		width.Fold,
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), punctuation.Replace(text))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(folded), " "), nil
}

// Empty reports whether the dialog carries no text.
func (d *Dialog) Empty() bool {
	return d == nil || d.Text == ""
}

// Words splits the text into lower-case words, keeping apostrophes inside
// words and dropping other punctuation.
func (d *Dialog) Words() []string {
	if d.Empty() {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(d.Text), func(r rune) bool {
		return r != '\'' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WriteTemp stores the normalized text in a temporary file under dir
// (os.TempDir when empty) for the recognizer to read. The returned cleanup
// removes the file.
func (d *Dialog) WriteTemp(dir string) (string, func(), error) {
	if d.Empty() {
		return "", func() {}, nil
	}
	file, err := os.CreateTemp(dir, "lipsync-dialog-*.txt")
	if err != nil {
		return "", func() {}, fmt.Errorf("create dialog file: %w", err)
	}
	cleanup := func() { _ = os.Remove(file.Name()) }
	if _, err := file.WriteString(d.Text + "\n"); err != nil {
		_ = file.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("write dialog file: %w", err)
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close dialog file: %w", err)
	}
	return file.Name(), cleanup, nil
}
