package validation

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/arthur-debert/citeorder/catalog"
)

// MaxKeyLength bounds the length of a source key, in runes
const MaxKeyLength = 128

// ErrInvalidKey is wrapped by every key validation failure
var ErrInvalidKey = errors.New("invalid source key")

// ValidateKey checks that key can name a source: non-empty, printable, and
// free of whitespace
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidKey, key)
	}
	if n := utf8.RuneCountInString(key); n > MaxKeyLength {
		return fmt.Errorf("%w: key is %d characters long (maximum %d)", ErrInvalidKey, n, MaxKeyLength)
	}
	for _, r := range key {
		if unicode.IsSpace(r) {
			return fmt.Errorf("%w: %q contains whitespace", ErrInvalidKey, key)
		}
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%w: %q contains unprintable character %U", ErrInvalidKey, key, r)
		}
	}
	return nil
}

// ValidateSource checks a catalog entry
func ValidateSource(src catalog.Source) error {
	if err := ValidateKey(src.ID); err != nil {
		return fmt.Errorf("source id: %w", err)
	}
	if src.Author == "" && src.Title == "" {
		return fmt.Errorf("source %s: needs an author or a title", src.ID)
	}
	if src.Year < 0 {
		return fmt.Errorf("source %s: year cannot be negative, got %d", src.ID, src.Year)
	}
	return nil
}

// ValidateCatalog checks every entry of c
func ValidateCatalog(c *catalog.Catalog) error {
	if c.Len() == 0 {
		return nil
	}
	srcs, err := c.Range(0, c.Len()-1)
	if err != nil {
		return err
	}
	var errs []error
	for _, src := range srcs {
		if err := ValidateSource(src); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateSpan checks that [from, to) is a well-formed range within length
func ValidateSpan(from, to, length int) error {
	if from < 0 || to < from || to > length {
		return fmt.Errorf("invalid span [%d, %d) for length %d", from, to, length)
	}
	return nil
}
