// Package translate formats assembler diagnostics for the user's locale.
//
// All message keys are en-US fmt formats; when no catalog entry matches the
// user's language the key itself is used as the format.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	tag     language.Tag
	printer *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("hackasm: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	tag = message.MatchLanguage(locales...)
	printer = message.NewPrinter(tag)
}

// Language returns the language diagnostics are rendered in.
func Language() language.Tag {
	return tag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
