// Package detector resolves the source language of incoming MORT payloads
// when the client sends "auto" instead of a concrete language code.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector identifies the language of payload text. Building the underlying
// lingua models is expensive; construct once at startup and share the
// instance between the router and the validator.
type Detector struct {
	inner lingua.LanguageDetector
}

// New builds a Detector covering all languages lingua knows. The gateway
// cannot constrain the set upfront: "auto" payloads arrive in whatever
// language the game ships.
func New() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// DetectISO returns the lowercase ISO 639-1 code of the most likely language
// of text, matching the code form MORT clients send ("en", "uk", ...).
// ok is false for empty or unclassifiable text; callers fall back to the
// configured source language in that case.
//
// Separator tokens and markup inside the payload are left in place. They
// carry no letters, so they do not steer the classification.
func (d *Detector) DetectISO(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok || lang == lingua.Unknown {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
