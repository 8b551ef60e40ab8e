// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fold builds comparison keys for human-entered text.
//
// # Usage
//
// Two titles typed with different casing or spacing ("Dune", " dune ") must be
// recognised as the same book. Accents are significant: "Años" and "Anos" stay distinct.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Key returns the comparison key of s.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC so composed and decomposed accents compare equal.
// 2. Trims and collapses every whitespace run into a single space.
// 3. Applies Unicode case folding.
func Key(s string) string {
	// 1. Canonical composition
	s = norm.NFC.String(s)

	// 2. Whitespace collapse (strings.Fields splits on any Unicode space)
	s = strings.Join(strings.Fields(s), " ")

	// 3. Case folding is stateful, so a fresh caser is used per call
	return cases.Fold().String(s)
}
