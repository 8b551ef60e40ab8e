// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bookshelf/pkg/fold"
)

/*
TestKey covers casing, spacing and accent handling.
*/
func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"case", "Dune", "dune", true},
		{"inner_spaces", "Frank Herbert", " frank   herbert ", true},
		{"tabs_and_newlines", "El\tSeñor\nde los Anillos", "el señor de los anillos", true},
		{"composed_vs_decomposed", "Cien a\u00f1os", "Cien an\u0303os", true},
		{"accents_significant", "Años", "Anos", false},
		{"different_titles", "Dune", "Dune Messiah", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, fold.Key(tt.a) == fold.Key(tt.b))
		})
	}

	assert.Equal(t, "frank herbert", fold.Key("  Frank   HERBERT "))
}
