package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ProperCase turns a package name such as "azimuth-secrets" into the
// symbol name used in generated code ("AzimuthSecrets"). Segments are split
// on '-', '_', '.' and whitespace; only their first rune is upper-cased.
func ProperCase(value string) string {
	segments := strings.FieldsFunc(value, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	var b strings.Builder
	b.Grow(len(value))
	for _, segment := range segments {
		first, size := utf8.DecodeRuneInString(segment)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(segment[size:])
	}
	return b.String()
}
