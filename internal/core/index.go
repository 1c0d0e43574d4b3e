package core

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"azimuth-installer/internal/types"
)

// IndexLines renders the import binding and re-export lines the index file
// carries for one installed package.
func IndexLines(meta types.PackageMetadata) (string, string) {
	symbol := ProperCase(meta.SymbolSource())
	importLine := fmt.Sprintf("import * as %s from './%s';", symbol, meta.Name)
	exportLine := fmt.Sprintf("export { %s };", symbol)
	return importLine, exportLine
}

// ValidateSymbol rejects symbols that cannot be used as a TypeScript
// identifier: empty, starting with a digit, or containing characters other
// than letters, digits, '_' and '$'.
func ValidateSymbol(symbol string, source string) error {
	if symbol == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package name %q yields an empty symbol", source))
	}
	for idx, r := range symbol {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (idx > 0 && unicode.IsDigit(r)) {
			continue
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package name %q yields invalid symbol %q", source, symbol))
	}
	return nil
}

// MergeIndex prepends importLine and appends exportLine to content unless a
// line with the same text is already present. Merging the same lines twice
// yields the content of the first merge.
func MergeIndex(content string, importLine string, exportLine string) string {
	if !hasLine(content, importLine) {
		content = importLine + "\n" + content
	}
	if !hasLine(content, exportLine) {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += exportLine + "\n"
	}
	return content
}

func hasLine(content string, line string) bool {
	want := strings.TrimSpace(line)
	for _, existing := range strings.Split(content, "\n") {
		if strings.TrimSpace(existing) == want {
			return true
		}
	}
	return false
}
