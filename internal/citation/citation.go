// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation renders references as in-text citations and bibliography
// entries in the supported styles, and generates stable BibTeX citation
// keys. Formatting never fails: missing data falls back to documented
// sentinels and unknown styles fall back to plain \cite behavior.
// Implements: prd012-citation (R1-R4);
//
//	docs/ARCHITECTURE.md § Citation Formatter.
package citation

import (
	"fmt"
	"strings"

	"github.com/pdiddy/reference-engine/internal/normalize"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// Sentinels used when a field is missing; formatting must never error out
// on incomplete data.
const (
	unknownAuthor = "Unknown Author"
	unknownYear   = "Unknown Year"
)

// keySentinel guards against a serialized missing key leaking into output.
const keySentinel = "undefined"

// Citation is the rendered output for one reference in one style.
type Citation struct {
	// InText is the inline citation marker.
	InText string

	// Bibliography is the reference-list entry.
	Bibliography string

	// Extra carries a style's secondary inline form where one exists
	// (natbib's \citet alongside \citep).
	Extra string
}

// GenerateKey returns the reference's citation key, deriving
// <LastNameOfFirstAuthor><Year> when none is set. Missing parts fall back
// to "Unknown" and "0000". Idempotent, and never returns the literal
// string "undefined".
func GenerateKey(ref *types.Reference) string {
	if ref.Key != "" && ref.Key != keySentinel {
		return ref.Key
	}

	last := "Unknown"
	if authors := normalize.SplitAuthors(ref.Display(types.FieldAuthors)); len(authors) > 0 {
		if fam := familyName(authors[0]); fam != "" {
			last = sanitizeKeyPart(fam)
		}
	}

	year := "0000"
	if y := ref.DisplayYear(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}

	return last + year
}

// Format renders ref in the requested style. Display values follow the
// canonical-then-original precedence. Unrecognized styles render as LaTeX
// plain \cite; this must not fail.
func Format(ref *types.Reference, style types.CitationStyle) Citation {
	key := GenerateKey(ref)

	switch style {
	case types.StyleAPA:
		return Citation{
			InText:       apaInText(ref),
			Bibliography: apaBibliography(ref),
		}
	case types.StyleHarvard, types.StyleChicago:
		return Citation{
			InText:       authorYearInText(ref, style == types.StyleHarvard),
			Bibliography: authorYearBibliography(ref),
		}
	case types.StyleMLA:
		return Citation{
			InText:       "(" + firstFamily(ref) + ")",
			Bibliography: mlaBibliography(ref),
		}
	case types.StyleIEEE:
		return Citation{
			InText:       "[1]",
			Bibliography: ieeeBibliography(ref),
		}
	case types.StyleVancouver:
		return Citation{
			InText:       "(1)",
			Bibliography: vancouverBibliography(ref),
		}
	case types.StyleNatbib:
		return Citation{
			InText:       fmt.Sprintf(`\citep{%s}`, key),
			Extra:        fmt.Sprintf(`\citet{%s}`, key),
			Bibliography: BibtexEntry(ref),
		}
	case types.StyleBiblatex:
		return Citation{
			InText:       fmt.Sprintf(`\autocite{%s}`, key),
			Bibliography: BibtexEntry(ref),
		}
	default:
		// plain, alpha, unsrt, abbrv, and anything unrecognized.
		return Citation{
			InText:       fmt.Sprintf(`\cite{%s}`, key),
			Bibliography: BibtexEntry(ref),
		}
	}
}

// --- APA ---

// apaInText renders "(Smith, 2021)", "(Smith & Doe, 2021)", or
// "(Smith et al., 2021)" by author count.
func apaInText(ref *types.Reference) string {
	families := familyNames(ref)
	year := displayYear(ref)

	var names string
	switch len(families) {
	case 0:
		names = unknownAuthor
	case 1:
		names = families[0]
	case 2:
		names = families[0] + " & " + families[1]
	default:
		names = families[0] + " et al."
	}
	return fmt.Sprintf("(%s, %s)", names, year)
}

// apaMaxAuthors is APA 7's bibliography author cap.
const apaMaxAuthors = 20

func apaBibliography(ref *types.Reference) string {
	authors := normalize.SplitAuthors(ref.Display(types.FieldAuthors))

	var list string
	switch {
	case len(authors) == 0:
		list = unknownAuthor
	case len(authors) == 1:
		list = authors[0]
	case len(authors) > apaMaxAuthors:
		list = authors[0] + ", et al."
	default:
		list = strings.Join(authors[:len(authors)-1], ", ") + ", & " + authors[len(authors)-1]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s). %s.", list, displayYear(ref), displayTitle(ref))
	if venue := ref.Display(types.FieldVenue); venue != "" {
		fmt.Fprintf(&b, " %s.", venue)
	}
	if doi := ref.Display(types.FieldDOI); doi != "" {
		fmt.Fprintf(&b, " https://doi.org/%s", doi)
	}
	return b.String()
}

// --- Harvard / Chicago ---

func authorYearInText(ref *types.Reference, comma bool) string {
	families := familyNames(ref)
	year := displayYear(ref)

	var names string
	switch len(families) {
	case 0:
		names = unknownAuthor
	case 1:
		names = families[0]
	case 2:
		names = families[0] + " and " + families[1]
	default:
		names = families[0] + " et al."
	}
	if comma {
		return fmt.Sprintf("(%s, %s)", names, year)
	}
	return fmt.Sprintf("(%s %s)", names, year)
}

func authorYearBibliography(ref *types.Reference) string {
	authors := ref.Display(types.FieldAuthors)
	if strings.TrimSpace(authors) == "" {
		authors = unknownAuthor
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s). %s.", authors, displayYear(ref), displayTitle(ref))
	if venue := ref.Display(types.FieldVenue); venue != "" {
		fmt.Fprintf(&b, " %s.", venue)
	}
	return b.String()
}

// --- MLA ---

func mlaBibliography(ref *types.Reference) string {
	authors := normalize.SplitAuthors(ref.Display(types.FieldAuthors))

	var list string
	switch {
	case len(authors) == 0:
		list = unknownAuthor
	case len(authors) == 1:
		list = invertName(authors[0])
	default:
		list = invertName(authors[0]) + ", et al."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s. \"%s.\"", list, displayTitle(ref))
	if venue := ref.Display(types.FieldVenue); venue != "" {
		fmt.Fprintf(&b, " %s,", venue)
	}
	fmt.Fprintf(&b, " %s.", displayYear(ref))
	return b.String()
}

// --- IEEE ---

func ieeeBibliography(ref *types.Reference) string {
	authors := ref.Display(types.FieldAuthors)
	if strings.TrimSpace(authors) == "" {
		authors = unknownAuthor
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s, \"%s,\"", authors, displayTitle(ref))
	if venue := ref.Display(types.FieldVenue); venue != "" {
		fmt.Fprintf(&b, " %s,", venue)
	}
	fmt.Fprintf(&b, " %s.", displayYear(ref))
	return b.String()
}

// --- Vancouver ---

// vancouverMaxAuthors is the truncation point: list six, then et al.
const vancouverMaxAuthors = 6

func vancouverBibliography(ref *types.Reference) string {
	authors := normalize.SplitAuthors(ref.Display(types.FieldAuthors))

	var list string
	switch {
	case len(authors) == 0:
		list = unknownAuthor
	case len(authors) > vancouverMaxAuthors:
		parts := make([]string, vancouverMaxAuthors, vancouverMaxAuthors+1)
		for i := 0; i < vancouverMaxAuthors; i++ {
			parts[i] = vancouverName(authors[i])
		}
		parts = append(parts, "et al.")
		list = strings.Join(parts, ", ")
	default:
		parts := make([]string, len(authors))
		for i, a := range authors {
			parts[i] = vancouverName(a)
		}
		list = strings.Join(parts, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s. %s.", list, displayTitle(ref))
	if venue := ref.Display(types.FieldVenue); venue != "" {
		fmt.Fprintf(&b, " %s.", venue)
	}
	fmt.Fprintf(&b, " %s.", displayYear(ref))
	return b.String()
}

// vancouverName renders "Doe, Jane Ann" or "Jane Ann Doe" as "Doe JA".
func vancouverName(name string) string {
	family, given := splitName(name)
	if family == "" {
		return strings.TrimSpace(name)
	}
	var initials strings.Builder
	for _, part := range strings.Fields(given) {
		r := []rune(strings.TrimRight(part, "."))
		if len(r) > 0 {
			initials.WriteRune(r[0])
		}
	}
	if initials.Len() == 0 {
		return family
	}
	return family + " " + initials.String()
}

// --- name helpers ---

// splitName separates a single author into family and given parts.
// "Smith, John" splits at the comma; "John Smith" takes the last token
// as family.
func splitName(name string) (family, given string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
	}
	return normalize.LastName(name), normalize.FirstName(name)
}

// familyName returns the family part of one author name.
func familyName(name string) string {
	family, _ := splitName(name)
	return family
}

// invertName renders a name as "Last, First" for MLA-style lists.
func invertName(name string) string {
	family, given := splitName(name)
	if given == "" {
		return family
	}
	return family + ", " + given
}

// familyNames returns the family name of every author on the reference.
func familyNames(ref *types.Reference) []string {
	authors := normalize.SplitAuthors(ref.Display(types.FieldAuthors))
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if fam := familyName(a); fam != "" {
			out = append(out, fam)
		}
	}
	return out
}

// firstFamily returns the first author's family name or the sentinel.
func firstFamily(ref *types.Reference) string {
	if families := familyNames(ref); len(families) > 0 {
		return families[0]
	}
	return unknownAuthor
}

func displayTitle(ref *types.Reference) string {
	if t := ref.Display(types.FieldTitle); t != "" {
		return t
	}
	return "Untitled"
}

func displayYear(ref *types.Reference) string {
	if y := ref.DisplayYear(); y > 0 {
		return fmt.Sprintf("%d", y)
	}
	return unknownYear
}

// sanitizeKeyPart strips characters that would break a BibTeX key.
func sanitizeKeyPart(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == ',' || r == '{' || r == '}' || r == '\\' || r == '#' || r == '%' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
