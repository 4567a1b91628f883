// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"fmt"
	"strings"

	"github.com/pdiddy/reference-engine/pkg/types"
)

// defaultEntryType is used when metadata carries no entry type.
const defaultEntryType = "article"

// BibtexEntry renders a complete BibTeX record for the reference. Field
// order is fixed (title, author, year, journal, then optional doi, volume,
// pages) so output is reproducible for identical input.
func BibtexEntry(ref *types.Reference) string {
	entryType := ref.Metadata["entry_type"]
	if entryType == "" {
		entryType = defaultEntryType
	}

	authors := ref.Display(types.FieldAuthors)
	if strings.TrimSpace(authors) == "" {
		authors = unknownAuthor
	}

	year := "0000"
	if y := ref.DisplayYear(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, GenerateKey(ref))
	fmt.Fprintf(&b, "  title = {%s},\n", displayTitle(ref))
	fmt.Fprintf(&b, "  author = {%s},\n", authors)
	fmt.Fprintf(&b, "  year = {%s},\n", year)
	fmt.Fprintf(&b, "  journal = {%s},\n", ref.Display(types.FieldVenue))
	if doi := ref.Display(types.FieldDOI); doi != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", doi)
	}
	if volume := ref.Metadata["volume"]; volume != "" {
		fmt.Fprintf(&b, "  volume = {%s},\n", volume)
	}
	if pages := ref.Metadata["pages"]; pages != "" {
		fmt.Fprintf(&b, "  pages = {%s},\n", pages)
	}
	b.WriteString("}")
	return b.String()
}
