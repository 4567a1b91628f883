// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes reference lists into complete file bodies in
// the supported formats. Output is UTF-8 text, one record per reference in
// input order, deterministic for identical input.
// Implements: prd013-export (R1-R4);
//
//	docs/ARCHITECTURE.md § Export Serializer.
package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/reference-engine/internal/citation"
	"github.com/pdiddy/reference-engine/internal/normalize"
	"github.com/pdiddy/reference-engine/pkg/types"
)

// UnsupportedFormatError reports an export format the serializer does not
// recognize. Unlike citation styles, which fall back silently, export must
// fail loudly: a wrong format would produce a file the user cannot open.
type UnsupportedFormatError struct {
	Format types.ExportFormat
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// referenceCSVHeader is the fixed column set for reference-list exports.
const referenceCSVHeader = "Title,Authors,Year,Venue,DOI,Status"

// jobCSVHeader is the fixed column set for job-history exports.
const jobCSVHeader = "Date,Filename,Entries,Verified,Issues,Status"

// Serializer renders reference lists. Style selects the citation style for
// text-based formats; the zero value uses APA.
type Serializer struct {
	Style types.CitationStyle
}

// Serialize produces the complete file body for refs in the given format.
func (s Serializer) Serialize(refs []*types.Reference, format types.ExportFormat) (string, error) {
	switch format {
	case types.FormatBibTeX:
		return serializeBibtex(refs), nil
	case types.FormatRIS:
		return serializeRIS(refs), nil
	case types.FormatCSV:
		return serializeCSV(refs), nil
	case types.FormatJSON:
		return serializeJSON(refs)
	case types.FormatWord, types.FormatTxt:
		return s.serializeText(refs), nil
	case types.FormatEndNote:
		return serializeEndNote(refs), nil
	}
	return "", &UnsupportedFormatError{Format: format}
}

// Filename returns the suggested download name for a basename and format.
func Filename(basename string, format types.ExportFormat) string {
	if basename == "" {
		basename = "references"
	}
	return basename + "." + format.Extension()
}

func serializeBibtex(refs []*types.Reference) string {
	entries := make([]string, len(refs))
	for i, ref := range refs {
		entries[i] = citation.BibtexEntry(ref)
	}
	return strings.Join(entries, "\n\n") + "\n"
}

// risTypeFor maps a BibTeX entry type from metadata onto a RIS TY tag.
func risTypeFor(ref *types.Reference) string {
	switch ref.Metadata["entry_type"] {
	case "book":
		return "BOOK"
	case "inproceedings", "conference":
		return "CONF"
	case "techreport":
		return "RPRT"
	case "phdthesis", "mastersthesis":
		return "THES"
	default:
		return "JOUR"
	}
}

func serializeRIS(refs []*types.Reference) string {
	var b strings.Builder
	for i, ref := range refs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "TY  - %s\n", risTypeFor(ref))
		for _, author := range normalize.SplitAuthors(ref.Display(types.FieldAuthors)) {
			fmt.Fprintf(&b, "AU  - %s\n", author)
		}
		fmt.Fprintf(&b, "TI  - %s\n", ref.Display(types.FieldTitle))
		if y := ref.DisplayYear(); y > 0 {
			fmt.Fprintf(&b, "PY  - %d\n", y)
		}
		if venue := ref.Display(types.FieldVenue); venue != "" {
			fmt.Fprintf(&b, "JO  - %s\n", venue)
		}
		if doi := ref.Display(types.FieldDOI); doi != "" {
			fmt.Fprintf(&b, "DO  - %s\n", doi)
		}
		b.WriteString("ER  - \n")
	}
	return b.String()
}

// serializeCSV writes the fixed header plus one row per reference. Fields
// are joined with literal commas; a field that itself contains a comma is
// passed through unescaped. Known limitation carried over from the
// product's export behavior.
func serializeCSV(refs []*types.Reference) string {
	var b strings.Builder
	b.WriteString(referenceCSVHeader + "\n")
	for _, ref := range refs {
		year := ""
		if y := ref.DisplayYear(); y > 0 {
			year = strconv.Itoa(y)
		}
		row := []string{
			ref.Display(types.FieldTitle),
			ref.Display(types.FieldAuthors),
			year,
			ref.Display(types.FieldVenue),
			ref.Display(types.FieldDOI),
			string(ref.Status),
		}
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	return b.String()
}

func serializeJSON(refs []*types.Reference) (string, error) {
	if refs == nil {
		refs = []*types.Reference{}
	}
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// serializeText renders a numbered bibliography in the serializer's style.
func (s Serializer) serializeText(refs []*types.Reference) string {
	style := s.Style
	if style == "" {
		style = types.StyleAPA
	}
	var b strings.Builder
	for i, ref := range refs {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, citation.Format(ref, style).Bibliography)
	}
	return b.String()
}

// endnoteTypeFor maps a BibTeX entry type onto an EndNote %0 tag value.
func endnoteTypeFor(ref *types.Reference) string {
	switch ref.Metadata["entry_type"] {
	case "book":
		return "Book"
	case "inproceedings", "conference":
		return "Conference Paper"
	default:
		return "Journal Article"
	}
}

func serializeEndNote(refs []*types.Reference) string {
	var b strings.Builder
	for i, ref := range refs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%%0 %s\n", endnoteTypeFor(ref))
		for _, author := range normalize.SplitAuthors(ref.Display(types.FieldAuthors)) {
			fmt.Fprintf(&b, "%%A %s\n", author)
		}
		fmt.Fprintf(&b, "%%T %s\n", ref.Display(types.FieldTitle))
		if y := ref.DisplayYear(); y > 0 {
			fmt.Fprintf(&b, "%%D %d\n", y)
		}
		if venue := ref.Display(types.FieldVenue); venue != "" {
			fmt.Fprintf(&b, "%%J %s\n", venue)
		}
		if doi := ref.Display(types.FieldDOI); doi != "" {
			fmt.Fprintf(&b, "%%R %s\n", doi)
		}
	}
	return b.String()
}

// JobRecord is one row of a job-history export.
type JobRecord struct {
	Date     string
	Filename string
	Entries  int
	Verified int
	Issues   int
	Status   string
}

// JobHistoryCSV serializes job-history rows under the job-history header.
// Same comma-joining limitation as the reference CSV.
func JobHistoryCSV(rows []JobRecord) string {
	var b strings.Builder
	b.WriteString(jobCSVHeader + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,%d,%d,%d,%s\n",
			r.Date, r.Filename, r.Entries, r.Verified, r.Issues, r.Status)
	}
	return b.String()
}
