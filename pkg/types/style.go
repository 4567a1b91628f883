// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationStyle selects the rendering rules for in-text citations and
// bibliography entries. Per prd012-citation R1.1.
type CitationStyle string

const (
	StyleAPA       CitationStyle = "apa"
	StyleHarvard   CitationStyle = "harvard"
	StyleChicago   CitationStyle = "chicago"
	StyleMLA       CitationStyle = "mla"
	StyleIEEE      CitationStyle = "ieee"
	StyleVancouver CitationStyle = "vancouver"
	StylePlain     CitationStyle = "plain"
	StyleAlpha     CitationStyle = "alpha"
	StyleUnsrt     CitationStyle = "unsrt"
	StyleAbbrv     CitationStyle = "abbrv"
	StyleNatbib    CitationStyle = "natbib"
	StyleBiblatex  CitationStyle = "biblatex"
)

// ExportFormat selects the serialization of a reference list into a file
// body. Per prd013-export R1.1.
type ExportFormat string

const (
	FormatBibTeX  ExportFormat = "bibtex"
	FormatRIS     ExportFormat = "ris"
	FormatCSV     ExportFormat = "csv"
	FormatJSON    ExportFormat = "json"
	FormatWord    ExportFormat = "word"
	FormatTxt     ExportFormat = "txt"
	FormatEndNote ExportFormat = "endnote"
)

// Extension returns the suggested filename extension for the format,
// without a leading dot. Unknown formats return "txt".
func (f ExportFormat) Extension() string {
	switch f {
	case FormatBibTeX:
		return "bib"
	case FormatRIS:
		return "ris"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatWord, FormatTxt:
		return "txt"
	case FormatEndNote:
		return "enw"
	}
	return "txt"
}
