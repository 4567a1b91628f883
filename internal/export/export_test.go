// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/reference-engine/pkg/types"
)

func sampleRefs() []*types.Reference {
	return []*types.Reference{
		{
			ID:  "r1",
			Key: "Smith2021",
			Original: types.Snapshot{
				Title:   "Deep Learning for NLP",
				Authors: "Smith, John and Doe, Jane",
				Year:    2021,
				Venue:   "Computational Linguistics",
				DOI:     "10.1000/x1",
			},
			Status: types.StatusVerified,
		},
		{
			ID:  "r2",
			Key: "Brown2019",
			Original: types.Snapshot{
				Title:   "Graph Attention Networks",
				Authors: "Brown, Carol",
				Year:    2019,
			},
			Status: types.StatusWarning,
		},
	}
}

func TestSerializeBibtex(t *testing.T) {
	out, err := Serializer{}.Serialize(sampleRefs(), types.FormatBibTeX)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.HasPrefix(out, "@article{Smith2021,") {
		t.Errorf("first entry missing:\n%s", out)
	}
	if !strings.Contains(out, "@article{Brown2019,") {
		t.Errorf("second entry missing:\n%s", out)
	}
	if strings.Index(out, "Smith2021") > strings.Index(out, "Brown2019") {
		t.Error("records must keep input order")
	}
}

func TestSerializeRIS(t *testing.T) {
	out, err := Serializer{}.Serialize(sampleRefs(), types.FormatRIS)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	for _, want := range []string{
		"TY  - JOUR",
		"AU  - Smith, John",
		"AU  - Doe, Jane",
		"TI  - Deep Learning for NLP",
		"PY  - 2021",
		"JO  - Computational Linguistics",
		"DO  - 10.1000/x1",
		"ER  - ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RIS output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "TY  - ") != 2 || strings.Count(out, "ER  - ") != 2 {
		t.Errorf("expected two complete records:\n%s", out)
	}
}

func TestSerializeCSV(t *testing.T) {
	out, err := Serializer{}.Serialize(sampleRefs(), types.FormatCSV)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Title,Authors,Year,Venue,DOI,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Deep Learning for NLP,") || !strings.HasSuffix(lines[1], ",verified") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestSerializeCSVEmptyList(t *testing.T) {
	out, err := Serializer{}.Serialize(nil, types.FormatCSV)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if out != "Title,Authors,Year,Venue,DOI,Status\n" {
		t.Errorf("empty export = %q, want header row only", out)
	}
}

func TestSerializeJSON(t *testing.T) {
	out, err := Serializer{}.Serialize(sampleRefs(), types.FormatJSON)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var decoded []types.Reference
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ID != "r1" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestSerializeText(t *testing.T) {
	out, err := Serializer{Style: types.StyleAPA}.Serialize(sampleRefs(), types.FormatTxt)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "[1] Smith, John, & Doe, Jane (2021).") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[2] Brown, Carol (2019).") {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestSerializeEndNote(t *testing.T) {
	out, err := Serializer{}.Serialize(sampleRefs(), types.FormatEndNote)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	for _, want := range []string{
		"%0 Journal Article",
		"%A Smith, John",
		"%T Deep Learning for NLP",
		"%D 2021",
		"%J Computational Linguistics",
		"%R 10.1000/x1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("EndNote output missing %q:\n%s", want, out)
		}
	}
}

func TestSerializeUnsupportedFormat(t *testing.T) {
	_, err := Serializer{}.Serialize(sampleRefs(), types.ExportFormat("docx"))
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if unsupported.Format != "docx" {
		t.Errorf("error format = %q", unsupported.Format)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	s := Serializer{}
	for _, format := range []types.ExportFormat{
		types.FormatBibTeX, types.FormatRIS, types.FormatCSV,
		types.FormatJSON, types.FormatTxt, types.FormatEndNote,
	} {
		first, err := s.Serialize(sampleRefs(), format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		second, _ := s.Serialize(sampleRefs(), format)
		if first != second {
			t.Errorf("%s: output differs across identical calls", format)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		basename string
		format   types.ExportFormat
		want     string
	}{
		{"mylib", types.FormatBibTeX, "mylib.bib"},
		{"mylib", types.FormatRIS, "mylib.ris"},
		{"mylib", types.FormatCSV, "mylib.csv"},
		{"mylib", types.FormatJSON, "mylib.json"},
		{"mylib", types.FormatWord, "mylib.txt"},
		{"mylib", types.FormatTxt, "mylib.txt"},
		{"mylib", types.FormatEndNote, "mylib.enw"},
		{"", types.FormatBibTeX, "references.bib"},
	}
	for _, tt := range tests {
		if got := Filename(tt.basename, tt.format); got != tt.want {
			t.Errorf("Filename(%q, %s) = %q, want %q", tt.basename, tt.format, got, tt.want)
		}
	}
}

func TestJobHistoryCSV(t *testing.T) {
	rows := []JobRecord{
		{Date: "2026-08-01", Filename: "thesis.bib", Entries: 42, Verified: 40, Issues: 2, Status: "completed"},
	}
	out := JobHistoryCSV(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Date,Filename,Entries,Verified,Issues,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-08-01,thesis.bib,42,40,2,completed" {
		t.Errorf("row = %q", lines[1])
	}

	if out := JobHistoryCSV(nil); out != "Date,Filename,Entries,Verified,Issues,Status\n" {
		t.Errorf("empty history = %q", out)
	}
}
