package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	m "github.com/mouse-blink/pyintroduce/internal/model"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

// writeScan renders scan reports in the requested format.
func writeScan(w io.Writer, reports []m.ScanReport, format string) error {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(reports)
		if err != nil {
			return fmt.Errorf("failed to encode scan reports: %w", err)
		}

		_, err = w.Write(out)

		return err
	case FormatJSON:
		if reports == nil {
			reports = []m.ScanReport{}
		}

		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode scan reports: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", out)

		return err
	case FormatTable, "":
		return writeScanTable(w, reports)
	}

	return fmt.Errorf("unknown scan format %q", format)
}

func writeScanTable(w io.Writer, reports []m.ScanReport) error {
	var buf bytes.Buffer

	table := newTable(&buf, "Path", "Line", "Scope", "Count", "Expression", "Name")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	sites := 0

	for _, r := range reports {
		if r.Error != "" {
			table.Append([]string{string(r.Path), "", "", "", "error: " + r.Error, ""})
			continue
		}

		for _, s := range r.Sites {
			table.Append([]string{string(r.Path), strconv.Itoa(s.Line), s.Scope, strconv.Itoa(s.Count), s.Expression, s.Name})
			sites++
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(reports)), "", "", strconv.Itoa(sites), "", ""})
	table.Render()

	_, err := fmt.Fprintf(w, "\n%s", buf.String())

	return err
}

func writeSuggestionTables(w io.Writer, s m.Suggestion) error {
	var buf bytes.Buffer

	table := newTable(&buf, "Line", "Occurrence")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, occ := range s.Occurrences {
		table.Append([]string{strconv.Itoa(occ.Line), occ.Text})
	}

	table.Render()

	_, err := fmt.Fprintf(w, "%s\n", buf.String())

	return err
}

// placeLabel describes a placement for humans.
func placeLabel(place m.InitPlace) string {
	switch place {
	case m.InitConstructor:
		return "in __init__ of the class"
	case m.InitSetUp:
		return "in setUp of the test case"
	}

	return "before the first use"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}

	return fmt.Sprintf("%d %ss", n, word)
}

func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
