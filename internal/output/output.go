// Package output renders command results as aligned text tables or JSON,
// plus the money and percent formatting shared by the CLI and the terminal UI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter renders command output as a text table or JSON.
type Formatter struct {
	Writer   io.Writer
	JSONMode bool
}

// New creates a Formatter writing to w. When jsonMode is set, tables render
// as JSON arrays and Print emits pretty-printed JSON.
func New(w io.Writer, jsonMode bool) *Formatter {
	return &Formatter{
		Writer:   w,
		JSONMode: jsonMode,
	}
}

// Table renders headers and rows as an aligned table, or as a JSON array of
// objects in JSON mode.
func (f *Formatter) Table(headers []string, rows [][]string) error {
	if f.JSONMode {
		return f.tableAsJSON(headers, rows)
	}
	return f.tableAsText(headers, rows)
}

func (f *Formatter) tableAsText(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}

	separators := make([]string, len(headers))
	for i, h := range headers {
		separators[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(separators, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func (f *Formatter) tableAsJSON(headers []string, rows [][]string) error {
	result := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		obj := make(map[string]string)
		for i, header := range headers {
			if i < len(row) {
				obj[header] = row[i]
			} else {
				obj[header] = ""
			}
		}
		result = append(result, obj)
	}

	return f.Print(result)
}

// Print emits data as pretty-printed JSON in JSON mode, or a plain string
// representation otherwise.
func (f *Formatter) Print(data any) error {
	if f.JSONMode {
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	_, err := fmt.Fprintf(f.Writer, "%v\n", data)
	return err
}

// Money formats a dollar amount: $1234.56.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// SignedMoney formats a gain or loss with an explicit sign: +$12.00, -$3.50.
func SignedMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

// Percent formats a percentage with an explicit sign: +20.00%, -5.25%.
func Percent(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-%.2f%%", -v)
	}
	return fmt.Sprintf("+%.2f%%", v)
}
