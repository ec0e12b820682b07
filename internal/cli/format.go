package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/note"
	"github.com/evcraddock/rentapp/internal/property"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertySummary prints a single property in text format.
func printPropertySummary(w io.Writer, p catalog.DisplayProperty) {
	fmt.Fprintf(w, "Property %s\n", p.ID)
	fmt.Fprintf(w, "  Title:    %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(w, "  About:    %s\n", p.Description)
	}
	if p.Price != nil {
		fmt.Fprintf(w, "  Price:    %s\n", formatPrice(*p.Price))
	}
	if p.Rooms != nil {
		fmt.Fprintf(w, "  Rooms:    %d\n", *p.Rooms)
	}
	if p.Area != nil {
		fmt.Fprintf(w, "  Area:     %g m²\n", *p.Area)
	}
	if loc := formatLocation(p.Location); loc != "" {
		fmt.Fprintf(w, "  Location: %s\n", loc)
	}
	fmt.Fprintf(w, "  Listing:  %s\n", p.Status)
	if p.OwnerID != "" {
		fmt.Fprintf(w, "  Owner:    %s\n", p.OwnerID)
	}
	fmt.Fprintf(w, "  Source:   %s\n", p.Source)
	fmt.Fprintf(w, "  Updated:  %s\n", formatTime(p.LastModified()))
}

// printPropertyTable prints properties as a formatted table.
func printPropertyTable(w io.Writer, props []catalog.DisplayProperty) error {
	if len(props) == 0 {
		fmt.Fprintln(w, "No properties found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tROOMS\tCITY\tLISTING\tUPDATED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t-----\t-----\t-----\t----\t-------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range props {
		price := "-"
		if p.Price != nil {
			price = formatPrice(*p.Price)
		}
		rooms := "-"
		if p.Rooms != nil {
			rooms = fmt.Sprintf("%d", *p.Rooms)
		}
		city := p.Location.City
		if city == "" {
			city = "-"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Title, 40), price, rooms, city, p.Status, formatTime(p.LastModified())); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: %d properties\n", len(props))
	return nil
}

// displayRecords projects repository records for printing.
func displayRecords(records []*property.Record) []catalog.DisplayProperty {
	out := make([]catalog.DisplayProperty, 0, len(records))
	for _, r := range records {
		out = append(out, catalog.FromRecord(r))
	}
	return out
}

// printNotes prints note blocks in text format.
func printNotes(w io.Writer, blocks []note.Block) {
	if len(blocks) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}

	for _, b := range blocks {
		fmt.Fprintf(w, "[%s] %s (%s)\n  %s\n\n",
			formatTime(b.LastEditedAt), b.LastEditorName, b.BlockID, b.Content)
	}
}

// printIDs prints one property id per line.
func printIDs(w io.Writer, ids []string, empty string) {
	if len(ids) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}

// formatPrice formats an amount with thousands separators.
func formatPrice(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)

	if len(s) <= 3 {
		return sign + s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return sign + strings.Join(parts, ",")
}

func formatLocation(l property.Location) string {
	var parts []string
	for _, s := range []string{l.Address, l.District, l.City} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
