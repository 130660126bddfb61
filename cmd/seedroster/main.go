// Command seedroster converts a client roster Excel file into a SQL seed
// file. The first sheet must have columns: First Name, Last Name, Email,
// Phone, with a header row.
// Usage: go run ./cmd/seedroster <roster.xlsx> <therapist-uuid>
// Output: db/seeds/roster.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const batchSize = 200

type rosterEntry struct {
	firstName string
	lastName  string
	email     string
	phone     string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: seedroster <roster.xlsx> <therapist-uuid>")
	}
	xlsxPath := os.Args[1]
	therapistID, err := uuid.Parse(os.Args[2])
	if err != nil {
		return fmt.Errorf("invalid therapist uuid: %w", err)
	}
	outPath := "db/seeds/roster.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseRosterSheet(f)
	if err != nil {
		return fmt.Errorf("parse roster sheet: %w", err)
	}
	log.Printf("roster sheet: %d clients", len(entries))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Client roster seed data generated from Excel.",
		fmt.Sprintf("-- %d clients for therapist %s.", len(entries), therapistID),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, therapistID, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d clients in %s", len(entries), outPath)
	return nil
}

// parseRosterSheet reads the first sheet. Columns: A=First Name, B=Last Name,
// C=Email, D=Phone. Data starts at row index 1 (after the header).
func parseRosterSheet(f *excelize.File) ([]rosterEntry, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []rosterEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		first := strings.TrimSpace(cellVal(row, 0))
		last := strings.TrimSpace(cellVal(row, 1))
		if first == "" && last == "" {
			continue
		}

		key := strings.ToLower(first + "|" + last)
		if seen[key] {
			log.Printf("skipping duplicate roster row %d: %s %s", i+1, first, last)
			continue
		}
		seen[key] = true

		entries = append(entries, rosterEntry{
			firstName: first,
			lastName:  last,
			email:     strings.TrimSpace(cellVal(row, 2)),
			phone:     strings.TrimSpace(cellVal(row, 3)),
		})
	}
	return entries, nil
}

func writeBatch(out *os.File, therapistID uuid.UUID, batch []rosterEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO clients (id, therapist_id, first_name, last_name, email, phone, is_active, created_at, updated_at) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  (gen_random_uuid(), '%s', '%s', '%s', '%s', '%s', true, now(), now())",
			therapistID, escapeSQL(e.firstName), escapeSQL(e.lastName), escapeSQL(e.email), escapeSQL(e.phone))
	}

	b.WriteString("\nON CONFLICT DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
