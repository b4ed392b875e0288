package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"rostersync/internal/roster"
)

// ReadContacts loads onboarding contacts from a CSV file. The header row
// maps columns by name: Nome, Telefone, Email, Empresa are expected, CPF and
// CRM are optional. Absent columns leave the field empty; no per-row
// validation is applied, the platform rejects what it cannot accept. Any
// read error is fatal to the onboarding flow.
func ReadContacts(path string) ([]roster.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var contacts []roster.Contact
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		contacts = append(contacts, roster.Contact{
			Name:    field(row, "Nome"),
			Phone:   field(row, "Telefone"),
			Email:   field(row, "Email"),
			Company: field(row, "Empresa"),
			CPF:     field(row, "CPF"),
			CRM:     field(row, "CRM"),
		})
	}
	return contacts, nil
}
