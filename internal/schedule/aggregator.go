package schedule

import (
	"rostersync/internal/roster"
)

// Aggregator reduces a raw shift window to the unique professionals working
// at permitted locations. Location membership is an exact, case-sensitive
// match; deduplication is by normalized CPF with the first occurrence in
// source order winning.
type Aggregator struct {
	allowed map[string]struct{}
}

// NewAggregator creates an aggregator for the given allow-list of location
// names.
func NewAggregator(allowedLocations []string) *Aggregator {
	allowed := make(map[string]struct{}, len(allowedLocations))
	for _, name := range allowedLocations {
		allowed[name] = struct{}{}
	}
	return &Aggregator{allowed: allowed}
}

// Aggregate filters and deduplicates shifts into canonical professionals.
func (a *Aggregator) Aggregate(shifts []Shift) []roster.Professional {
	seen := make(map[string]struct{}, len(shifts))
	professionals := make([]roster.Professional, 0, len(shifts))

	for _, shift := range shifts {
		if _, ok := a.allowed[shift.Hospital]; !ok {
			continue
		}
		cpf := roster.FormatCPF(shift.ProfessionalCPF)
		if _, ok := seen[cpf]; ok {
			continue
		}
		seen[cpf] = struct{}{}
		professionals = append(professionals, roster.Professional{
			Name: shift.ProfessionalName,
			CPF:  cpf,
		})
	}
	return professionals
}
