package panel

import "fmt"

// Section identifies one of the dashboard's views. The set is closed: adding
// a section means adding a constant here and a renderer in the controller's
// section map, which refuses to start when either side is missing.
type Section string

const (
	SectionSales     Section = "sales"
	SectionCustomers Section = "customers"
	SectionProducts  Section = "products"
	SectionStatus    Section = "status"
)

// DefaultSection is shown right after login and when no section is requested.
const DefaultSection = SectionSales

// Sections lists every dashboard section in display order.
func Sections() []Section {
	return []Section{SectionSales, SectionCustomers, SectionProducts, SectionStatus}
}

// ParseSection maps a request value onto the closed section set. Unknown
// values fall back to the default rather than erroring.
func ParseSection(value string) Section {
	switch Section(value) {
	case SectionSales, SectionCustomers, SectionProducts, SectionStatus:
		return Section(value)
	}
	return DefaultSection
}

// Valid reports whether s names a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionSales, SectionCustomers, SectionProducts, SectionStatus:
		return true
	}
	return false
}

// Title is the human label shown in navigation.
func (s Section) Title() string {
	switch s {
	case SectionSales:
		return "Sales"
	case SectionCustomers:
		return "Customers"
	case SectionProducts:
		return "Products"
	case SectionStatus:
		return "Status"
	}
	return string(s)
}

// ensureSectionCoverage verifies that a renderer map covers the full section
// set and nothing else. Called once at construction so a missing arm is a
// startup failure, not a blank page.
func ensureSectionCoverage[T any](arms map[Section]T) error {
	for _, s := range Sections() {
		if _, ok := arms[s]; !ok {
			return fmt.Errorf("panel: no renderer for section %q", s)
		}
	}
	for s := range arms {
		if !s.Valid() {
			return fmt.Errorf("panel: renderer for unknown section %q", s)
		}
	}
	return nil
}
