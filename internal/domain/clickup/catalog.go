package clickup

// FieldCatalog beantwortet Lookups im Feld-Schema einer Liste
type FieldCatalog struct {
	fields []FieldDefinition
}

func NewFieldCatalog(definitions []FieldDefinition) *FieldCatalog {
	return &FieldCatalog{fields: append([]FieldDefinition(nil), definitions...)}
}

// Lookup sucht eine Felddefinition nach Namen
func (c *FieldCatalog) Lookup(name string) (FieldDefinition, bool) {
	for _, field := range c.fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// OptionIndex liefert den orderindex der Dropdown-Option mit dem Label.
// false heißt: die Option muss vorher manuell in ClickUp angelegt werden.
func (c *FieldCatalog) OptionIndex(field FieldDefinition, label string) (int, bool) {
	for _, option := range field.Options() {
		if option.Name == label {
			return option.OrderIndex, true
		}
	}
	return 0, false
}

func (c *FieldCatalog) Len() int {
	return len(c.fields)
}
