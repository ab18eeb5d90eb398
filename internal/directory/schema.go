package directory

// emailMapSchema describes the name->email database: a flat object whose keys
// are name fragments and whose values are email addresses.
func emailMapSchema() map[string]any {
	return map[string]any{
		"type":          "object",
		"propertyNames": map[string]any{"minLength": 1},
		"additionalProperties": map[string]any{
			"type":    "string",
			"pattern": `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
		},
	}
}
