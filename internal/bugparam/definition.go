package bugparam

import "fmt"

const (
	// NameMaxLength is the longest defect name Octane accepts.
	NameMaxLength = 254

	DefaultType        = "Defect"
	DefaultName        = "Fix $ATTRIBUTE_CATEGORY$ in $ATTRIBUTE_FILE$"
	DefaultDescription = "Issue Ids: $ATTRIBUTE_INSTANCE_ID$\\n$ISSUE_DEEPLINK$"
)

// Definition declares one field: how to create it and which field must be
// refreshed when its value changes.
type Definition struct {
	ID        ID
	New       func() Param
	Refreshes ID
}

// Definitions returns the defect fields in presentation order.
func Definitions() []Definition {
	return []Definition{
		{ID: Type, New: func() Param {
			return &ChoiceParam{
				Field:   Field{ID: Type, Label: "Type", Value: DefaultType, Required: true},
				Choices: []string{DefaultType},
			}
		}},
		{ID: Root, Refreshes: Epic, New: func() Param {
			return &ChoiceParam{Field: Field{ID: Root, Label: "Root", Required: true}}
		}},
		{ID: Epic, Refreshes: Feature, New: func() Param {
			return &ChoiceParam{Field: Field{ID: Epic, Label: "Epic"}}
		}},
		{ID: Feature, New: func() Param {
			return &ChoiceParam{Field: Field{ID: Feature, Label: "Feature"}}
		}},
		{ID: Name, New: func() Param {
			return &TextParam{
				Field:     Field{ID: Name, Label: "Name", Value: DefaultName, Required: true},
				MaxLength: NameMaxLength,
			}
		}},
		{ID: Description, New: func() Param {
			return &TextAreaParam{
				Field: Field{ID: Description, Label: "Description", Value: DefaultDescription, Required: true},
			}
		}},
	}
}

// NewSet instantiates defs. A field that refreshes another must be a choice
// field, and the refreshed field must be declared too.
func NewSet(defs []Definition) (*Set, error) {
	declared := make(map[ID]bool, len(defs))
	for _, d := range defs {
		if declared[d.ID] {
			return nil, fmt.Errorf("parameter %s declared twice", d.ID)
		}
		declared[d.ID] = true
	}

	params := make([]Param, 0, len(defs))
	for _, d := range defs {
		p := d.New()
		if p.field().ID != d.ID {
			return nil, fmt.Errorf("parameter %s created with id %s", d.ID, p.field().ID)
		}
		if d.Refreshes != "" {
			c, ok := p.(*ChoiceParam)
			if !ok {
				return nil, fmt.Errorf("parameter %s refreshes %s but is not a choice field", d.ID, d.Refreshes)
			}
			if !declared[d.Refreshes] {
				return nil, fmt.Errorf("parameter %s refreshes undeclared %s", d.ID, d.Refreshes)
			}
			c.HasDependents = true
		}
		params = append(params, p)
	}
	return newSet(params), nil
}
