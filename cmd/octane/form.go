package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/octanebridge/octane/internal/bugparam"
	"github.com/octanebridge/octane/internal/octane"
)

// runFileForm walks the user down Root, Epic and Feature, refreshing the next
// list from Octane after each pick, then asks for the name and description.
func runFileForm(ctx context.Context, s *session) (map[string]string, error) {
	set, err := s.tracker.Parameters(ctx, s.creds)
	if err != nil {
		return nil, err
	}

	for _, id := range []bugparam.ID{bugparam.Root, bugparam.Epic, bugparam.Feature} {
		p, _ := set.Choice(id)
		value, err := selectChoice(p)
		if err != nil {
			return nil, err
		}
		if err := set.SetValue(id, value); err != nil {
			return nil, err
		}
		if set, err = s.tracker.OnParameterChange(ctx, s.creds, id, set); err != nil {
			return nil, err
		}
	}

	name := ""
	description := strings.ReplaceAll(set.Value(bugparam.Description), `\n`, "\n")
	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Short summary of the defect (required)").
				Placeholder("e.g., Fix XSS in login.jsp").
				CharLimit(bugparam.NameMaxLength).
				Value(&name).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewText().
				Title("Description").
				Description("Details, steps to reproduce, links").
				CharLimit(5000).
				Value(&description),

			huh.NewConfirm().
				Title("File this defect?").
				Affirmative("File").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, huh.ErrUserAborted
	}

	return completeValues(set, name, description)
}

// completeValues stores the typed name and description in set and returns
// its values, failing when a required field is still blank.
func completeValues(set *bugparam.Set, name, description string) (map[string]string, error) {
	err := set.Apply(map[string]string{
		string(bugparam.Name):        name,
		string(bugparam.Description): description,
	})
	if err != nil {
		return nil, err
	}
	if missing := set.Missing(); len(missing) > 0 {
		ids := make([]string, len(missing))
		for i, id := range missing {
			ids[i] = string(id)
		}
		return nil, octane.PreconditionError("file defect", "required fields are blank: %s", strings.Join(ids, ", "))
	}
	return set.Values(), nil
}

// selectChoice asks for one of p's choices. Optional fields offer "(none)";
// a required field with a single choice is taken without asking.
func selectChoice(p *bugparam.ChoiceParam) (string, error) {
	if p.Required && len(p.Choices) == 1 {
		return p.Choices[0], nil
	}
	if len(p.Choices) == 0 {
		if p.Required {
			return "", fmt.Errorf("no %s available in Octane", strings.ToLower(p.Label))
		}
		return "", nil
	}

	options := make([]huh.Option[string], 0, len(p.Choices)+1)
	if !p.Required {
		options = append(options, huh.NewOption("(none)", ""))
	}
	for _, c := range p.Choices {
		options = append(options, huh.NewOption(c, c))
	}

	value := p.Value
	description := "Optional"
	if p.Required {
		description = "Required"
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(p.Label).
				Description(description).
				Options(options...).
				Value(&value),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return value, err
}
