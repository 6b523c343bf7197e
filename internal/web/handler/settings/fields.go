// Package settings provides the curtain settings page.
package settings

// Kind is the input type of a form field.
type Kind string

const (
	// KindColor is a color picker.
	KindColor Kind = "color"
	// KindText is a single line of text.
	KindText Kind = "text"
	// KindTextarea is multi-line text.
	KindTextarea Kind = "textarea"
	// KindRoles is a multi-select of roles.
	KindRoles Kind = "roles"
)

const (
	// FieldBackground is the notice background color.
	FieldBackground = "background"
	// FieldHeading is the notice heading.
	FieldHeading = "heading"
	// FieldDescription is the notice text.
	FieldDescription = "description"
	// FieldRoles selects the roles allowed to toggle the curtain.
	FieldRoles = "roles"
)

// Field describes one settings form field.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Placeholder string
	Help        string
}

// Fields returns the form fields in display order.
func Fields() []Field {
	return []Field{
		{
			Name:  FieldBackground,
			Label: "Background",
			Kind:  KindColor,
			Help:  "The default color equals your theme's background",
		},
		{
			Name:        FieldHeading,
			Label:       "Heading",
			Kind:        KindText,
			Placeholder: "The headline of the page",
		},
		{
			Name:        FieldDescription,
			Label:       "Description",
			Kind:        KindTextarea,
			Placeholder: "Briefly describe why your site is in maintenance mode",
		},
		{
			Name:  FieldRoles,
			Label: "Managers",
			Kind:  KindRoles,
			Help:  "Who can enable/disable the maintenance mode?",
		},
	}
}
