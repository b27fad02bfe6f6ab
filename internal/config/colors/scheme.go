package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `yaml:"preset"`

	// Primary accent color (used for titles and ids)
	Accent string `yaml:"accent"`

	// Column header colors, used in order and repeated when there are
	// more columns than colors
	Columns []string `yaml:"columns"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted text such as timestamps
	Normal string `yaml:"normal"`

	// Status colors
	Success string `yaml:"success"`
	Warning string `yaml:"warning"`
	Error   string `yaml:"error"`
}

// GetPreset returns a preset color scheme by name
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "default", "":
		return Default()
	default:
		return Default()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
// If preset is specified, loads that preset first, then overrides with custom values
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)

	if c.Preset == "" {
		c.Preset = preset.Preset
	}
	if c.Accent == "" {
		c.Accent = preset.Accent
	}
	if len(c.Columns) == 0 {
		c.Columns = preset.Columns
	}
	if c.Title == "" {
		c.Title = preset.Title
	}
	if c.Subtle == "" {
		c.Subtle = preset.Subtle
	}
	if c.Normal == "" {
		c.Normal = preset.Normal
	}
	if c.Success == "" {
		c.Success = preset.Success
	}
	if c.Warning == "" {
		c.Warning = preset.Warning
	}
	if c.Error == "" {
		c.Error = preset.Error
	}
}

// ColumnColor returns the header color of the column at position i
func (c ColorScheme) ColumnColor(i int) string {
	if len(c.Columns) == 0 {
		return c.Normal
	}
	return c.Columns[i%len(c.Columns)]
}
