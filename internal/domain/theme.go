package domain

// Theme is the per-user presentation preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

var AllThemes = []Theme{ThemeSystem, ThemeLight, ThemeDark}

func (t Theme) Valid() bool {
	return t == ThemeSystem || t == ThemeLight || t == ThemeDark
}

func (t Theme) Emoji() string {
	switch t {
	case ThemeLight:
		return "☀️"
	case ThemeDark:
		return "🌙"
	}
	return "🖥"
}
