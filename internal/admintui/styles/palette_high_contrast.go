package styles

// HighContrastTheme favors legibility on low-quality terminals.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Base: BaseColors{
		Background: "16",
		Foreground: "231",
		Muted:      "250",
		Accent:     "51",
		Border:     "231",
	},
	Status: StatusColors{
		Good:  "46",
		Warn:  "226",
		Bad:   "196",
		Stale: "244",
	},
	Message: MessageColors{
		Unread: "87",
		Read:   "250",
		Own:    "225",
	},
	Chrome: ChromeColors{
		Header:       "117",
		Footer:       "159",
		SelectedItem: "51",
		Toast:        "159",
		ToastError:   "196",
	},
}
