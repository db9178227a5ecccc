package styles

// DefaultTheme is the baseline dark palette for the admin console.
var DefaultTheme = Theme{
	Name: "default",
	Base: BaseColors{
		Background: "234",
		Foreground: "252",
		Muted:      "245",
		Accent:     "75",
		Border:     "240",
	},
	Status: StatusColors{
		Good:  "41",
		Warn:  "220",
		Bad:   "203",
		Stale: "243",
	},
	Message: MessageColors{
		Unread: "81",
		Read:   "245",
		Own:    "147",
	},
	Chrome: ChromeColors{
		Header:       "111",
		Footer:       "110",
		SelectedItem: "75",
		Toast:        "110",
		ToastError:   "203",
	},
}
