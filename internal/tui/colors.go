package tui

import "github.com/charmbracelet/lipgloss"

const (
	Black       = lipgloss.Color("#000000")
	Red         = lipgloss.Color("#FF5353")
	Orange      = lipgloss.Color("214")
	Yellow      = lipgloss.Color("#DBBD70")
	Green       = lipgloss.Color("34")
	LightGreen  = lipgloss.Color("86")
	DarkGreen   = lipgloss.Color("#325451")
	DeepBlue    = lipgloss.Color("39")
	LightBlue   = lipgloss.Color("81")
	Blue        = lipgloss.Color("63")
	Violet      = lipgloss.Color("13")
	Grey        = lipgloss.Color("#737373")
	LightGrey   = lipgloss.Color("245")
	LighterGrey = lipgloss.Color("250")
	DarkGrey    = lipgloss.Color("#606362")
	White       = lipgloss.Color("#ffffff")
)

var (
	DebugLogLevel = Blue
	InfoLogLevel  = lipgloss.AdaptiveColor{Dark: string(LightGreen), Light: string(Green)}
	ErrorLogLevel = Red
	WarnLogLevel  = Yellow

	LogRecordAttributeKey = lipgloss.AdaptiveColor{Dark: string(LightGrey), Light: string(LightGrey)}

	HelpKey = lipgloss.AdaptiveColor{
		Dark:  "ff",
		Light: "",
	}
	HelpDesc = lipgloss.AdaptiveColor{
		Dark:  "248",
		Light: "246",
	}

	CurrentBackground = Grey
	CurrentForeground = White
	UnreadBackground  = lipgloss.Color("110")
	UnreadForeground  = Black

	ScrollPercentageBackground = lipgloss.AdaptiveColor{
		Dark:  string(DarkGrey),
		Light: string(LighterGrey),
	}

	TitleColor = lipgloss.AdaptiveColor{
		Dark:  "",
		Light: "",
	}

	// Colors for rendered sentiment, worst to best.
	SentimentVeryBad  = Red
	SentimentBad      = Orange
	SentimentNeutral  = LightGrey
	SentimentGood     = LightGreen
	SentimentVeryGood = Green

	GainColor = Green
	LossColor = Red
)
