package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const AppName = "vidrank"

// ASCII art logo lines for vidrank - canonical definition
var LogoLines = []string{
	"       ▄▄   ▄▄       ▄▄                        ▄▄    ",
	"▄▄   ▄▄██ ▄▄▄▄ ▄▄▄▄▄ ██ ▄▄▄▄▄  ▄▄▄▄▄▄  ▄▄▄▄▄  ██ ▄▄▄",
	" ██ ██ ██  ██  ██  ██ ██▀    ▀ ██   ██ ██   ██ ██▀▀█▄",
	"  ███  ██  ██  ██  ██ ██       ██▀▀▀▀▀ ██   ██ ██  ██",
	"   ▀   ▀▀ ▀▀▀▀ ▀▀▀▀▀  ▀▀       ▀▀▀▀▀▀  ▀▀   ▀▀ ▀▀  ▀▀",
}

const CompactLogo = `vidrank ›`

// Banner gradient colors
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	SurfaceColor    = lipgloss.Color("#16213E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	// Movement colors
	UpColor    = lipgloss.Color("#10B981")
	DownColor  = lipgloss.Color("#EF4444")
	ShortColor = lipgloss.Color("#FFE66D")

	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#10B981")
)

// Styled components
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	UpStyle = lipgloss.NewStyle().
		Foreground(UpColor)

	DownStyle = lipgloss.NewStyle().
			Foreground(DownColor)

	SameStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ShortTagStyle = lipgloss.NewStyle().
			Foreground(ShortColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	TimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Faint(true)

	ModalTextStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	EmptyStyle = lipgloss.NewStyle()
)

func GetWelcomeMessage() string {
	return GetCompactBanner("Press r to take the first snapshot")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

func ShowBanner(version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)
	lines[len(LogoLines)] = ""

	versionTag := version
	if versionTag != "" && versionTag != "dev" {
		if versionTag[0] != 'v' && versionTag[0] != 'V' {
			versionTag = "v" + versionTag
		}
		lines = append(lines, fmt.Sprintf("    Channel Catalog Tracker %s", versionTag))
	} else {
		lines = append(lines, "    Channel Catalog Tracker")
	}

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}

		colorIdx := i % len(BannerColors)
		style := lipgloss.NewStyle().
			Foreground(BannerColors[colorIdx]).
			Bold(i < len(LogoLines))

		coloredLines = append(coloredLines, style.Render(line))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		MarginTop(1)

	banner := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)
	output := borderStyle.Render(banner)

	fmt.Println(lipgloss.NewStyle().
		Width(70).
		Align(lipgloss.Center).
		MarginBottom(1).
		Render(output))
}
