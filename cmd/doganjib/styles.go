package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles shared across commands.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	assistantStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1)

	customerPrefix = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Render("나> ")
)

// won formats a KRW amount with thousands separators.
func won(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if amount < 0 {
		return "-" + won(-amount)
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out) + "원"
}
