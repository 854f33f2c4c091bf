package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/ramborogers/bandlock/lock"
	"github.com/ramborogers/bandlock/radio"
)

// SetupView renders the screens of the interactive setup
type SetupView struct {
	styles *Styles
}

// NewSetupView creates a new setup view
func NewSetupView(styles *Styles) *SetupView {
	return &SetupView{styles: styles}
}

// RenderPrompt shows a question with its input field.
func (v *SetupView) RenderPrompt(question, input, hint string) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		v.styles.Title.Render(question),
		"",
		input,
	)

	keyHelp := []string{
		v.styles.KeyStyle.Render("↵") + v.styles.DescStyle.Render(" Confirm"),
		v.styles.KeyStyle.Render("esc") + v.styles.DescStyle.Render(" Cancel"),
	}
	help := v.styles.Help.Render(strings.Join(keyHelp, " • "))
	if hint != "" {
		help = lipgloss.JoinVertical(lipgloss.Left, v.styles.Muted.Render(hint), help)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		v.styles.RenderBanner(),
		"",
		v.styles.Box.Render(content),
		help,
	)
}

// RenderScanning shows the spinner while the scan runs.
func (v *SetupView) RenderScanning(spinner, ssid string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		v.styles.RenderBanner(),
		"",
		fmt.Sprintf("%s Scanning for 5GHz networks matching '%s'...", spinner, ssid),
	)
}

// RenderResult shows what the scan found and where the identity was saved.
func (v *SetupView) RenderResult(res lock.SetupResult, savedTo string) string {
	var b strings.Builder
	name := res.Identity.Name
	d := res.Discovery

	if len(d.Matches) == 0 {
		b.WriteString(v.styles.Warn.Render(fmt.Sprintf("No 5GHz radio found broadcasting '%s'.", name)))
		b.WriteString("\n")
		for _, line := range lock.SteeringWorkaround {
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(d.AllFiveGHz) > 0 {
			b.WriteString("\n")
			b.WriteString(v.styles.Title.Render("All 5GHz networks visible:"))
			b.WriteString("\n")
			b.WriteString(v.NetworkTable(d.AllFiveGHz))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(v.styles.Good.Render(fmt.Sprintf("Found 5GHz radio(s) for '%s':", name)))
		b.WriteString("\n")
		b.WriteString(v.NetworkTable(d.Matches))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Config saved to %s\n", savedTo))
	if res.Locked() {
		b.WriteString(v.styles.Good.Render("Locked to BSSID: " + radio.FormatBSSID(res.Identity.BSSID)))
	} else {
		b.WriteString(v.styles.Warn.Render("No BSSID locked, will scan for any 5GHz match at connect time."))
	}
	b.WriteString("\n\n")
	b.WriteString("Setup complete! Run 'bandlock' to connect to 5GHz.\n")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		v.styles.RenderBanner(),
		"",
		b.String(),
	)
}

// RenderError shows a terminal setup failure with remediation lines.
func (v *SetupView) RenderError(err error, remediation []string) string {
	lines := []string{v.styles.Error.Render(fmt.Sprintf("Setup failed: %v", err))}
	lines = append(lines, remediation...)
	return strings.Join(lines, "\n") + "\n"
}

// NetworkTable renders radios as a table in the order given.
func (v *SetupView) NetworkTable(networks []radio.Network) string {
	columns := []table.Column{
		{Title: "Ch", Width: 4},
		{Title: "Network", Width: 24},
		{Title: "BSSID", Width: 17},
		{Title: "RSSI", Width: 8},
	}

	var rows []table.Row
	for _, n := range networks {
		name := n.SSID
		if n.Hidden() {
			name = "(hidden)"
		}
		bssid := radio.FormatBSSID(n.BSSID)
		if bssid == "" {
			bssid = "??"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", n.Channel),
			name,
			bssid,
			fmt.Sprintf("%d dBm", n.Signal),
		})
	}

	cell := lipgloss.NewStyle().Foreground(secondaryColor).Padding(0, 1)
	tableStyle := table.Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1),
		Selected: cell,
		Cell:     cell,
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)),
		table.WithStyles(tableStyle),
	)
	return t.View()
}
