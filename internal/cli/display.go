package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"todosync/realtime"
	"todosync/store"
	"todosync/sync"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Width(18)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
	changeStyles = map[string]lipgloss.Style{
		"INSERT": okStyle,
		"UPDATE": warnStyle,
		"DELETE": errStyle,
	}
)

// GetTerminalWidth returns the current terminal width, defaulting to 80 if unable to detect
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}

// panelWidth clamps the status panel to something readable.
func panelWidth() int {
	width := GetTerminalWidth() - 2
	if width < 40 {
		width = 40
	}
	if width > 100 {
		width = 100
	}
	return width
}

// ShowStatus displays the local database and sync state as a bordered panel
func ShowStatus(stats *store.DatabaseStats, lastSyncedAt string, syncEnabled bool) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sync Status"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	if syncEnabled {
		row("Sync:", okStyle.Render("enabled"))
	} else {
		row("Sync:", dimStyle.Render("disabled"))
	}

	if lastSyncedAt == "" {
		row("Last synced:", dimStyle.Render("never"))
	} else {
		row("Last synced:", lastSyncedAt)
	}

	row("Tasks:", fmt.Sprintf("%d", stats.TaskCount))
	row("Categories:", fmt.Sprintf("%d", stats.CategoryCount))

	if stats.PendingSyncOps > 0 {
		row("Pending changes:", warnStyle.Render(fmt.Sprintf("%d", stats.PendingSyncOps)))
	} else {
		row("Pending changes:", okStyle.Render("0"))
	}

	row("Database size:", formatBytes(stats.DatabaseSize))

	fmt.Println(panelStyle.Width(panelWidth()).Render(strings.TrimRight(b.String(), "\n")))
}

// ShowSyncResult prints a one-line summary after a sync pass
func ShowSyncResult(result *sync.Result) {
	summary := fmt.Sprintf("Synced: %d pushed, %d pulled in %s",
		result.Pushed, result.Pulled, result.Duration.Round(10*time.Millisecond))
	if result.Pushed == 0 && result.Pulled == 0 {
		fmt.Println(dimStyle.Render("Already up to date"))
		return
	}
	fmt.Println(okStyle.Render(summary))
}

// ShowRealtimeEvent prints a realtime client event as it happens
func ShowRealtimeEvent(event realtime.Event) {
	switch event.Type {
	case realtime.EventConnected:
		fmt.Println(okStyle.Render("● connected"))
	case realtime.EventDisconnected:
		fmt.Println(dimStyle.Render("○ disconnected"))
	case realtime.EventReconnecting:
		fmt.Println(warnStyle.Render("◌ reconnecting: " + event.Message))
	case realtime.EventError:
		fmt.Println(errStyle.Render("✗ " + event.Message))
	case realtime.EventChange:
		if event.Change == nil {
			return
		}
		style, ok := changeStyles[event.Change.ChangeType]
		if !ok {
			style = valueStyle
		}
		fmt.Printf("%s %s %s\n",
			style.Render(event.Change.ChangeType),
			event.Change.Table,
			dimStyle.Render(event.Change.SyncID))
	}
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
