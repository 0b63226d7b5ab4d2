// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/auroralink/auroralink/internal/driver"
	"github.com/auroralink/auroralink/pkg/ndiproto"
)

type watchTickMsg time.Time

// toolItem adapts one tracked tool's current pose to list.Item for the
// bubbles/list-based tool table.
type toolItem struct {
	name string
	tool ndiproto.Tool
}

func (i toolItem) Title() string { return i.name }

func (i toolItem) Description() string {
	if !i.tool.TooltipPose.Valid {
		return "not visible"
	}
	p := i.tool.TooltipPose.Translation
	return fmt.Sprintf("% 8.2f % 8.2f % 8.2f mm   err=%.3f  frame=%d",
		p.X, p.Y, p.Z, i.tool.ErrorRMS, i.tool.FrameNumber)
}

func (i toolItem) FilterValue() string { return i.name }

type watchModel struct {
	d          *driver.Driver
	tools      list.Model
	lastStatus string
	logLines   []string
	maxLog     int
	width      int
	height     int
	quitting   bool
}

func newWatchModel(d *driver.Driver) watchModel {
	delegate := list.NewDefaultDelegate()
	tools := list.New(nil, delegate, 60, 12)
	tools.Title = "Tracked tools"
	tools.SetShowHelp(false)

	return watchModel{d: d, tools: tools, maxLog: 50}
}

func watchTickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(watchTickCmd(), tea.EnterAltScreen)
}

func (m *watchModel) addLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > m.maxLog {
		m.logLines = m.logLines[len(m.logLines)-m.maxLog:]
	}
}

func toolItems(snap driver.Snapshot) []list.Item {
	names := make([]string, 0, len(snap.Tools))
	for name := range snap.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = toolItem{name: name, tool: snap.Tools[name]}
	}
	return items
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "b":
			_ = m.d.Beep(1)
		case "t":
			snap := m.d.Snapshot()
			_ = m.d.ToggleTracking(!snap.IsTracking)
		case "s":
			snap := m.d.Snapshot()
			_ = m.d.ToggleStray(!snap.TrackStrayMarkers)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tools.SetSize(msg.Width-4, msg.Height/2)

	case watchTickMsg:
		snap := m.d.Snapshot()
		status := snap.State.String()
		if status != m.lastStatus {
			m.addLog(fmt.Sprintf("%s -> %s", m.lastStatus, status))
			m.lastStatus = status
		}
		m.tools.SetItems(toolItems(snap))
		return m, watchTickCmd()
	}

	var cmd tea.Cmd
	m.tools, cmd = m.tools.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	snap := m.d.Snapshot()

	header := titleStyle.Render(fmt.Sprintf("auroralink — %s", snap.State.String()))
	header += "  " + labelStyle.Render(fmt.Sprintf("tracking=%v strays=%v", snap.IsTracking, snap.TrackStrayMarkers))

	log := ""
	for _, line := range m.logLines {
		log += line + "\n"
	}

	body := m.tools.View() + "\n" + boxStyle.Render(log)
	footer := labelStyle.Render("q quit · t toggle tracking · s toggle stray markers · b beep")

	return header + "\n\n" + body + "\n" + footer
}
