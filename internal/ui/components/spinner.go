// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

// =============================================================================
// SPINNER
// =============================================================================

// Spinner is the loading indicator shown while an answer is generating or a
// conversation is loading. It wraps the bubbles spinner and renders the
// server's current status label next to it, with an elapsed timer once the
// wait gets long enough to notice.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
	theme     *styles.Theme
}

// timerAfter is how long a wait must last before the elapsed time shows.
const timerAfter = 3 * time.Second

// NewSpinner creates a spinner using the theme's accent styling.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner

	return Spinner{
		spinner: s,
		theme:   theme,
	}
}

// Start activates the spinner with a status message.
func (s *Spinner) Start(message string) tea.Cmd {
	s.message = message
	s.active = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// SetMessage replaces the status text without restarting the timer.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.active
}

// Update advances the spinner animation.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner line, or "" when inactive.
func (s *Spinner) View() string {
	if !s.active {
		return ""
	}

	out := s.spinner.View() + " " + s.theme.ThinkingText.Render(s.message)
	if elapsed := time.Since(s.startTime); elapsed >= timerAfter {
		out += s.theme.ThinkingText.Render(fmt.Sprintf(" (%ds)", int(elapsed.Seconds())))
	}
	return out
}
