// Package ui holds the terminal styles used for CLI output.
//
// Colors are applied through [lipgloss], which drops them automatically when output is not a terminal.
package ui
