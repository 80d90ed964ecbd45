package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Module identifies a screen reachable from a function key.
type Module string

const (
	ModuleHelp      Module = "help"
	ModuleDashboard Module = "dashboard"
	ModuleItems     Module = "items"
	ModulePumps     Module = "pumps"
	ModuleMovements Module = "movements"
	ModuleAlerts    Module = "alerts"
	ModuleUsers     Module = "users"
	ModuleReports   Module = "reports"
)

// Title is the module name shown in the header.
func (m Module) Title() string {
	switch m {
	case ModuleHelp:
		return "HELP"
	case ModuleItems:
		return "ITEMS"
	case ModulePumps:
		return "PUMPS"
	case ModuleMovements:
		return "MOVEMENTS"
	case ModuleAlerts:
		return "ALERTS"
	case ModuleUsers:
		return "USERS"
	case ModuleReports:
		return "REPORTS"
	default:
		return "DASHBOARD"
	}
}

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	// Navigation
	Up       Key
	Down     Key
	PageUp   Key
	PageDown Key
	Home     Key
	End      Key

	// Actions
	Select Key
	Back   Key
	Quit   Key
	Search Key

	// Function keys for module navigation
	F1  Key
	F2  Key
	F3  Key
	F4  Key
	F5  Key
	F6  Key
	F7  Key
	F8  Key
	F10 Key
}

// Key represents a key binding.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

func bind(help string, keys ...string) Key {
	return Key{Keys: keys, Help: help, Enabled: true}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("up", "up", "k"),
		Down:     bind("down", "down", "j"),
		PageUp:   bind("page up", "pgup", "ctrl+u"),
		PageDown: bind("page down", "pgdown", "ctrl+d"),
		Home:     bind("home", "home", "g"),
		End:      bind("end", "end", "G"),

		Select: bind("select", "enter"),
		Back:   bind("back", "esc", "backspace"),
		Quit:   bind("quit", "q", "ctrl+c"),
		Search: bind("search", "/"),

		F1:  bind("Help", "f1", "?"),
		F2:  bind("Dashboard", "f2"),
		F3:  bind("Items", "f3"),
		F4:  bind("Pumps", "f4"),
		F5:  bind("Movements", "f5"),
		F6:  bind("Alerts", "f6"),
		F7:  bind("Users", "f7"),
		F8:  bind("Reports", "f8"),
		F10: bind("Quit", "f10"),
	}
}

// Matches checks if a key message matches this key binding.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	keyStr := msg.String()
	for _, key := range k.Keys {
		if keyStr == key {
			return true
		}
	}
	return false
}

// MatchesAny checks if a key message matches any of the provided key bindings.
func MatchesAny(msg tea.KeyMsg, keys ...Key) bool {
	for _, k := range keys {
		if k.Matches(msg) {
			return true
		}
	}
	return false
}

// IsQuit checks if the key message is a quit command.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return MatchesAny(msg, km.Quit, km.F10)
}

// ModuleFor returns the module bound to a function key, if any.
func (km KeyMap) ModuleFor(msg tea.KeyMsg) (Module, bool) {
	switch {
	case km.F1.Matches(msg):
		return ModuleHelp, true
	case km.F2.Matches(msg):
		return ModuleDashboard, true
	case km.F3.Matches(msg):
		return ModuleItems, true
	case km.F4.Matches(msg):
		return ModulePumps, true
	case km.F5.Matches(msg):
		return ModuleMovements, true
	case km.F6.Matches(msg):
		return ModuleAlerts, true
	case km.F7.Matches(msg):
		return ModuleUsers, true
	case km.F8.Matches(msg):
		return ModuleReports, true
	default:
		return "", false
	}
}

// StatusBarHelp returns the help text for the status bar.
func (km KeyMap) StatusBarHelp() string {
	return "[F1]Help [F2]Dashboard [F3]Items [F4]Pumps [F5]Movements [F6]Alerts [F7]Users [F8]Reports [F10]Quit"
}
