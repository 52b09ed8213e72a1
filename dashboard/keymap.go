package dashboard

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	pause   key.Binding
	refresh key.Binding
	quit    key.Binding
}

var defaultKeymap = keymap{
	pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume"),
	),
	refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
