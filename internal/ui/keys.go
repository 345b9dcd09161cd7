package ui

import (
	"charm.land/bubbles/v2/key"
)

type pageKeyMap struct {
	Search   key.Binding
	Engines  key.Binding
	Settings key.Binding
	Theme    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Open     key.Binding
	Close    key.Binding
	Focus    key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

func newPageKeyMap() pageKeyMap {
	return pageKeyMap{
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Engines: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "engine"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "display"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "dark mode"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "open"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search box"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQ: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k pageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Engines, k.Settings, k.Theme, k.Next, k.Help}
}

func (k pageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Engines, k.Settings, k.Theme},
		{k.Next, k.Prev, k.Open, k.Close},
		{k.Focus, k.Help, k.Quit, k.ForceQ},
	}
}
