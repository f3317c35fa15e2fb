package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vassetti/patter/internal/store"
)

type menuItem struct {
	title string
	desc  string
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

type MenuModel struct {
	st     *store.Store
	author string

	list         list.Model
	windowWidth  int
	windowHeight int
}

// NewMenuModel creates the main menu with Channels and Contacts options.
func NewMenuModel(st *store.Store, author string) MenuModel {
	items := []list.Item{
		menuItem{title: "💬 Channels", desc: "Follow and send messages"},
		menuItem{title: "👥 Contacts", desc: "Display names for board handles"},
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New(items, delegate, 80, 14)
	l.Title = "Patter - Shared Board Chat"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MenuModel{
		st:           st,
		author:       author,
		list:         l,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "enter":
			switch m.list.Index() {
			case 0:
				channelsModel := NewChannelsModel(m.st, m.author)
				if m.windowWidth > 0 {
					updatedModel, cmd := channelsModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
					channelsModel = updatedModel.(ChannelsModel)
					return channelsModel, tea.Batch(channelsModel.Init(), cmd)
				}
				return channelsModel, channelsModel.Init()
			case 1:
				contactsModel := NewContactsModel(m.st, m.author)
				return contactsModel, contactsModel.Init()
			}
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m MenuModel) View() string {
	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: select • q: quit")
	return s
}
