package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vassetti/patter/internal/contacts"
	"github.com/vassetti/patter/internal/store"
)

// ContactsModel shows the handle-to-name mapping used when rendering
// senders, with a two-field inline form for adding entries.
type ContactsModel struct {
	st     *store.Store
	author string

	contacts    []contacts.Contact
	handleInput textinput.Model
	nameInput   textinput.Model
	adding      bool
	focusName   bool
	err         error

	windowWidth  int
	windowHeight int
}

func NewContactsModel(st *store.Store, author string) ContactsModel {
	handle := textinput.New()
	handle.Placeholder = "handle"
	handle.CharLimit = 64

	name := textinput.New()
	name.Placeholder = "display name"
	name.CharLimit = 64

	return ContactsModel{
		st:           st,
		author:       author,
		contacts:     contacts.All(),
		handleInput:  handle,
		nameInput:    name,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ContactsModel) Init() tea.Cmd {
	return nil
}

func (m ContactsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.adding {
			switch msg.String() {
			case "esc":
				m.adding = false
				m.handleInput.Reset()
				m.nameInput.Reset()
				return m, nil
			case "tab", "enter":
				if !m.focusName {
					m.focusName = true
					m.handleInput.Blur()
					m.nameInput.Focus()
					return m, textinput.Blink
				}
				if msg.String() == "enter" {
					return m.saveContact()
				}
				m.focusName = false
				m.nameInput.Blur()
				m.handleInput.Focus()
				return m, textinput.Blink
			default:
				var cmd tea.Cmd
				if m.focusName {
					m.nameInput, cmd = m.nameInput.Update(msg)
				} else {
					m.handleInput, cmd = m.handleInput.Update(msg)
				}
				return m, cmd
			}
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			menuModel := NewMenuModel(m.st, m.author)
			return menuModel, menuModel.Init()
		case "n", "a":
			m.adding = true
			m.focusName = false
			m.handleInput.Focus()
			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m ContactsModel) saveContact() (tea.Model, tea.Cmd) {
	handle := strings.TrimSpace(m.handleInput.Value())
	name := strings.TrimSpace(m.nameInput.Value())
	if handle == "" || name == "" {
		return m, nil
	}

	if err := contacts.Save(contacts.Contact{Handle: handle, Name: name}); err != nil {
		m.err = err
		return m, nil
	}

	m.adding = false
	m.handleInput.Reset()
	m.nameInput.Reset()
	m.nameInput.Blur()
	m.contacts = contacts.All()
	return m, nil
}

func (m ContactsModel) View() string {
	s := titleStyle.Render("Contacts") + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	if m.adding {
		s += inputStyle.Render("Handle:") + " " + m.handleInput.View() + "\n"
		s += inputStyle.Render("Name:  ") + " " + m.nameInput.View() + "\n\n"
		s += helpStyle.Render("tab: next field • enter: save • esc: cancel")
		return s
	}

	if len(m.contacts) == 0 {
		s += normalStyle.Render("  No contacts saved. Handles render as-is.") + "\n"
	} else {
		for _, c := range m.contacts {
			s += fmt.Sprintf("  %s %s\n", normalStyle.Render(c.Name), helpStyle.Render("("+c.Handle+")"))
		}
	}

	s += "\n" + helpStyle.Render("n: add contact • esc: back • q: quit")
	return s
}
