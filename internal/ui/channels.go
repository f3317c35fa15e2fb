package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vassetti/patter/internal/models"
	"github.com/vassetti/patter/internal/store"
)

type channelItem struct {
	channel models.Channel
}

type channelsFetchedMsg struct {
	channels []models.Channel
	err      error
}

type channelCreatedMsg struct {
	channel models.Channel
	err     error
}

func (i channelItem) Title() string {
	return "# " + i.channel.Name
}

func (i channelItem) Description() string {
	if i.channel.LastBody == "" {
		if i.channel.Topic != "" {
			return i.channel.Topic
		}
		return "no messages yet"
	}
	preview := i.channel.LastBody
	if len(preview) > 50 {
		preview = preview[:47] + "..."
	}
	return fmt.Sprintf("%s • %s: %s", formatTimeAgo(i.channel.LastTime), i.channel.LastAuthor, preview)
}

func (i channelItem) FilterValue() string {
	return i.channel.Name
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	now := time.Now()
	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	}
	if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	}
	if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	}
	if duration < 48*time.Hour {
		return "yesterday"
	}
	if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	}
	return t.Format("Jan 2")
}

type ChannelsModel struct {
	st     *store.Store
	author string

	channels     []models.Channel
	list         list.Model
	nameInput    textinput.Model
	creating     bool
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewChannelsModel(st *store.Store, author string) ChannelsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Channels"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "channel name"
	input.CharLimit = 64

	return ChannelsModel{
		st:           st,
		author:       author,
		list:         l,
		nameInput:    input,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ChannelsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchChannelsCmd())
}

func (m ChannelsModel) fetchChannelsCmd() tea.Cmd {
	return func() tea.Msg {
		channels, err := m.st.Channels()
		return channelsFetchedMsg{channels: channels, err: err}
	}
}

func (m ChannelsModel) createChannelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		id, err := m.st.EnsureChannel(name, "")
		return channelCreatedMsg{channel: models.Channel{ID: id, Name: name}, err: err}
	}
}

func (m ChannelsModel) openChat(channel models.Channel) (tea.Model, tea.Cmd) {
	chatModel := NewChatModel(channel, m.st, m.author)
	if m.windowWidth > 0 {
		updatedModel, cmd := chatModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
		chatModel = updatedModel.(ChatModel)
		return chatModel, tea.Batch(chatModel.Init(), cmd)
	}
	return chatModel, chatModel.Init()
}

func (m ChannelsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case channelsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.channels = msg.channels
		items := make([]list.Item, len(m.channels))
		for i, channel := range m.channels {
			items[i] = channelItem{channel: channel}
		}
		m.list.SetItems(items)
		m.list.Title = fmt.Sprintf("Channels - %d", len(m.channels))
		return m, nil

	case channelCreatedMsg:
		m.creating = false
		m.nameInput.Reset()
		m.nameInput.Blur()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m.openChat(msg.channel)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.creating {
			switch msg.String() {
			case "esc":
				m.creating = false
				m.nameInput.Reset()
				m.nameInput.Blur()
				return m, nil
			case "enter":
				name := strings.TrimSpace(m.nameInput.Value())
				if name != "" {
					return m, m.createChannelCmd(name)
				}
				return m, nil
			default:
				var cmd tea.Cmd
				m.nameInput, cmd = m.nameInput.Update(msg)
				return m, cmd
			}
		}

		if msg.String() == "q" {
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			menuModel := NewMenuModel(m.st, m.author)
			return menuModel, menuModel.Init()
		}

		if msg.String() == "n" && !m.loading {
			m.creating = true
			m.nameInput.Focus()
			return m, textinput.Blink
		}

		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchChannelsCmd())
		}

		if msg.String() == "enter" && len(m.channels) > 0 && !m.loading {
			if item, ok := m.list.SelectedItem().(channelItem); ok {
				return m.openChat(item.channel)
			}
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ChannelsModel) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading channels...\n", m.spinner.View())
	}

	if m.creating {
		s := titleStyle.Render("New Channel") + "\n\n"
		s += m.nameInput.View() + "\n\n"
		s += helpStyle.Render("enter: create • esc: cancel")
		return s
	}

	if m.err != nil {
		s := titleStyle.Render("Channels") + "\n\n"
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("q: quit")
		return s
	}

	if len(m.channels) == 0 {
		s := titleStyle.Render("Channels") + "\n\n"
		s += normalStyle.Render("  No channels yet.") + "\n"
		s += "\n" + helpStyle.Render("n: new channel • r: refresh • q: quit")
		return s
	}

	s := m.list.View() + "\n"
	s += helpStyle.Render("↑↓/jk: navigate • enter: open • n: new channel • /: search • r: refresh • esc: back • q: quit")

	return s
}
