package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/vassetti/patter/internal/feed"
	"github.com/vassetti/patter/internal/logging"
	"github.com/vassetti/patter/internal/models"
	"github.com/vassetti/patter/internal/session"
	"github.com/vassetti/patter/internal/store"
	"github.com/vassetti/patter/internal/viewsync"
)

type messagesLoadedMsg struct {
	messages []models.Message
	err      error
}

type newMessagesMsg struct {
	messages []models.Message
	err      error
}

type messageSentMsg struct {
	message models.Message
	err     error
}

type boardChangedMsg struct{}

// ChatModel is the live feed for one channel. It owns the backing
// entry list, the sync engine, and the unread counter; the engine keeps
// the viewport content aligned with the list and resolves visibility
// checks whenever the layout settles.
type ChatModel struct {
	channel models.Channel
	author  string
	st      *store.Store

	entries *feed.ObservableList
	counter *feed.Counter
	factory *viewsync.ViewFactory
	engine  *viewsync.Engine

	watcher *session.Watcher
	changes chan struct{}

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	loading   bool
	sending   bool
	composing bool
	err       error

	windowWidth  int
	windowHeight int
	lastID       int64
	log          zerolog.Logger
}

func NewChatModel(channel models.Channel, st *store.Store, author string) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	vp := viewport.New(80, 20)

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	factory := viewsync.NewViewFactory()
	registerTemplates(factory, author)

	log := logging.Component("chat")
	entries := feed.NewObservableList()
	counter := feed.NewCounter()
	counter.Observe(func(n int) {
		log.Debug().Str("channel", channel.Name).Int("unread", n).Msg("unread count changed")
	})
	engine := viewsync.NewEngine(factory)
	engine.Attach(entries, messageTemplate, counter)

	m := ChatModel{
		channel:      channel,
		author:       author,
		st:           st,
		entries:      entries,
		counter:      counter,
		factory:      factory,
		engine:       engine,
		viewport:     vp,
		textarea:     ta,
		spinner:      s,
		loading:      true,
		windowWidth:  80,
		windowHeight: 30,
		log:          log,
	}

	changes := make(chan struct{}, 1)
	watcher, err := session.New(st.Path(), func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("board watcher unavailable, live updates disabled")
	} else {
		m.watcher = watcher
		m.changes = changes
	}

	return m
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMessagesCmd(), m.waitForChangeCmd())
}

func (m ChatModel) loadMessagesCmd() tea.Cmd {
	return func() tea.Msg {
		messages, err := m.st.Messages(m.channel.ID)
		return messagesLoadedMsg{messages: messages, err: err}
	}
}

func (m ChatModel) fetchNewCmd() tea.Cmd {
	sinceID := m.lastID
	return func() tea.Msg {
		messages, err := m.st.MessagesSince(m.channel.ID, sinceID)
		return newMessagesMsg{messages: messages, err: err}
	}
}

func (m ChatModel) sendMessageCmd(body string) tea.Cmd {
	return func() tea.Msg {
		msg := models.Message{ChannelID: m.channel.ID, Author: m.author, Body: body}
		err := m.st.Append(&msg)
		return messageSentMsg{message: msg, err: err}
	}
}

func (m ChatModel) waitForChangeCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		<-changes
		return boardChangedMsg{}
	}
}

// geometry maps the bubbles viewport onto the engine's coordinates.
func (m *ChatModel) geometry() viewsync.Viewport {
	return viewsync.Viewport{Offset: m.viewport.YOffset, Height: m.viewport.Height}
}

// syncViewport pushes the engine's container into the viewport and
// then flushes the layout pass: only at this point is the final
// geometry of every materialized view known, so this is where pending
// visibility checks resolve.
func (m *ChatModel) syncViewport(gotoBottom bool) {
	m.viewport.SetContent(m.engine.Content())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
	m.engine.FlushLayout(m.geometry())
}

func (m *ChatModel) teardown() {
	m.engine.Detach()
	if m.watcher != nil {
		m.watcher.Close()
	}
}

func toEntries(messages []models.Message, author string) []*feed.Entry {
	out := make([]*feed.Entry, len(messages))
	for i, msg := range messages {
		msg.IsFromMe = msg.Author == author
		out[i] = feed.NewEntry(msg)
	}
	return out
}

func maxMessageID(messages []models.Message, current int64) int64 {
	for _, msg := range messages {
		if msg.ID > current {
			current = msg.ID
		}
	}
	return current
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		headerHeight := 4
		textareaHeight := 5
		helpHeight := 2
		availableHeight := msg.Height - headerHeight - helpHeight

		wasAtBottom := m.viewport.AtBottom()
		if m.composing {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = availableHeight - textareaHeight
			m.textarea.SetWidth(msg.Width - 4)
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = availableHeight
		}

		m.factory.SetWidth(m.viewport.Width)
		m.engine.Invalidate()
		m.syncViewport(wasAtBottom)
		return m, nil

	case messagesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.entries.Reset(toEntries(msg.messages, m.author))
		m.lastID = maxMessageID(msg.messages, 0)
		m.syncViewport(true)
		return m, nil

	case boardChangedMsg:
		return m, tea.Batch(m.fetchNewCmd(), m.waitForChangeCmd())

	case newMessagesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		wasAtBottom := m.viewport.AtBottom()
		appended := false
		for _, message := range msg.messages {
			// Rows this instance already appended come back from the
			// board fetch too; identity keeps them out.
			if message.ID <= m.lastID {
				continue
			}
			message.IsFromMe = message.Author == m.author
			m.entries.Append(feed.NewEntry(message))
			m.lastID = message.ID
			appended = true
		}
		if appended {
			// Stick to the bottom only if the user was already there;
			// otherwise the new rows land off screen and stay unread.
			m.syncViewport(wasAtBottom)
		}
		return m, nil

	case messageSentMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.textarea.Reset()
		m.composing = false
		if msg.message.ID > m.lastID {
			message := msg.message
			message.IsFromMe = true
			m.entries.Append(feed.NewEntry(message))
			m.lastID = message.ID
		}
		m.syncViewport(true)
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.teardown()
			return m, tea.Quit
		}

		if msg.String() == "esc" {
			if m.composing {
				m.composing = false
				m.textarea.Reset()
				m.textarea.Blur()
				m.err = nil
				return m, nil
			}
			m.teardown()
			channelsModel := NewChannelsModel(m.st, m.author)
			if m.windowWidth > 0 {
				updatedModel, cmd := channelsModel.Update(tea.WindowSizeMsg{Width: m.windowWidth, Height: m.windowHeight})
				channelsModel = updatedModel.(ChannelsModel)
				return channelsModel, tea.Batch(channelsModel.Init(), cmd)
			}
			return channelsModel, channelsModel.Init()
		}

		if m.composing {
			switch msg.String() {
			case "ctrl+s":
				body := strings.TrimSpace(m.textarea.Value())
				if body != "" {
					m.sending = true
					m.composing = false
					m.textarea.Blur()
					return m, tea.Batch(m.spinner.Tick, m.sendMessageCmd(body))
				}
				return m, nil
			default:
				var cmd tea.Cmd
				m.textarea, cmd = m.textarea.Update(msg)
				return m, cmd
			}
		}

		if m.loading || m.sending {
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.teardown()
			return m, tea.Quit

		case "n", "c":
			m.composing = true
			m.textarea.Focus()
			return m, textarea.Blink

		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadMessagesCmd())

		default:
			before := m.viewport.YOffset
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			if m.viewport.YOffset != before {
				m.engine.Scroll(m.geometry())
			}
			return m, cmd
		}
	}

	return m, nil
}

func (m ChatModel) View() string {
	if m.loading && m.entries.Len() == 0 {
		return fmt.Sprintf("\n  %s Loading messages...\n", m.spinner.View())
	}

	header := titleStyle.Render(fmt.Sprintf("# %s", m.channel.Name))
	unread := m.counter.Value()
	badge := helpStyle.Render(fmt.Sprintf("%d unread", unread))
	if unread > 0 {
		badge = unreadStyle.Render(fmt.Sprintf("%d unread", unread))
	}
	s := header + "  " + badge + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}

	if m.sending {
		s += fmt.Sprintf("  %s Sending message...\n", m.spinner.View())
	} else if m.entries.Len() == 0 && !m.loading {
		s += normalStyle.Render("  No messages in this channel yet.") + "\n"
	} else {
		s += m.viewport.View() + "\n"
	}

	if m.composing {
		s += "\n" + inputStyle.Render("New Message:") + "\n"
		s += m.textarea.View() + "\n"
		s += helpStyle.Render("ctrl+s: send • esc: cancel")
	} else {
		scrollPercent := int(m.viewport.ScrollPercent() * 100)
		s += "\n" + helpStyle.Render(fmt.Sprintf("↑↓/jk: scroll • n: new message • r: refresh • esc: back • q: quit • %d%%", scrollPercent))
	}

	return s
}
