package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/vassetti/patter/internal/contacts"
	"github.com/vassetti/patter/internal/feed"
	"github.com/vassetti/patter/internal/viewsync"
)

// messageTemplate renders one chat bubble: a sender/timestamp header,
// the wrapped body, and a blank separator row. viewsync.TemplateNone
// stays reserved as the empty sentinel.
const messageTemplate viewsync.TemplateID = 1

func registerTemplates(f *viewsync.ViewFactory, selfAuthor string) {
	f.Register(messageTemplate, func(e *feed.Entry, width int) []string {
		return renderMessage(e, width, selfAuthor)
	})
}

func renderMessage(e *feed.Entry, width int, selfAuthor string) []string {
	msg := e.Message
	if msg.Author == "" && msg.Body == "" {
		// Nothing to bind the template to.
		return nil
	}
	if width <= 0 {
		width = 80
	}

	fromMe := msg.Author == selfAuthor
	sender := "You"
	if !fromMe {
		sender = contacts.DisplayName(msg.Author)
		if sender == "" {
			sender = "Unknown"
		}
	}

	header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", sender, msg.SentAt.Format("3:04 PM")))
	wrapWidth := width - 10
	if wrapWidth < 10 {
		wrapWidth = width
	}
	body := wordwrap.String(msg.Body, wrapWidth)

	var block string
	if fromMe {
		align := lipgloss.NewStyle().Align(lipgloss.Right).Width(width)
		block = align.Render(header) + "\n" + align.Render(messageFromMeStyle.Render(body))
	} else {
		block = header + "\n" + messageFromOtherStyle.Render(body)
	}

	lines := strings.Split(block, "\n")
	return append(lines, "")
}
