package logtail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/nxadm/tail"

	"github.com/vk/xposedbuild/internal/ctxlog"
)

// DefaultWidth is the number of characters of each log line that are shown.
const DefaultWidth = 100

// Monitor follows a log file and redraws its newest line on a single
// terminal line.
type Monitor struct {
	Path  string
	Out   io.Writer
	Width int

	longest int
	shown   bool
}

// New creates a Monitor for the log at path writing to out.
func New(path string, out io.Writer) *Monitor {
	return &Monitor{Path: path, Out: out, Width: DefaultWidth}
}

// Run follows the log until ctx is cancelled, then blanks the status line.
// The file does not have to exist yet; it is polled until it appears.
func (m *Monitor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Log monitor started.", "path", m.Path)

	t, err := tail.TailFile(m.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", m.Path, err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			// Keep the follower from blocking on an unread line while it shuts down.
			go func() {
				for range t.Lines {
				}
			}()
			if err := t.Stop(); err != nil {
				logger.Debug("Log follower stopped with error.", "error", err)
			}
			m.finish()
			logger.Debug("Log monitor stopped.", "path", m.Path)
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				m.finish()
				return t.Err()
			}
			if line.Err != nil {
				logger.Debug("Skipping unreadable log line.", "error", line.Err)
				continue
			}
			io.WriteString(m.Out, m.render(line.Text))
		}
	}
}

// render returns the redraw sequence for one log line: a carriage return,
// the truncated line and enough padding to overwrite a longer predecessor.
func (m *Monitor) render(text string) string {
	width := m.Width
	if width <= 0 {
		width = DefaultWidth
	}

	text = strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	if runes := []rune(text); len(runes) > width {
		text = string(runes[:width])
	}
	text = strings.TrimRightFunc(text, unicode.IsSpace)

	n := len([]rune(text))
	pad := ""
	if n < m.longest {
		pad = strings.Repeat(" ", m.longest-n)
	} else {
		m.longest = n
	}
	m.shown = true
	return "\r" + text + pad
}

// finish blanks the status line if anything was ever shown.
func (m *Monitor) finish() {
	if !m.shown {
		return
	}
	io.WriteString(m.Out, "\r"+strings.Repeat(" ", m.longest)+"\n")
	m.shown = false
}
