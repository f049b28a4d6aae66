package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/gdamore/tcell/v2"
)

// ErrUnknownBackend is returned by NewPresenter for an unrecognized name.
var ErrUnknownBackend = errors.New("unknown terminal backend")

// Event is an input notification from a Presenter.
type Event interface{ isEvent() }

// ResizeEvent reports a new terminal size in cells.
type ResizeEvent struct{ Cols, Rows int }

// QuitEvent reports that the user asked to leave.
type QuitEvent struct{}

func (ResizeEvent) isEvent() {}
func (QuitEvent) isEvent()   {}

// Presenter puts a Canvas on a terminal.
type Presenter interface {
	// Start takes over the terminal and returns its size in cells.
	Start() (cols, rows int, err error)
	// Present draws the canvas and flushes it.
	Present(c *Canvas) error
	// Events delivers input until the presenter is closed.
	Events() <-chan Event
	// Close restores the terminal.
	Close() error
}

// NewPresenter returns the presenter for backend: "uv" (ultraviolet) or
// "tcell".
func NewPresenter(backend string) (Presenter, error) {
	switch backend {
	case "", "uv", "ultraviolet":
		return &uvPresenter{events: make(chan Event, 16)}, nil
	case "tcell":
		return &tcellPresenter{events: make(chan Event, 16)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

type uvPresenter struct {
	term       *uv.Terminal
	cols, rows int
	events     chan Event
}

func (p *uvPresenter) Start() (int, int, error) {
	p.term = uv.DefaultTerminal()

	cols, rows, err := p.term.GetSize()
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	if err := p.term.Start(); err != nil {
		return 0, 0, fmt.Errorf("start terminal: %w", err)
	}
	p.term.EnterAltScreen()
	p.term.HideCursor()
	p.term.Resize(cols, rows)
	p.cols, p.rows = cols, rows

	go func() {
		defer close(p.events)
		for ev := range p.term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				p.events <- ResizeEvent{Cols: ev.Width, Rows: ev.Height}
			case uv.KeyPressEvent:
				if ev.MatchString("q", "escape", "ctrl+c") {
					p.events <- QuitEvent{}
				}
			}
		}
	}()
	return cols, rows, nil
}

func (p *uvPresenter) Present(c *Canvas) error {
	cols, rows := c.fb.Width, (c.fb.Height+1)/2
	if cols != p.cols || rows != p.rows {
		p.term.Erase()
		p.term.Resize(cols, rows)
		p.cols, p.rows = cols, rows
	}
	c.Draw(p.term, uv.Rect(0, 0, cols, rows))
	if err := p.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func (p *uvPresenter) Events() <-chan Event { return p.events }

func (p *uvPresenter) Close() error {
	if p.term == nil {
		return nil
	}
	p.term.ExitAltScreen()
	p.term.ShowCursor()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return p.term.Shutdown(ctx)
}

type tcellPresenter struct {
	screen tcell.Screen
	events chan Event
}

func (p *tcellPresenter) Start() (int, int, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return 0, 0, fmt.Errorf("screen init failed: %w", err)
	}
	if err := s.Init(); err != nil {
		return 0, 0, fmt.Errorf("screen start failed: %w", err)
	}
	s.HideCursor()
	p.screen = s

	go func() {
		defer close(p.events)
		for {
			ev := s.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
				cols, rows := ev.Size()
				p.events <- ResizeEvent{Cols: cols, Rows: rows}
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					p.events <- QuitEvent{}
				}
			}
		}
	}()

	cols, rows := s.Size()
	return cols, rows, nil
}

func (p *tcellPresenter) Present(c *Canvas) error {
	c.DrawTcell(p.screen)
	p.screen.Show()
	return nil
}

func (p *tcellPresenter) Events() <-chan Event { return p.events }

func (p *tcellPresenter) Close() error {
	if p.screen != nil {
		p.screen.Fini()
	}
	return nil
}
