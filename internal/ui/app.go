package ui

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
)

// View is a full-screen component driven by the event loop
type View interface {
	Draw(s tcell.Screen)
	// HandleKey reports whether the screen needs redrawing and whether the
	// view is finished
	HandleKey(ev *tcell.EventKey) (redraw, quit bool)
}

// Run shows v on the terminal until it quits or the process is interrupted
func Run(v View) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()
	go func() {
		if _, ok := <-sigCh; ok {
			s.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	return Loop(s, v)
}

// Loop draws v and dispatches events from an initialized screen until the
// view quits, an interrupt arrives or the screen is finalized
func Loop(s tcell.Screen, v View) error {
	s.SetStyle(BaseStyle())
	draw(s, v)

	for {
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.Sync()
			draw(s, v)
		case *tcell.EventKey:
			redraw, quit := v.HandleKey(ev)
			if quit {
				return nil
			}
			if redraw {
				draw(s, v)
			}
		case *tcell.EventInterrupt:
			return nil
		}
	}
}

func draw(s tcell.Screen, v View) {
	w, h := s.Size()
	style := BaseStyle()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
	v.Draw(s)
	s.Show()
}

func drawStatusBar(s tcell.Screen, left, right string) {
	w, h := s.Size()
	if h == 0 {
		return
	}
	style := tcell.StyleDefault.Background(ColorBgHighlight).Foreground(ColorStatus)
	for x := 0; x < w; x++ {
		s.SetContent(x, h-1, ' ', nil, style)
	}
	drawTextWithHighlight(s, 1, h-1, max(w-2, 0), style, left, nil)
	if right != "" {
		x := w - 1 - len([]rune(right))
		if x > len([]rune(left))+2 {
			drawText(s, x, h-1, style, right)
		}
	}
}
