package main

import (
	"context"
	"image/png"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/friedmud/kinesis/cmd/tallyviewer/uihelpers"
	"github.com/friedmud/kinesis/src/logging"
	"github.com/friedmud/kinesis/src/report"
)

// windowPresenter shows each chart in one reused window and blocks until the user
// dismisses it. Fields other than dismissed are only touched on the fyne goroutine.
type windowPresenter struct {
	window fyne.Window
	img    *canvas.Image
	status *widget.Label
	source string
	quit   context.CancelFunc

	current   *report.Figure
	showing   bool
	dismissed chan struct{}
}

func newWindowPresenter(a fyne.App, source string, chartW, chartH int, quit context.CancelFunc) *windowPresenter {
	w := a.NewWindow("Tallies")
	p := &windowPresenter{
		window:    w,
		img:       canvas.NewImageFromImage(nil),
		status:    widget.NewLabel("loading " + uihelpers.TruncatePath(source, 60)),
		source:    source,
		quit:      quit,
		dismissed: make(chan struct{}, 1),
	}
	p.img.FillMode = canvas.ImageFillContain
	p.img.SetMinSize(fyne.NewSize(float32(chartW)/2, float32(chartH)/2))
	w.SetContent(container.NewBorder(nil, p.status, nil, nil, p.img))
	w.Resize(fyne.NewSize(uihelpers.ComputeWindowSize(chartW, chartH)))

	w.SetCloseIntercept(p.requestClose)
	w.Canvas().SetOnTypedKey(p.typedKey)
	p.buildMenus()
	return p
}

// requestClose dismisses the chart on screen and keeps the window for the next one.
// Between charts it ends the run.
func (p *windowPresenter) requestClose() {
	if p.showing {
		p.next()
		return
	}
	p.quitRun()
}

func (p *windowPresenter) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyQ, fyne.KeyEscape, fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
		p.next()
	}
}

// quitRun cancels the pending chart and closes the window.
func (p *windowPresenter) quitRun() {
	p.showing = false
	p.quit()
	p.window.Close()
}

func (p *windowPresenter) buildMenus() {
	export := fyne.NewMenuItem("Export Chart…", p.exportChartPNG)
	next := fyne.NewMenuItem("Next Chart", p.next)
	quit := fyne.NewMenuItem("Quit", p.quitRun)
	quit.IsQuit = true
	p.window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", export, next, fyne.NewMenuItemSeparator(), quit)))

	canv := p.window.Canvas()
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) { p.exportChartPNG() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { p.next() })
	}
}

// Present draws fig into the window and waits for it to be dismissed.
func (p *windowPresenter) Present(ctx context.Context, fig report.Figure) error {
	fyne.Do(func() {
		p.current = &fig
		p.img.Image = fig.Image
		p.img.Refresh()
		p.window.SetTitle(uihelpers.WindowTitle(fig.Spec.Title, fig.Seq, fig.Total))
		p.status.SetText(uihelpers.StatusText(p.source, fig.Seq, fig.Total))
		p.showing = true
	})
	select {
	case <-p.dismissed:
		logging.Debugf("chart %q dismissed", fig.Spec.Title)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// next dismisses the chart on screen; it is a no-op between charts.
func (p *windowPresenter) next() {
	if !p.showing {
		return
	}
	p.showing = false
	select {
	case p.dismissed <- struct{}{}:
	default:
	}
}

func (p *windowPresenter) exportChartPNG() {
	if p.current == nil || p.current.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", p.window)
		return
	}
	img := p.current.Image
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		logging.Infof("exported %s", wc.URI().Path())
	}, p.window)
	fs.SetFileName(p.current.Spec.FileBase() + ".png")
	fs.Show()
}

// finish closes the window from the render goroutine once the run is over.
func (p *windowPresenter) finish() {
	fyne.Do(func() {
		p.showing = false
		p.window.Close()
	})
}
