package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"diskmanager/internal/logging"
	"diskmanager/internal/models"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
)

const (
	barWidth        = 20
	spinnerInterval = 120 * time.Millisecond
	requestTimeout  = 10 * time.Second
)

var (
	columns       = []string{"Device", "Mountpoint", "File System", "Used (GB)", "Total (GB)", "Used (%)", "Space"}
	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// Controller is what the dashboard key bindings act on
type Controller interface {
	Refresh(ctx context.Context) (models.VolumeUpdate, error)
	TriggerAccess(ctx context.Context) (bool, error)
}

// Dashboard renders the volume table and the access indicator in the
// terminal. ShowVolumes and ShowAccess may be called from any goroutine.
type Dashboard struct {
	app       *tview.Application
	header    *tview.TextView
	indicator *tview.TextView
	table     *tview.Table
	status    *tview.TextView

	controller Controller
	mode       models.Mode

	// only touched from the UI goroutine
	access models.AccessIndicator
	frame  int

	spinning atomic.Bool
	closed   atomic.Bool
	stopped  chan struct{}
	ready    chan struct{}
	logger   *logrus.Entry
}

func NewDashboard(mode models.Mode) *Dashboard {
	d := &Dashboard{
		app:       tview.NewApplication(),
		header:    tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		indicator: tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		table:     tview.NewTable().SetFixed(1, 0).SetSelectable(true, false),
		status:    tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		mode:      mode,
		access:    models.AccessIndicator{State: models.AccessIdle},
		stopped:   make(chan struct{}),
		ready:     make(chan struct{}),
		logger:    logging.NewLogger("ui"),
	}

	var once sync.Once
	d.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		once.Do(func() { close(d.ready) })
		return false
	})

	d.table.SetBorder(true).SetTitle(" Volumes ").SetTitleAlign(tview.AlignLeft)
	d.header.SetTextColor(tcell.ColorYellow)
	d.header.SetText(fmt.Sprintf("Disk Manager  mode: %s  waiting for first refresh", d.mode))
	d.status.SetText(helpText(d.mode))
	renderVolumes(d.table, nil)

	d.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyDelete {
			row, _ := d.table.GetSelection()
			// row 0 is the header
			if row > 0 && row < d.table.GetRowCount() {
				d.table.RemoveRow(row)
			}
			return nil
		}
		return event
	})

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch event.Rune() {
		case 'q':
			d.Stop()
			return nil
		case 'r':
			go d.refresh()
			return nil
		case 's':
			go d.simulate()
			return nil
		}
		return event
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.header, 1, 0, false).
		AddItem(d.indicator, 1, 0, false).
		AddItem(d.table, 0, 1, true).
		AddItem(d.status, 1, 0, false)
	d.app.SetRoot(layout, true).EnableMouse(false)

	return d
}

// Run shows the dashboard until the user quits or ctx is done. Key bindings
// act on controller.
func (d *Dashboard) Run(ctx context.Context, controller Controller) error {
	d.controller = controller
	finished := make(chan struct{})
	defer close(finished)

	// tview ignores Stop until the screen exists
	go func() {
		select {
		case <-d.ready:
		case <-finished:
			return
		}
		select {
		case <-d.stopped:
			d.app.Stop()
		case <-finished:
		}
	}()

	go func() {
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.Stop()
				return
			case <-d.stopped:
				return
			case <-ticker.C:
				if d.spinning.Load() {
					d.queue(d.advanceSpinner)
				}
			}
		}
	}()

	err := d.app.Run()
	d.Stop()
	return err
}

// Stop closes the dashboard. Later updates are dropped.
func (d *Dashboard) Stop() {
	if d.closed.CompareAndSwap(false, true) == false {
		return
	}
	close(d.stopped)
	d.app.Stop()
}

// Done is closed once the dashboard stopped
func (d *Dashboard) Done() <-chan struct{} {
	return d.stopped
}

func (d *Dashboard) ShowVolumes(update models.VolumeUpdate) {
	d.queue(func() {
		renderVolumes(d.table, update.Rows)
		d.header.SetText(fmt.Sprintf("Disk Manager  mode: %s  %d volumes  refreshed %s",
			d.mode, len(update.Rows), update.Timestamp.Format("15:04:05")))
	})
}

func (d *Dashboard) ShowAccess(indicator models.AccessIndicator) {
	d.spinning.Store(indicator.State == models.AccessRunning)
	d.queue(func() {
		d.access = indicator
		d.indicator.SetText(accessText(indicator, d.frame))
	})
}

func (d *Dashboard) queue(fn func()) {
	if d.closed.Load() {
		return
	}
	d.app.QueueUpdateDraw(fn)
}

func (d *Dashboard) advanceSpinner() {
	d.frame++
	d.indicator.SetText(accessText(d.access, d.frame))
}

func (d *Dashboard) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if _, err := d.controller.Refresh(ctx); err != nil {
		d.logger.WithError(err).Warn("manual refresh failed")
		d.showStatus(fmt.Sprintf("[red]refresh failed: %s[-]", tview.Escape(err.Error())))
		return
	}
	d.showStatus(helpText(d.mode))
}

func (d *Dashboard) simulate() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	started, err := d.controller.TriggerAccess(ctx)
	switch {
	case err != nil:
		d.showStatus(fmt.Sprintf("[red]%s[-]", tview.Escape(err.Error())))
	case !started:
		d.showStatus("[yellow]simulated access already running[-]")
	default:
		d.showStatus(helpText(d.mode))
	}
}

func (d *Dashboard) showStatus(text string) {
	d.queue(func() {
		d.status.SetText(text)
	})
}

func helpText(mode models.Mode) string {
	keys := "[::b]r[::-] refresh  [::b]Del[::-] hide row  [::b]q[::-] quit"
	if mode == models.ModeSimulated {
		keys = "[::b]s[::-] simulate access  " + keys
	}
	return keys
}

// renderVolumes replaces the table content with a header and one line per
// row
func renderVolumes(table *tview.Table, rows []models.DisplayRow) {
	table.Clear()
	for col, name := range columns {
		table.SetCell(0, col, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	for i, r := range rows {
		line := i + 1
		color := usageColor(r.Fill)
		table.SetCell(line, 0, tview.NewTableCell(tview.Escape(r.Device)))
		table.SetCell(line, 1, tview.NewTableCell(tview.Escape(r.Mountpoint)))
		table.SetCell(line, 2, tview.NewTableCell(tview.Escape(r.Filesystem)))
		table.SetCell(line, 3, tview.NewTableCell(r.Used).SetAlign(tview.AlignRight))
		table.SetCell(line, 4, tview.NewTableCell(r.Total).SetAlign(tview.AlignRight))
		table.SetCell(line, 5, tview.NewTableCell(r.Percent).SetAlign(tview.AlignRight).SetTextColor(color))
		table.SetCell(line, 6, tview.NewTableCell(progressBar(r.Fill, barWidth)).SetTextColor(color))
	}
}

func usageColor(fill int) tcell.Color {
	switch {
	case fill >= 90:
		return tcell.ColorRed
	case fill >= 75:
		return tcell.ColorYellow
	default:
		return tcell.ColorGreen
	}
}

// progressBar draws fill percent over width cells
func progressBar(fill, width int) string {
	if fill < 0 {
		fill = 0
	}
	if fill > 100 {
		fill = 100
	}
	filled := fill * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func spinnerFrame(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}

// accessText renders the indicator line. Change mode shows a static label
// while accessed, simulated mode spins while the access runs.
func accessText(indicator models.AccessIndicator, frame int) string {
	switch indicator.State {
	case models.AccessAccessed:
		text := "[green::b]Disk Access[-::-]"
		if len(indicator.Devices) > 0 {
			text += "  " + tview.Escape(strings.Join(indicator.Devices, ", "))
		}
		return text
	case models.AccessRunning:
		return fmt.Sprintf("[green]%s[-] Disk Access", spinnerFrame(frame))
	default:
		return ""
	}
}
