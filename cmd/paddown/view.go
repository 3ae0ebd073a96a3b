package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"
	"github.com/saylorsolutions/paddown/pkg/paddown"
)

const refreshInterval = 100 * time.Millisecond

// progressView shows the intermediate state of each block as it's recovered.
// Progress is collected under a lock and drawn on a timer, so the attack never waits on the screen.
type progressView struct {
	app  *tview.Application
	text *tview.TextView

	mu       sync.Mutex
	finished []string
	current  string
	queries  uint64
}

func newProgressView(title string) *progressView {
	text := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	text.SetBorder(true).SetTitle(" " + title + " (Ctrl-C to abort) ")
	return &progressView{
		app:  tview.NewApplication().SetRoot(text, true),
		text: text,
	}
}

func (v *progressView) observe(p paddown.Progress) {
	bs := len(p.Intermediate)
	unknown := strings.Repeat("..", bs-p.Recovered)
	known := hex.EncodeToString(p.Intermediate[bs-p.Recovered:])
	line := fmt.Sprintf("block %3d/%d  [grey]%s[green]%s[white]", p.Block+1, p.Blocks, unknown, known)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.queries = p.Queries
	if p.Done() {
		v.finished = append(v.finished, line)
		v.current = ""
		return
	}
	v.current = line
}

func (v *progressView) render() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var sb strings.Builder
	for _, line := range v.finished {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if len(v.current) > 0 {
		sb.WriteString(v.current)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "\n[yellow]%d oracle queries[white]", v.queries)
	v.text.SetText(sb.String())
}

// run executes fn while the view is shown. Closing the view cancels fn.
func (v *progressView) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		result <- fn(ctx)
		// Queued so that it also takes effect if fn finishes before Run starts.
		v.app.QueueUpdate(v.app.Stop)
	}()
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v.app.QueueUpdateDraw(v.render)
			}
		}
	}()

	if err := v.app.Run(); err != nil {
		cancel()
		<-result
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	cancel()
	return <-result
}
