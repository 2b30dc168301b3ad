package main

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/dando385/chainload/internal/observer"
)

// barObserver renders one progressbar.ProgressBar per phase name, the only
// concrete Observer implementation in this repo; the core pipeline only
// ever depends on the observer.Observer interface.
type barObserver struct {
	mu   sync.Mutex
	bars map[string]*progressbar.ProgressBar
}

func newBarObserver() *barObserver {
	return &barObserver{bars: make(map[string]*progressbar.ProgressBar)}
}

var _ observer.Observer = (*barObserver)(nil)

func (b *barObserver) barFor(phase string, total int) *progressbar.ProgressBar {
	b.mu.Lock()
	defer b.mu.Unlock()
	bar, ok := b.bars[phase]
	if !ok {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		b.bars[phase] = bar
	}
	return bar
}

func (b *barObserver) OnItemStarted(phase string, i, total int) {
	b.barFor(phase, total)
}

func (b *barObserver) OnItemCompleted(phase string, i, total int) {
	bar := b.barFor(phase, total)
	_ = bar.Set(i)
}
