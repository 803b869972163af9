package creation

import (
	"context"
	"strings"
	"time"
)

// reveal types out the reply word by word at a fixed interval. Only one
// reveal runs at a time because speak blocks for the whole turn; a
// reset cancels it through the cycle context.
func (o *Orchestrator) reveal(ctx context.Context, text string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	ticker := time.NewTicker(o.cfg.RevealInterval)
	defer ticker.Stop()

	for i := range words {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		o.mu.Lock()
		o.state.Revealed = strings.Join(words[:i+1], " ")
		o.commitLocked()
		o.mu.Unlock()
	}
}
