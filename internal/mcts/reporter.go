package mcts

import (
	"log"
	"os"
	"strings"
	"time"
)

// Reporter prints periodic analysis lines in the original_source GTP
// engine's format (UCTSearch::dump_analysis / dump_stats), gated by
// cfg_quiet.
type Reporter struct {
	logger *log.Logger
	quiet  bool
}

func newReporter(quiet bool) *Reporter {
	return &Reporter{logger: log.New(os.Stderr, "", 0), quiet: quiet}
}

// report prints one analysis snapshot: the root's own win estimate, then one
// line per root child ordered by visits, then a final throughput summary.
func (r *Reporter) report(root *UCTNode, playouts, nodes int64, elapsed time.Duration) {
	if r.quiet {
		return
	}
	children := root.sortedChildren()
	rootWin := root.Q()
	r.logger.Printf("NN eval=%.4f", rootWin)

	r.logger.Printf("Playouts: %d, Win: %.2f%%, PV: %s", playouts, rootWin*100, r.linePV(root))

	total := root.Visits()
	if total == 0 {
		total = 1
	}
	for _, c := range children {
		winPct := (1 - c.Q()) * 100
		visitPct := float64(c.Visits()) / float64(total) * 100
		r.logger.Printf("%s -> %7d (V: %5.2f%%) (N: %5.2f%%) PV: %s",
			c.Move().String(), c.Visits(), winPct, visitPct, r.linePV(c))
	}

	nps := 0.0
	if elapsed > 0 {
		nps = float64(playouts) / elapsed.Seconds()
	}
	r.logger.Printf("%d visits, %d nodes, %d playouts, %.0f n/s", total, nodes, playouts, nps)
}

// linePV walks best children below from (from's own move, if any, is left
// to the caller), capped at a modest depth since this only feeds a
// human-readable status line.
func (r *Reporter) linePV(from *UCTNode) string {
	var b strings.Builder
	node := from
	for i := 0; i < 12; i++ {
		cs := node.sortedChildren()
		if len(cs) == 0 {
			break
		}
		node = cs[0]
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(node.Move().String())
	}
	return b.String()
}
