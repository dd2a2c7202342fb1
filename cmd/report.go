package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/memsim/mem/cache"
	"github.com/sarchlab/memsim/mem/dram/signal"
)

func printReport(out io.Writer, ss *session) {
	p := ss.sim.Platform()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Simulated %d cycles\n\n", ss.sim.Cycle())

	fmt.Fprintln(w, "Core\tReads\tWrites\tDone\tAvg Latency\tMax Latency\tStalls")

	for _, c := range p.Cores {
		s := c.Stats()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%d\t%d\n",
			c.Name(), s.IssuedReads, s.IssuedWrites, s.CompletedReads,
			s.AverageReadLatency(), s.MaxReadLatency, s.StallCycles)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cache\tHits\tMisses\tMiss Rate\tWrite Backs\tEvictions\tMerges")

	caches := append([]*cache.Comp{}, p.L1s...)
	caches = append(caches, p.L2)

	for _, c := range caches {
		s := c.Stats()
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f%%\t%d\t%d\t%d\n",
			c.Name(), s.Hits(), s.Misses(), s.MissRate()*100,
			s.WriteBacks, s.Evictions, s.MSHRMerges)
	}

	mc := p.MemCtrl.Stats()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", p.MemCtrl.Name())
	fmt.Fprintf(w, "  Reads\t%d\n", mc.Reads)
	fmt.Fprintf(w, "  Writes\t%d\n", mc.Writes)
	fmt.Fprintf(w, "  Row Hits\t%d\n", mc.RowHits)
	fmt.Fprintf(w, "  Row Misses\t%d\n", mc.RowMisses)
	fmt.Fprintf(w, "  Row Conflicts\t%d\n", mc.RowConflicts)
	fmt.Fprintf(w, "  Starvation Promotions\t%d\n", mc.StarvationPromotions)
	fmt.Fprintf(w, "  Refreshes\t%d\n", mc.RefreshCommands)
	fmt.Fprintf(w, "  Idle Cycles\t%d\n", mc.IdleCycles)
	fmt.Fprintf(w, "  Max Queue Length\t%d\n", mc.MaxQueueLength)

	d := p.DRAM.Stats()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n", p.DRAM.Name())

	for k := signal.CommandKind(0); k < signal.NumCmdKind; k++ {
		fmt.Fprintf(w, "  %s\t%d\n", k, d.Commands[k])
	}

	if keys := ss.latency.Keys(); len(keys) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Memory Latency\tCount\tMin\tAvg\tMax")

		for _, k := range keys {
			s := ss.latency.Stats(k)
			fmt.Fprintf(w, "Core[%d] %s\t%d\t%d\t%.2f\t%d\n",
				k.CoreID, k.Kind, s.Count, s.Min, s.Average(), s.Max)
		}
	}

	w.Flush()
}
