package memctrl

import (
	"log"

	"github.com/sarchlab/memsim/mem"
	"github.com/sarchlab/memsim/mem/dram/signal"
	"github.com/sarchlab/memsim/sim"
)

type scheduleMW struct {
	*Comp
}

type candidate struct {
	entry   *entry
	cmd     signal.Command
	starved bool
	rowHit  bool
}

// Tick issues at most one command to the device. Refreshes that are due come
// first and keep their banks away from any other command.
func (m *scheduleMW) Tick(ctx *sim.Context) bool {
	refreshing, issued := m.refresh(ctx)
	if issued {
		return true
	}

	best := m.pickCandidate(ctx, refreshing)
	if best == nil {
		m.stats.IdleCycles++
		return false
	}

	m.issue(ctx, best)

	return true
}

func (m *scheduleMW) refresh(ctx *sim.Context) (refreshing []bool, issued bool) {
	now := ctx.Now()
	refreshing = make([]bool, m.device.NumBanks())

	for bank := range refreshing {
		if !m.device.RefreshDue(uint64(bank), now) {
			continue
		}

		refreshing[bank] = true

		if issued {
			continue
		}

		cmd := m.device.RefreshCommand(uint64(bank))
		if m.device.CanIssue(cmd, now) {
			m.device.Issue(cmd, now)
			m.stats.RefreshCommands++
			issued = true
		}
	}

	return refreshing, issued
}

func (m *scheduleMW) pickCandidate(
	ctx *sim.Context,
	refreshing []bool,
) *candidate {
	now := ctx.Now()
	preferred := m.preferredKind()
	starvedBanks := m.starvedBanks(now)

	var best *candidate

	for _, e := range m.queue {
		if refreshing[e.loc.Bank] {
			continue
		}

		starved := m.isStarved(e, now)
		if starvedBanks[e.loc.Bank] && !starved {
			continue
		}

		if e.isRead() && m.hasOlderWrite(e) {
			continue
		}

		cmd := m.device.NextCommand(e.loc, e.access)
		if !m.device.CanIssue(cmd, now) {
			continue
		}

		cmd.ReqID = e.req.ID
		c := &candidate{
			entry:   e,
			cmd:     cmd,
			starved: starved,
			rowHit:  cmd.Kind.IsAccess(),
		}

		if best == nil || m.ranksHigher(c, best, preferred) {
			best = c
		}
	}

	return best
}

func (m *scheduleMW) isStarved(e *entry, now uint64) bool {
	return now-e.arrival >= m.starvationBound
}

// starvedBanks marks the banks that hold a starved request. Such a bank only
// serves starved requests.
func (m *scheduleMW) starvedBanks(now uint64) map[uint64]bool {
	banks := make(map[uint64]bool)

	for _, e := range m.queue {
		if m.isStarved(e, now) {
			banks[e.loc.Bank] = true
		}
	}

	return banks
}

// ranksHigher orders candidates. Starved requests go first, oldest first.
// Others are ordered by row-buffer hit, then the kind of the current burst,
// then arrival.
func (m *scheduleMW) ranksHigher(a, b *candidate, preferred mem.AccessKind) bool {
	if a.starved != b.starved {
		return a.starved
	}

	if a.starved {
		return a.entry.seq < b.entry.seq
	}

	if a.rowHit != b.rowHit {
		return a.rowHit
	}

	aPreferred := a.entry.req.Kind == preferred
	bPreferred := b.entry.req.Kind == preferred
	if aPreferred != bPreferred {
		return aPreferred
	}

	return a.entry.seq < b.entry.seq
}

// preferredKind keeps dispatching the kind of the current burst until the
// burst reaches its maximum length.
func (m *scheduleMW) preferredKind() mem.AccessKind {
	if m.burstCount < m.maxBurst {
		return m.burstKind
	}

	if m.burstKind == mem.Read {
		return mem.Write
	}

	return mem.Read
}

func (m *scheduleMW) issue(ctx *sim.Context, c *candidate) {
	now := ctx.Now()
	e := c.entry

	if c.starved {
		m.stats.StarvationPromotions++
	}

	switch c.cmd.Kind {
	case signal.CmdKindActivate:
		e.activated = true
		m.device.Issue(c.cmd, now)

		return
	case signal.CmdKindPrecharge:
		e.conflicted = true
		m.device.Issue(c.cmd, now)

		return
	}

	if e.isRead() && m.hasOlderWrite(e) {
		log.Panicf("%s: read %s to 0x%x dispatched before an older write",
			m.Name(), e.req.ID, e.req.Address)
	}

	e.completion = m.device.Issue(c.cmd, now)
	m.countRowOutcome(e)
	m.updateBurst(e.req.Kind)
	m.moveToInflight(e)

	m.hook(ctx, HookPosReqDispatch, e.req, c.cmd)
}

func (m *scheduleMW) countRowOutcome(e *entry) {
	switch {
	case e.conflicted:
		m.stats.RowConflicts++
	case e.activated:
		m.stats.RowMisses++
	default:
		m.stats.RowHits++
	}
}

func (m *scheduleMW) updateBurst(kind mem.AccessKind) {
	if kind == m.burstKind {
		m.burstCount++
		return
	}

	m.burstKind = kind
	m.burstCount = 1
}

func (m *scheduleMW) moveToInflight(e *entry) {
	for i, queued := range m.queue {
		if queued == e {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}

	m.inflight = append(m.inflight, e)
}
