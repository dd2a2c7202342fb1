// Package platform assembles cores, caches, the interconnect, the memory
// controller and the DRAM device into a runnable system.
package platform

import (
	"github.com/sarchlab/memsim/core"
	"github.com/sarchlab/memsim/mem/cache"
	"github.com/sarchlab/memsim/mem/dram"
	"github.com/sarchlab/memsim/mem/memctrl"
	"github.com/sarchlab/memsim/noc/interconnect"
)

// Platform holds the components of a system. Every core has a private L1.
// All the L1s share the L2, which reaches the memory controller through the
// interconnect.
type Platform struct {
	Cores        []*core.Comp
	L1s          []*cache.Comp
	L2           *cache.Comp
	Interconnect *interconnect.Comp
	MemCtrl      *memctrl.Comp
	DRAM         *dram.Device
}
