// Package noc implements the routers that connect the global buffers to the
// PE grid. A multicast router only pops its source once every destination
// has room, and a gather router only pops its sources once every lane holds
// a value, so a word is never split across cycles.
package noc

import (
	"fmt"

	"github.com/sarchlab/systolic/hw"
	"github.com/sarchlab/systolic/stats"
)

type router struct {
	*hw.ModuleBase

	chnPerWord int
	counters   stats.Counters
}

func newRouter(name string, chnPerWord int) router {
	if chnPerWord <= 0 {
		panic(fmt.Sprintf("router %s needs a positive word width", name))
	}

	return router{
		ModuleBase: hw.NewModuleBase(name),
		chnPerWord: chnPerWord,
	}
}

// Counters returns the number of values moved.
func (r *router) Counters() stats.Counters {
	return r.counters
}

func allVacant(chans []*hw.Channel) bool {
	for _, c := range chans {
		if !c.Vacancy() {
			return false
		}
	}

	return true
}

func allValid(chans []*hw.Channel) bool {
	for _, c := range chans {
		if !c.Valid() {
			return false
		}
	}

	return true
}
