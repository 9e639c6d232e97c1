// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/emer/emergent/v2/timer"
	"github.com/goki/ki/ints"
	"github.com/klauspost/cpuid/v2"
)

// ThrFunChan is a channel that runs per-thread functions, given the thread index
type ThrFunChan chan func(th int)

// ThrRange is the half-open [St, Ed) range of neuron indexes owned by a thread
// for one of the populations
type ThrRange struct {
	St int
	Ed int
}

// DefaultNThreads returns the number of physical cores reported by the CPU,
// falling back on GOMAXPROCS when the core count is unknown.
func DefaultNThreads() int {
	nc := cpuid.CPU.PhysicalCores
	if nc <= 0 {
		nc = runtime.GOMAXPROCS(0)
	}
	return ints.MaxInt(nc, 1)
}

// CPUInfo returns a one-line summary of the host CPU, for reports
func CPUInfo() string {
	return fmt.Sprintf("%s\tcores: %d\tlogical: %d\tAVX2: %v\tAVX512F: %v", cpuid.CPU.BrandName,
		cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F))
}

// SplitRange divides n items into nthr contiguous ranges, as evenly as possible.
// Ranges for threads beyond n are empty.
func SplitRange(n, nthr int) []ThrRange {
	rs := make([]ThrRange, nthr)
	per := n / nthr
	extra := n % nthr
	st := 0
	for th := 0; th < nthr; th++ {
		sz := per
		if th < extra {
			sz++
		}
		rs[th] = ThrRange{St: st, Ed: st + sz}
		st += sz
	}
	return rs
}

// SynThreads returns the number of threads for a grid of nIn x nOut synapses
// as limited by NThreads and MinSynsPerThread, before the limit of one
// thread per receiving neuron is applied.
func (up *Updater) SynThreads(nIn, nOut int) int {
	nthr := up.NThreads
	if nthr <= 0 {
		nthr = DefaultNThreads()
	}
	syns := nIn * nOut
	if syns < up.MinSynsPerThread*2 {
		return 1
	}
	return ints.MinInt(nthr, syns/ints.MaxInt(up.MinSynsPerThread, 1))
}

// BuildThreads computes the number of threads to use for a grid of nIn x nOut
// synapses, and the per-thread neuron ranges for each population.
// Receiving neurons (weight rows) are split across threads so that every
// synapse has exactly one writing thread.
func (up *Updater) BuildThreads(nIn, nOut int) {
	nthr := ints.MaxInt(ints.MinInt(up.SynThreads(nIn, nOut), nOut), 1)
	up.ActThreads = nthr
	up.ThrPre = SplitRange(nIn, nthr)
	up.ThrPost = SplitRange(nOut, nthr)
	if len(up.ThrTimes) != nthr {
		up.ThrTimes = make([]timer.Time, nthr)
	}
	if up.FunTimes == nil {
		up.FunTimes = make(map[string]*timer.Time)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Threading infrastructure

// StartThreads starts up the computation threads, which monitor the channels for work.
// Only starts threads if ActThreads > 1.
func (up *Updater) StartThreads() {
	if up.ActThreads <= 1 {
		return
	}
	up.ThrChans = make([]ThrFunChan, up.ActThreads)
	for th := 0; th < up.ActThreads; th++ {
		up.ThrChans[th] = make(ThrFunChan)
		go up.ThrWorker(th) // start the worker thread for this channel
	}
}

// StopThreads stops the computation threads
func (up *Updater) StopThreads() {
	for th := range up.ThrChans {
		close(up.ThrChans[th])
	}
	up.ThrChans = nil
}

// ThrWorker is the worker function run by the worker threads
func (up *Updater) ThrWorker(th int) {
	if up.LockThreads {
		runtime.LockOSThread()
	}
	for fun := range up.ThrChans[th] {
		if up.Timers {
			up.ThrTimes[th].Start()
			fun(th)
			up.ThrTimes[th].Stop()
		} else {
			fun(th)
		}
		up.WaitGp.Done()
	}
	if up.LockThreads {
		runtime.UnlockOSThread()
	}
}

// ThrFun calls function for each thread, using threaded (go routine worker) computation
// if threads are running, and otherwise calls it for thread 0 in the current goroutine.
// Returns only when every thread has finished: this is the barrier between phases.
func (up *Updater) ThrFun(fun func(th int), funame string) {
	up.FunTimerStart(funame)
	if len(up.ThrChans) == 0 {
		fun(0)
	} else {
		for th := range up.ThrChans {
			up.WaitGp.Add(1)
			up.ThrChans[th] <- fun
		}
		up.WaitGp.Wait()
	}
	up.FunTimerStop(funame)
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (up *Updater) FunTimerStart(fun string) {
	if !up.Timers {
		return
	}
	ft, ok := up.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		up.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (up *Updater) FunTimerStop(fun string) {
	if !up.Timers {
		return
	}
	ft := up.FunTimes[fun]
	ft.Stop()
}

// TimerReport returns the amount of time spent in each phase, and in each thread
func (up *Updater) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: NThreads: %v\n", up.ActThreads)
	fmt.Fprintf(&b, "\t%13s \t%7s\t%7s\n", "Function Name", "Secs", "Pct")
	fnms := make([]string, 0, len(up.FunTimes))
	for k := range up.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = up.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		pct := 0.0
		if tot > 0 {
			pct = 100 * (pcts[i] / tot)
		}
		fmt.Fprintf(&b, "\t%13s \t%7.3f\t%7.1f\n", fn, pcts[i], pct)
	}
	fmt.Fprintf(&b, "\t%13s \t%7.3f\n", "Total", tot)
	if len(up.ThrTimes) > 1 {
		fmt.Fprintf(&b, "\n\tThr\tSecs\tPct\n")
		pcts = make([]float64, len(up.ThrTimes))
		tot = 0.0
		for th := range up.ThrTimes {
			pcts[th] = up.ThrTimes[th].TotalSecs()
			tot += pcts[th]
		}
		for th := range up.ThrTimes {
			pct := 0.0
			if tot > 0 {
				pct = 100 * (pcts[th] / tot)
			}
			fmt.Fprintf(&b, "\t%v \t%7.3f\t%7.1f\n", th, pcts[th], pct)
		}
	}
	return b.String()
}

// ResetTimers resets all function and thread timers
func (up *Updater) ResetTimers() {
	for _, ft := range up.FunTimes {
		ft.Reset()
	}
	for th := range up.ThrTimes {
		up.ThrTimes[th].Reset()
	}
}
