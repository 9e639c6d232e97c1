// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"fmt"
	"strings"
	"sync"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/v2/timer"
)

// note: updater.go contains the algorithm methods; threads.go has the threading infrastructure.

// stdp.Updater applies the STDP rule to a fully-connected weight matrix over a
// sequence of time steps.  Weights are a row-major []float32 of nOut x nIn
// (row = receiving / output neuron), and spike trains are row-major
// nT x nIn and nT x nOut.  Each time step runs in two phases separated by a
// barrier: the traces are decayed and the step's spikes added, then every
// synapse gets its potentiation followed by its depression.
//
// An Updater can be reused across calls, but not called concurrently.
type Updater struct {
	Params           Params   `view:"inline" desc:"STDP rule parameters"`
	Bounds           WtBounds `view:"inline" desc:"optional clipping of weights into a fixed range -- off by default"`
	NThreads         int      `desc:"number of parallel threads (go routines) to use -- 0 = number of physical cores -- actual number is limited by MinSynsPerThread and the number of receiving neurons"`
	LockThreads      bool     `desc:"if set, runtime.LockOSThread() is called on the compute threads, which can be faster on large layers on some architectures -- experimentation is recommended"`
	MinSynsPerThread int      `def:"4096" min:"1" desc:"minimum number of synapses per thread -- smaller grids run in the calling go routine, as thread dispatch costs more than the work"`
	Timers           bool     `desc:"record time spent in each phase, see TimerReport"`

	Traces     Traces                 `view:"-" desc:"eligibility traces for the current call"`
	ActThreads int                    `inactive:"+" desc:"number of threads used in the last call"`
	ThrPre     []ThrRange             `view:"-" desc:"sending neuron range per thread, for trace updates"`
	ThrPost    []ThrRange             `view:"-" desc:"receiving neuron range per thread -- each thread owns these weight rows"`
	ThrChans   []ThrFunChan           `view:"-" desc:"function channels, per thread"`
	ThrTimes   []timer.Time           `view:"-" desc:"timers for each thread, so you can see how evenly the workload is being distributed"`
	FunTimes   map[string]*timer.Time `view:"-" desc:"timers for each phase of processing"`
	WaitGp     sync.WaitGroup         `view:"-" desc:"wait group for synchronizing threaded calls -- the per-phase barrier"`
}

// NewUpdater returns a new Updater with default parameters
func NewUpdater() *Updater {
	up := &Updater{}
	up.Defaults()
	return up
}

func (up *Updater) Defaults() {
	up.Params.Defaults()
	up.Bounds.Defaults()
	up.NThreads = 0
	up.MinSynsPerThread = 4096
	up.UpdateParams()
}

// UpdateParams updates all params given any changes that might have been made to individual values
func (up *Updater) UpdateParams() {
	up.Params.Update()
	up.Bounds.Update()
}

// Validate checks the parameters and the buffer lengths against the declared
// sizes, returning an ErrInvalidParam or ErrDimMismatch error.
// Parameters are checked first.
func (up *Updater) Validate(nWts, nIn, nOut, nT, nInSpk, nOutSpk int) error {
	if err := up.Params.Validate(); err != nil {
		return err
	}
	if err := up.Bounds.Validate(); err != nil {
		return err
	}
	if nIn < 0 || nOut < 0 || nT < 0 {
		return fmt.Errorf("stdp.Updater: negative size: nIn: %d nOut: %d nT: %d: %w", nIn, nOut, nT, ErrDimMismatch)
	}
	if !sizeMatch(nWts, nOut, nIn) {
		return fmt.Errorf("stdp.Updater: weights len: %d != nOut * nIn: %d * %d: %w", nWts, nOut, nIn, ErrDimMismatch)
	}
	if !sizeMatch(nInSpk, nT, nIn) {
		return fmt.Errorf("stdp.Updater: input spikes len: %d != nT * nIn: %d * %d: %w", nInSpk, nT, nIn, ErrDimMismatch)
	}
	if !sizeMatch(nOutSpk, nT, nOut) {
		return fmt.Errorf("stdp.Updater: output spikes len: %d != nT * nOut: %d * %d: %w", nOutSpk, nT, nOut, ErrDimMismatch)
	}
	return nil
}

// sizeMatch returns true if n == a * b, for non-negative sizes,
// without computing the product so it cannot overflow
func sizeMatch(n, a, b int) bool {
	if a == 0 || b == 0 {
		return n == 0
	}
	return n%a == 0 && n/a == b
}

// Update applies nT time steps of STDP to wts in place.
// Returns an error wrapping ErrInvalidParam or ErrDimMismatch, without changing
// any weight, if the parameters or buffer lengths are not valid.
// nIn, nOut or nT = 0 is a valid no-op.
func (up *Updater) Update(wts []float32, nIn, nOut, nT int, inSpk, outSpk []float32) error {
	if err := up.Validate(len(wts), nIn, nOut, nT, len(inSpk), len(outSpk)); err != nil {
		return err
	}
	if nIn == 0 || nOut == 0 || nT == 0 {
		return nil
	}
	up.UpdateParams()
	up.Traces.Init(nIn, nOut)
	up.BuildThreads(nIn, nOut)
	up.StartThreads()
	defer up.StopThreads()

	for t := 0; t < nT; t++ {
		inRow := inSpk[t*nIn : (t+1)*nIn]
		outRow := outSpk[t*nOut : (t+1)*nOut]
		up.ThrFun(func(th int) { up.StepTrace(th, inRow, outRow) }, "Trace")
		if !up.Bounds.On && !AnySpike(inRow) && !AnySpike(outRow) {
			continue // nothing to learn on a silent step
		}
		up.ThrFun(func(th int) { up.StepSyn(th, wts, inRow, outRow) }, "Syn")
	}
	return nil
}

// StepTrace decays the traces owned by thread th and adds the current step's spikes
func (up *Updater) StepTrace(th int, inRow, outRow []float32) {
	pr := up.ThrPre[th]
	TraceFmSpikes(up.Traces.Pre, inRow, up.Params.PreDecay, pr.St, pr.Ed)
	po := up.ThrPost[th]
	TraceFmSpikes(up.Traces.Post, outRow, up.Params.PostDecay, po.St, po.Ed)
}

// StepSyn applies potentiation then depression to the weight rows owned by thread th,
// using traces that already include the current step.
func (up *Updater) StepSyn(th int, wts, inRow, outRow []float32) {
	sp := &up.Params
	nIn := len(inRow)
	pre := up.Traces.Pre
	post := up.Traces.Post
	rr := up.ThrPost[th]
	for ri := rr.St; ri < rr.Ed; ri++ {
		rw := wts[ri*nIn : (ri+1)*nIn]
		if outRow[ri] != 0 {
			for si := range rw {
				rw[si] += sp.LTP(pre[si])
			}
		}
		dwt := sp.LTD(post[ri])
		for si, ss := range inRow {
			if ss != 0 {
				rw[si] -= dwt
			}
		}
		up.Bounds.ClipRow(rw)
	}
}

// AnySpike returns true if any value in the spike row is non-zero
func AnySpike(spk []float32) bool {
	for _, s := range spk {
		if s != 0 {
			return true
		}
	}
	return false
}

// Apply is the flat single-call form of the rule: it updates wts in place over
// nT steps with the given parameters and returns a Status code.
// Threading uses the Updater defaults.
func Apply(wts []float32, nIn, nOut, nT int, inSpk, outSpk []float32, aPos, tauPos, aNeg, tauNeg float32) Status {
	up := NewUpdater()
	up.Params.Set(aPos, tauPos, aNeg, tauNeg)
	return StatusFromError(up.Update(wts, nIn, nOut, nT, inSpk, outSpk))
}

// SizeReport returns a string reporting the memory used by a call over the given
// sizes: weights, spike trains and traces.
func (up *Updater) SizeReport(nIn, nOut, nT int) string {
	var b strings.Builder
	wtMem := 4 * nIn * nOut
	spkMem := 4 * nT * (nIn + nOut)
	trMem := 4 * (nIn + nOut)
	fmt.Fprintf(&b, "%14s:\t Syns: %d\t WtMem: %v\n", "Weights", nIn*nOut, datasize.ByteSize(wtMem).HumanReadable())
	fmt.Fprintf(&b, "%14s:\t Steps: %d\t SpkMem: %v\n", "Spikes", nT, datasize.ByteSize(spkMem).HumanReadable())
	fmt.Fprintf(&b, "%14s:\t Neurons: %d\t TrMem: %v\n", "Traces", nIn+nOut, datasize.ByteSize(trMem).HumanReadable())
	fmt.Fprintf(&b, "\n%14s:\t %v\n", "Total", datasize.ByteSize(wtMem+spkMem+trMem).HumanReadable())
	return b.String()
}
