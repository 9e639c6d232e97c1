// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"fmt"
	"log"
)

// Learner records the spikes of a fully-connected layer one time step at a
// time while a model is run, and applies the STDP rule over the recorded trains
// when stepping is on.  This is the start / stop / step-once cycle of a
// temporal container: StartStep enables learning, the model is processed over
// its time steps calling Record on each, and ProcessEnd applies one update
// (if stepping) and clears the record for the next run.
type Learner struct {
	Updater  Updater `view:"inline" desc:"applies the STDP rule over the recorded spike trains"`
	NIn      int     `inactive:"+" desc:"number of sending (input) neurons"`
	NOut     int     `inactive:"+" desc:"number of receiving (output) neurons"`
	Stepping bool    `desc:"if true, ProcessEnd applies STDP learning over the recorded steps"`

	InSpikes  []float32 `view:"-" desc:"recorded input spikes, row-major [NSteps][NIn]"`
	OutSpikes []float32 `view:"-" desc:"recorded output spikes, row-major [NSteps][NOut]"`
}

func (ln *Learner) Defaults() {
	ln.Updater.Defaults()
	ln.Stepping = false
}

// Init sets the layer sizes and clears any recorded spikes
func (ln *Learner) Init(nIn, nOut int) {
	ln.NIn = nIn
	ln.NOut = nOut
	if nIn > 0 && nOut > 0 {
		if nthr := ln.Updater.SynThreads(nIn, nOut); nthr > nOut {
			log.Printf("stdp.Learner Init: threads: %d limited to receiving neurons: %d\n", nthr, nOut)
		}
	}
	ln.Reset()
}

// StartStep turns on STDP learning at the end of each processed run
func (ln *Learner) StartStep() {
	ln.Stepping = true
}

// StopStep turns off STDP learning
func (ln *Learner) StopStep() {
	ln.Stepping = false
}

// Reset clears the recorded spikes
func (ln *Learner) Reset() {
	ln.InSpikes = ln.InSpikes[:0]
	ln.OutSpikes = ln.OutSpikes[:0]
}

// NSteps returns the number of recorded time steps
func (ln *Learner) NSteps() int {
	if ln.NIn > 0 {
		return len(ln.InSpikes) / ln.NIn
	}
	if ln.NOut > 0 {
		return len(ln.OutSpikes) / ln.NOut
	}
	return 0
}

// Record appends one time step of input and output spikes.
// Returns an ErrDimMismatch error, recording nothing, if a row has the wrong length.
func (ln *Learner) Record(in, out []float32) error {
	if len(in) != ln.NIn || len(out) != ln.NOut {
		return fmt.Errorf("stdp.Learner Record: row lens in: %d out: %d != NIn: %d NOut: %d: %w", len(in), len(out), ln.NIn, ln.NOut, ErrDimMismatch)
	}
	ln.InSpikes = append(ln.InSpikes, in...)
	ln.OutSpikes = append(ln.OutSpikes, out...)
	return nil
}

// StepOnce applies the STDP rule to wts over all recorded time steps, then clears
// the record.  On error the record is kept and wts is unchanged.
func (ln *Learner) StepOnce(wts []float32) error {
	err := ln.Updater.Update(wts, ln.NIn, ln.NOut, ln.NSteps(), ln.InSpikes, ln.OutSpikes)
	if err != nil {
		return err
	}
	ln.Reset()
	return nil
}

// ProcessEnd is called after a model has been run over its time steps:
// applies StepOnce if Stepping, and then resets the record in any case.
func (ln *Learner) ProcessEnd(wts []float32) error {
	var err error
	if ln.Stepping {
		err = ln.StepOnce(wts)
	}
	ln.Reset()
	return err
}
