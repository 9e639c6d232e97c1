// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

// Traces holds the exponentially decaying eligibility traces for one call
// of the Updater: one value per sending (input) neuron and one per receiving
// (output) neuron.  The buffers are reused across calls but always start at zero.
type Traces struct {
	Pre  []float32 `desc:"pre-synaptic trace per sending neuron -- decays by PreDecay each step and adds the sending spike value"`
	Post []float32 `desc:"post-synaptic trace per receiving neuron -- decays by PostDecay each step and adds the receiving spike value"`
}

// Init sizes the trace buffers and zeros them
func (tr *Traces) Init(nIn, nOut int) {
	if cap(tr.Pre) >= nIn {
		tr.Pre = tr.Pre[:nIn]
	} else {
		tr.Pre = make([]float32, nIn)
	}
	if cap(tr.Post) >= nOut {
		tr.Post = tr.Post[:nOut]
	} else {
		tr.Post = make([]float32, nOut)
	}
	tr.Zero()
}

// Zero sets all trace values to 0
func (tr *Traces) Zero() {
	for i := range tr.Pre {
		tr.Pre[i] = 0
	}
	for j := range tr.Post {
		tr.Post[j] = 0
	}
}

// TraceFmSpikes decays trace values in [st, ed) by dk and then adds the spike
// values for the current time step.  spk is the full spike row for the step,
// indexed like tr.  Decay is rounded before the add so results do not depend
// on fused multiply-add availability.
func TraceFmSpikes(tr, spk []float32, dk float32, st, ed int) {
	tr = tr[st:ed]
	spk = spk[st:ed]
	for i := range tr {
		tr[i] *= dk
		tr[i] += spk[i]
	}
}
