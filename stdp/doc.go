// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stdp provides online pair-based spike-timing-dependent plasticity (STDP)
for a fully-connected layer of synapses, given the recorded spike trains of the
sending (input) and receiving (output) populations over a number of discrete time steps.

Each neuron carries an exponentially decaying trace of its own spiking.  On every
time step, both traces decay (by exp(-1/Tau), computed once per call) and then add
that step's spike values.  A receiving spike potentiates each of its synapses by
APos times the sending neuron's trace, and a sending spike depresses each of its
synapses by ANeg times the receiving neuron's trace.  For each synapse the
potentiation is applied before the depression, and both read the traces that
already include the current step, so coincident spikes produce both terms.

Spike values are not restricted to 0 / 1: graded values enter the traces and so
scale the weight changes they drive linearly.  The spike of the neuron that
triggers an update only gates it: any non-zero value applies the full
APos * pre trace (or ANeg * post trace).

Time steps are strictly sequential.  Within a step the work is split across
threads by receiving neuron, so that each weight row has a single writer, with a
barrier between the trace phase and the synapse phase.
*/
package stdp
