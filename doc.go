// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stdp is the overall repository for the spike-timing-dependent plasticity
learning rule implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* stdp: the core rule: parameters, eligibility traces, the threaded Updater that
applies the rule over recorded spike trains of a fully-connected layer, and the
Learner that records spikes step by step and applies the rule at the end of a run.

* examples: these compile into runnable programs.  examples/bench times the
Updater on random spike trains of different sizes and thread counts, and
examples/pairing prints the classic STDP window of weight change as a function
of the pre / post spike timing difference.
*/
package stdp
