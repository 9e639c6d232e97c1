// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"bytes"
	"log"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnerStepOnce(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	nIn, nOut, nT := 6, 4, 12
	in := randSpikes(rnd, nT, nIn, 0.3)
	out := randSpikes(rnd, nT, nOut, 0.3)
	wts := randWts(rnd, nIn, nOut)

	direct := append([]float32(nil), wts...)
	up := NewUpdater()
	require.NoError(t, up.Update(direct, nIn, nOut, nT, in, out))

	ln := &Learner{}
	ln.Defaults()
	ln.Init(nIn, nOut)
	for st := 0; st < nT; st++ {
		require.NoError(t, ln.Record(in[st*nIn:(st+1)*nIn], out[st*nOut:(st+1)*nOut]))
	}
	assert.Equal(t, nT, ln.NSteps())

	require.NoError(t, ln.StepOnce(wts))
	assert.Equal(t, direct, wts)
	assert.Equal(t, 0, ln.NSteps(), "record should be cleared after StepOnce")
}

func TestLearnerRecordMismatch(t *testing.T) {
	ln := &Learner{}
	ln.Defaults()
	ln.Init(3, 2)
	err := ln.Record([]float32{1, 0}, []float32{0, 1})
	require.ErrorIs(t, err, ErrDimMismatch)
	err = ln.Record([]float32{1, 0, 0}, []float32{0})
	require.ErrorIs(t, err, ErrDimMismatch)
	assert.Equal(t, 0, ln.NSteps())
}

func TestLearnerProcessEnd(t *testing.T) {
	ln := &Learner{}
	ln.Defaults()
	ln.Updater.Params.Set(1, 1, 1, 1)
	ln.Init(1, 1)

	wts := []float32{0}
	require.NoError(t, ln.Record([]float32{1}, []float32{0}))
	require.NoError(t, ln.Record([]float32{0}, []float32{1}))
	require.NoError(t, ln.ProcessEnd(wts))
	assert.Equal(t, float32(0), wts[0], "not stepping: no learning")
	assert.Equal(t, 0, ln.NSteps(), "record reset even when not stepping")

	ln.StartStep()
	assert.True(t, ln.Stepping)
	require.NoError(t, ln.Record([]float32{1}, []float32{0}))
	require.NoError(t, ln.Record([]float32{0}, []float32{1}))
	require.NoError(t, ln.ProcessEnd(wts))
	assert.InDelta(t, 0.36787944, wts[0], 1.0e-6)
	assert.Equal(t, 0, ln.NSteps())

	ln.StopStep()
	assert.False(t, ln.Stepping)
}

func TestLearnerInvalidKeepsRecord(t *testing.T) {
	ln := &Learner{}
	ln.Defaults()
	ln.Init(2, 2)
	ln.Updater.Params.TauNeg = -1
	require.NoError(t, ln.Record([]float32{1, 1}, []float32{1, 1}))
	wts := []float32{0.1, 0.2, 0.3, 0.4}
	err := ln.StepOnce(wts)
	require.ErrorIs(t, err, ErrInvalidParam)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, wts)
	assert.Equal(t, 1, ln.NSteps())
}

func TestLearnerInitThreadsWarning(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	ln := &Learner{}
	ln.Defaults()
	ln.Updater.NThreads = 8
	ln.Updater.MinSynsPerThread = 100

	ln.Init(10, 0)
	ln.Init(10, 4) // 40 syns: one thread, not limited by rows
	ln.Init(50, 4) // 200 syns: two threads by min syns
	assert.Empty(t, buf.String())

	ln.Init(1000, 4) // 8 threads by min syns, only 4 rows
	assert.Contains(t, buf.String(), "limited to receiving neurons: 4")
}
