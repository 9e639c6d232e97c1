// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// gate returns a vector of 1 where spk is non-zero and 0 elsewhere
func gate(spk *mat.VecDense) *mat.VecDense {
	g := mat.NewVecDense(spk.Len(), nil)
	for i := 0; i < spk.Len(); i++ {
		if spk.AtVec(i) != 0 {
			g.SetVec(i, 1)
		}
	}
	return g
}

// refSTDP computes the same rule in float64 with dense linear algebra:
// per step, decay and add into the trace vectors, then two rank-one updates
// W += APos * [out != 0] (x) pre and W -= ANeg * post (x) [in != 0].
func refSTDP(wts []float32, nIn, nOut, nT int, inSpk, outSpk []float32, sp *Params) *mat.Dense {
	data := make([]float64, len(wts))
	for i, w := range wts {
		data[i] = float64(w)
	}
	w := mat.NewDense(nOut, nIn, data)
	pre := mat.NewVecDense(nIn, nil)
	post := mat.NewVecDense(nOut, nil)
	preDk := math.Exp(-1 / float64(sp.TauPos))
	postDk := math.Exp(-1 / float64(sp.TauNeg))
	for t := 0; t < nT; t++ {
		in := mat.NewVecDense(nIn, nil)
		for i := 0; i < nIn; i++ {
			in.SetVec(i, float64(inSpk[t*nIn+i]))
		}
		out := mat.NewVecDense(nOut, nil)
		for j := 0; j < nOut; j++ {
			out.SetVec(j, float64(outSpk[t*nOut+j]))
		}
		pre.ScaleVec(preDk, pre)
		pre.AddVec(pre, in)
		post.ScaleVec(postDk, post)
		post.AddVec(post, out)
		w.RankOne(w, float64(sp.APos), out, pre)
		w.RankOne(w, -float64(sp.ANeg), post, in)
	}
	return w
}

func TestReference(t *testing.T) {
	rnd := rand.New(rand.NewSource(10))
	sizes := [][3]int{{1, 1, 5}, {7, 3, 25}, {16, 16, 40}, {40, 9, 60}}
	for si, sz := range sizes {
		nIn, nOut, nT := sz[0], sz[1], sz[2]
		wts := randWts(rnd, nIn, nOut)
		in := randSpikes(rnd, nT, nIn, 0.25)
		out := randSpikes(rnd, nT, nOut, 0.25)
		if si%2 == 1 { // graded spike values in (0, 2)
			for i := range in {
				in[i] *= 2 * rnd.Float32()
			}
			for i := range out {
				out[i] *= 2 * rnd.Float32()
			}
		}

		up := NewUpdater()
		up.Params.Set(0.01, 8, 0.012, 12)
		up.NThreads = 2
		up.MinSynsPerThread = 8
		ref := refSTDP(wts, nIn, nOut, nT, in, out, &up.Params)

		if err := up.Update(wts, nIn, nOut, nT, in, out); err != nil {
			t.Fatal(err)
		}
		for j := 0; j < nOut; j++ {
			for i := 0; i < nIn; i++ {
				rv := ref.At(j, i)
				dif := math.Abs(float64(wts[j*nIn+i]) - rv)
				if dif > 1.0e-5 {
					t.Errorf("size: %v, syn: [%d][%d], wt: %v, ref: %v, dif: %v\n", sz, j, i, wts[j*nIn+i], rv, dif)
				}
			}
		}
	}
}
