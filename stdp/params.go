// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  params.go contains the STDP learning rule parameters

// stdp.Params are the pair-based STDP learning rule parameters.
// Potentiation (LTP) occurs when a receiving (output) neuron spikes, in proportion
// to the decaying pre-synaptic trace of each sending (input) neuron.
// Depression (LTD) occurs when a sending neuron spikes, in proportion to the
// decaying post-synaptic trace of each receiving neuron.
type Params struct {
	APos   float32 `def:"0.01" desc:"A+ potentiation amplitude -- multiplies the pre-synaptic trace when the receiving neuron spikes"`
	TauPos float32 `def:"20" min:"0" desc:"time constant in time steps of the pre-synaptic trace that drives potentiation -- must be > 0"`
	ANeg   float32 `def:"0.0105" desc:"A- depression amplitude -- multiplies the post-synaptic trace when the sending neuron spikes"`
	TauNeg float32 `def:"20" min:"0" desc:"time constant in time steps of the post-synaptic trace that drives depression -- must be > 0"`

	PreDecay  float32 `view:"-" json:"-" xml:"-" desc:"exp(-1/TauPos) -- per-step decay factor of the pre-synaptic trace"`
	PostDecay float32 `view:"-" json:"-" xml:"-" desc:"exp(-1/TauNeg) -- per-step decay factor of the post-synaptic trace"`
}

func (sp *Params) Defaults() {
	sp.APos = 0.01
	sp.TauPos = 20
	sp.ANeg = 0.0105
	sp.TauNeg = 20
	sp.Update()
}

// Update recomputes the decay factors from the time constants.
// Must be called after any change to TauPos or TauNeg.
func (sp *Params) Update() {
	sp.PreDecay = mat32.Exp(-1 / sp.TauPos)
	sp.PostDecay = mat32.Exp(-1 / sp.TauNeg)
}

// Set sets all four rule parameters and updates the decay factors.
func (sp *Params) Set(aPos, tauPos, aNeg, tauNeg float32) {
	sp.APos = aPos
	sp.TauPos = tauPos
	sp.ANeg = aNeg
	sp.TauNeg = tauNeg
	sp.Update()
}

// Validate returns an ErrInvalidParam error if a time constant is not strictly
// positive (or is NaN), or if an amplitude is not finite.
func (sp *Params) Validate() error {
	if !(sp.TauPos > 0) {
		return fmt.Errorf("stdp.Params: TauPos = %g must be > 0: %w", sp.TauPos, ErrInvalidParam)
	}
	if !(sp.TauNeg > 0) {
		return fmt.Errorf("stdp.Params: TauNeg = %g must be > 0: %w", sp.TauNeg, ErrInvalidParam)
	}
	if mat32.IsNaN(sp.APos) || mat32.IsInf(sp.APos, 0) {
		return fmt.Errorf("stdp.Params: APos = %g must be finite: %w", sp.APos, ErrInvalidParam)
	}
	if mat32.IsNaN(sp.ANeg) || mat32.IsInf(sp.ANeg, 0) {
		return fmt.Errorf("stdp.Params: ANeg = %g must be finite: %w", sp.ANeg, ErrInvalidParam)
	}
	return nil
}

// LTP returns the potentiation delta for a pre-synaptic trace, applied when the
// receiving neuron spikes.  The spike value only gates the update: graded spike
// values already scale the trace they were added into.
func (sp *Params) LTP(preTr float32) float32 {
	return float32(sp.APos * preTr)
}

// LTD returns the depression delta (to be subtracted) for a post-synaptic trace,
// applied when the sending neuron spikes.
func (sp *Params) LTD(postTr float32) float32 {
	return float32(sp.ANeg * postTr)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Access by name

// ParamVars are the names of the user-settable rule parameters, in field order.
var ParamVars = []string{"APos", "TauPos", "ANeg", "TauNeg"}

var ParamVarsMap map[string]int

func init() {
	ParamVarsMap = make(map[string]int, len(ParamVars))
	for i, v := range ParamVars {
		ParamVarsMap[v] = i
	}
}

// ParamVarByName returns the index of the parameter, or error
func ParamVarByName(varNm string) (int, error) {
	i, ok := ParamVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("stdp.Params VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// ParamByName returns the value of the named parameter, or error
func (sp *Params) ParamByName(varNm string) (float32, error) {
	i, err := ParamVarByName(varNm)
	if err != nil {
		return 0, err
	}
	v := reflect.ValueOf(*sp)
	return v.Field(i).Interface().(float32), nil
}

// SetByName parses val and sets the named parameter, then calls Update.
// Does not validate -- the Updater does that before every call.
func (sp *Params) SetByName(varNm, val string) error {
	i, err := ParamVarByName(varNm)
	if err != nil {
		return err
	}
	fv, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return fmt.Errorf("stdp.Params SetByName: %v = %q: %w", varNm, val, err)
	}
	v := reflect.ValueOf(sp)
	v.Elem().Field(i).SetFloat(fv)
	sp.Update()
	return nil
}

// String returns a compact one-line summary of the rule parameters
func (sp *Params) String() string {
	return fmt.Sprintf("APos: %g\tTauPos: %g\tANeg: %g\tTauNeg: %g", sp.APos, sp.TauPos, sp.ANeg, sp.TauNeg)
}
