// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"fmt"

	"github.com/emer/etable/v2/minmax"
	"github.com/goki/mat32"
)

// WtBounds optionally clips weights into a fixed range after each time step's
// update.  Off by default, in which case weights are unbounded.
type WtBounds struct {
	On    bool       `desc:"clip each weight into Range after its potentiation and depression on every time step"`
	Range minmax.F32 `viewif:"On" desc:"range of allowed weight values"`
}

func (wb *WtBounds) Defaults() {
	wb.On = false
	wb.Range.Min = 0
	wb.Range.Max = 1
}

func (wb *WtBounds) Update() {
}

// Validate returns ErrInvalidParam if bounds are on and the range is inverted or NaN
func (wb *WtBounds) Validate() error {
	if !wb.On {
		return nil
	}
	if mat32.IsNaN(wb.Range.Min) || mat32.IsNaN(wb.Range.Max) || wb.Range.Min > wb.Range.Max {
		return fmt.Errorf("stdp.WtBounds: Range [%g, %g] is not valid: %w", wb.Range.Min, wb.Range.Max, ErrInvalidParam)
	}
	return nil
}

// Clip returns wt clipped into Range
func (wb *WtBounds) Clip(wt float32) float32 {
	if wt < wb.Range.Min {
		return wb.Range.Min
	}
	if wt > wb.Range.Max {
		return wb.Range.Max
	}
	return wt
}

// ClipRow clips a row of weights in place, if On
func (wb *WtBounds) ClipRow(wts []float32) {
	if !wb.On {
		return
	}
	for i, wt := range wts {
		wts[i] = wb.Clip(wt)
	}
}
