// Copyright the go-eqsat authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package shape

import (
	"fmt"

	"github.com/eqsat/go-eqsat/pkg/op"
)

// Oracle is the sole boundary to the cost / metadata backend.  Given an
// operator and the metadata of its operand classes, it returns the scalar
// execution cost of that single operator application together with its output
// metadata.  Implementations must be deterministic for fixed inputs and free
// of side effects.  Domain errors (e.g. incompatible shapes) are reported as
// ordinary errors, which the engine treats as a fatal merge conflict or a
// skipped guard depending on context.
type Oracle interface {
	// Evaluate one operator application over operands with the given
	// metadata.
	Evaluate(tag op.Tag, children []Meta) (float64, Meta, error)
}

// Model is an in-process analytic cost oracle.  Costs approximate operation
// counts (e.g. multiply-accumulates for matmul and conv2d), which is enough
// to drive extraction towards cheaper graphs without executing any kernels.
type Model struct{}

var _ Oracle = Model{}

// loadCost is the nominal cost of materialising a graph input or weight.
const loadCost = 1.0

// activationFactor scales the per-element cost of an activation function.
func activationFactor(act int) float64 {
	switch act {
	case ActNone:
		return 0
	case ActRelu:
		return 1
	case ActSigmoid, ActTanh:
		return 4
	}
	//
	return 1
}

// Evaluate implements the oracle contract for the analytic model.
//
//nolint:gocyclo
func (m Model) Evaluate(tag op.Tag, children []Meta) (float64, Meta, error) {
	if uint(len(children)) != tag.Arity() {
		return 0, Meta{}, fmt.Errorf("operator %s expects %d operand(s), got %d", tag, tag.Arity(), len(children))
	}
	//
	switch tag {
	case op.Num, op.Var:
		// Leaf payloads are attached by the analysis, not the oracle.
		return 0, Meta{}, nil
	case op.Input, op.Weight:
		return m.evalLoad(tag, children)
	case op.Ewadd, op.Ewmul:
		return m.evalElementwise(tag, children)
	case op.Smul:
		return m.evalScalarMul(children)
	case op.Transpose:
		return m.evalTranspose(children)
	case op.Matmul:
		return m.evalMatmul(children)
	case op.Conv2d:
		return m.evalConv2d(children)
	case op.Relu, op.Tanh, op.Sigmoid:
		return m.evalActivation(tag, children)
	case op.Poolavg, op.Poolmax:
		return m.evalPool(tag, children)
	case op.Concat:
		return m.evalConcat(children)
	case op.Split:
		return m.evalSplit(children)
	case op.Split0, op.Split1:
		return m.evalSplitProj(tag, children)
	case op.Enlarge:
		return m.evalEnlarge(children)
	case op.Merge:
		return m.evalMerge(children)
	}
	//
	return 0, Meta{}, fmt.Errorf("unknown operator %s", tag)
}

func (m Model) evalLoad(tag op.Tag, children []Meta) (float64, Meta, error) {
	if err := wantKind(tag, children, 0, Name); err != nil {
		return 0, Meta{}, err
	}
	//
	dims, err := ParseDims(children[0].Name)
	if err != nil {
		return 0, Meta{}, err
	}
	//
	return loadCost, TensorMeta(dims...), nil
}

func (m Model) evalElementwise(tag op.Tag, children []Meta) (float64, Meta, error) {
	if err := wantKinds(tag, children, Tensor, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	lhs, rhs := children[0], children[1]
	if !equalDims(lhs.Dims, rhs.Dims) {
		return 0, Meta{}, fmt.Errorf("operator %s requires matching shapes, got %s and %s", tag, lhs, rhs)
	}
	//
	return float64(lhs.Size()), TensorMeta(lhs.Dims...), nil
}

func (m Model) evalScalarMul(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Smul, children, Tensor, Scalar); err != nil {
		return 0, Meta{}, err
	}
	//
	tensor := children[0]
	//
	return float64(tensor.Size()), TensorMeta(tensor.Dims...), nil
}

func (m Model) evalTranspose(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Transpose, children, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	dims := children[0].Dims
	if len(dims) != 2 {
		return 0, Meta{}, fmt.Errorf("operator %s requires a matrix, got %s", op.Transpose, children[0])
	}
	//
	return float64(children[0].Size()), TensorMeta(dims[1], dims[0]), nil
}

func (m Model) evalMatmul(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Matmul, children, Scalar, Tensor, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	act, lhs, rhs := children[0].Value, children[1], children[2]
	if len(lhs.Dims) != 2 || len(rhs.Dims) != 2 {
		return 0, Meta{}, fmt.Errorf("operator %s requires matrices, got %s and %s", op.Matmul, lhs, rhs)
	} else if lhs.Dims[1] != rhs.Dims[0] {
		return 0, Meta{}, fmt.Errorf("operator %s inner dimensions disagree: %s versus %s", op.Matmul, lhs, rhs)
	}
	//
	rows, inner, cols := lhs.Dims[0], lhs.Dims[1], rhs.Dims[1]
	cost := float64(rows*inner*cols) + activationFactor(act)*float64(rows*cols)
	//
	return cost, TensorMeta(rows, cols), nil
}

func (m Model) evalConv2d(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Conv2d, children, Scalar, Scalar, Scalar, Scalar, Tensor, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	var (
		strideH = children[0].Value
		strideW = children[1].Value
		padding = children[2].Value
		act     = children[3].Value
		input   = children[4]
		weight  = children[5]
	)
	//
	if len(input.Dims) != 4 || len(weight.Dims) != 4 {
		return 0, Meta{}, fmt.Errorf("operator %s requires 4D tensors, got %s and %s", op.Conv2d, input, weight)
	} else if input.Dims[1] != weight.Dims[1] {
		return 0, Meta{}, fmt.Errorf("operator %s channel mismatch: %s versus %s", op.Conv2d, input, weight)
	}
	//
	outH, outW, err := convOutput(input.Dims[2], input.Dims[3], weight.Dims[2], weight.Dims[3],
		strideH, strideW, padding)
	if err != nil {
		return 0, Meta{}, err
	}
	//
	batch, outC := input.Dims[0], weight.Dims[0]
	macs := batch * outC * outH * outW * weight.Dims[1] * weight.Dims[2] * weight.Dims[3]
	cost := float64(macs) + activationFactor(act)*float64(batch*outC*outH*outW)
	//
	return cost, TensorMeta(batch, outC, outH, outW), nil
}

func (m Model) evalActivation(tag op.Tag, children []Meta) (float64, Meta, error) {
	if err := wantKinds(tag, children, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	factor := 1.0
	if tag == op.Tanh || tag == op.Sigmoid {
		factor = 4.0
	}
	//
	tensor := children[0]
	//
	return factor * float64(tensor.Size()), TensorMeta(tensor.Dims...), nil
}

func (m Model) evalPool(tag op.Tag, children []Meta) (float64, Meta, error) {
	if err := wantKinds(tag, children, Tensor, Scalar, Scalar, Scalar, Scalar, Scalar, Scalar); err != nil {
		return 0, Meta{}, err
	}
	//
	var (
		input   = children[0]
		kernelH = children[1].Value
		kernelW = children[2].Value
		strideH = children[3].Value
		strideW = children[4].Value
		padding = children[5].Value
	)
	//
	if len(input.Dims) != 4 {
		return 0, Meta{}, fmt.Errorf("operator %s requires a 4D tensor, got %s", tag, input)
	}
	//
	outH, outW, err := convOutput(input.Dims[2], input.Dims[3], kernelH, kernelW, strideH, strideW, padding)
	if err != nil {
		return 0, Meta{}, err
	}
	//
	batch, channels := input.Dims[0], input.Dims[1]
	cost := float64(batch * channels * outH * outW * kernelH * kernelW)
	//
	return cost, TensorMeta(batch, channels, outH, outW), nil
}

func (m Model) evalConcat(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Concat, children, Scalar, Scalar, Tensor, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	var (
		axis = children[0].Value
		ndim = children[1].Value
		lhs  = children[2]
		rhs  = children[3]
	)
	//
	if len(lhs.Dims) != ndim || len(rhs.Dims) != ndim {
		return 0, Meta{}, fmt.Errorf("operator %s expects %dD tensors, got %s and %s", op.Concat, ndim, lhs, rhs)
	} else if axis < 0 || axis >= ndim {
		return 0, Meta{}, fmt.Errorf("operator %s axis %d out of range for %dD tensors", op.Concat, axis, ndim)
	}
	//
	dims := make([]int, ndim)
	copy(dims, lhs.Dims)
	//
	for i := range dims {
		if i == axis {
			dims[i] = lhs.Dims[i] + rhs.Dims[i]
		} else if lhs.Dims[i] != rhs.Dims[i] {
			return 0, Meta{}, fmt.Errorf("operator %s shapes disagree off axis %d: %s versus %s",
				op.Concat, axis, lhs, rhs)
		}
	}
	//
	out := TensorMeta(dims...)
	//
	return float64(out.Size()), out, nil
}

func (m Model) evalSplit(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Split, children, Scalar, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	axis, input := children[0].Value, children[1]
	if axis < 0 || axis >= len(input.Dims) {
		return 0, Meta{}, fmt.Errorf("operator %s axis %d out of range for %s", op.Split, axis, input)
	} else if input.Dims[axis] < 2 {
		return 0, Meta{}, fmt.Errorf("operator %s cannot split %s along axis %d", op.Split, input, axis)
	}
	//
	first := make([]int, len(input.Dims))
	second := make([]int, len(input.Dims))
	copy(first, input.Dims)
	copy(second, input.Dims)
	// First component takes the larger half of an odd split.
	second[axis] = input.Dims[axis] / 2
	first[axis] = input.Dims[axis] - second[axis]
	// Splitting is a view, not a copy.
	return 0, Meta{Kind: TensorPair, Dims: first, Second: second}, nil
}

func (m Model) evalSplitProj(tag op.Tag, children []Meta) (float64, Meta, error) {
	if err := wantKinds(tag, children, TensorPair); err != nil {
		return 0, Meta{}, err
	}
	//
	dims := children[0].Dims
	if tag == op.Split1 {
		dims = children[0].Second
	}
	//
	return 0, TensorMeta(dims...), nil
}

func (m Model) evalEnlarge(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Enlarge, children, Tensor, Tensor); err != nil {
		return 0, Meta{}, err
	}
	//
	kernel, ref := children[0], children[1]
	if len(kernel.Dims) != 4 || len(ref.Dims) != 4 {
		return 0, Meta{}, fmt.Errorf("operator %s requires 4D kernels, got %s and %s", op.Enlarge, kernel, ref)
	} else if ref.Dims[2] < kernel.Dims[2] || ref.Dims[3] < kernel.Dims[3] {
		return 0, Meta{}, fmt.Errorf("operator %s cannot shrink %s to %s", op.Enlarge, kernel, ref)
	}
	//
	out := TensorMeta(kernel.Dims[0], kernel.Dims[1], ref.Dims[2], ref.Dims[3])
	//
	return float64(out.Size()), out, nil
}

func (m Model) evalMerge(children []Meta) (float64, Meta, error) {
	if err := wantKinds(op.Merge, children, Tensor, Scalar); err != nil {
		return 0, Meta{}, err
	}
	//
	weight, count := children[0], children[1].Value
	if len(weight.Dims) != 4 {
		return 0, Meta{}, fmt.Errorf("operator %s requires a 4D weight, got %s", op.Merge, weight)
	} else if count < 1 {
		return 0, Meta{}, fmt.Errorf("operator %s requires a positive count, got %d", op.Merge, count)
	}
	//
	out := TensorMeta(weight.Dims[0], weight.Dims[1]*count, weight.Dims[2], weight.Dims[3])
	//
	return float64(out.Size()), out, nil
}

// convOutput computes the output spatial size of a convolution or pooling
// window under the given padding mode.
func convOutput(height, width, kernelH, kernelW, strideH, strideW, padding int) (int, int, error) {
	if strideH < 1 || strideW < 1 {
		return 0, 0, fmt.Errorf("invalid strides %dx%d", strideH, strideW)
	}
	//
	switch padding {
	case PaddingSame:
		return (height + strideH - 1) / strideH, (width + strideW - 1) / strideW, nil
	case PaddingValid:
		if height < kernelH || width < kernelW {
			return 0, 0, fmt.Errorf("kernel %dx%d exceeds input %dx%d", kernelH, kernelW, height, width)
		}
		//
		return (height-kernelH)/strideH + 1, (width-kernelW)/strideW + 1, nil
	}
	//
	return 0, 0, fmt.Errorf("unknown padding mode %d", padding)
}

// wantKind checks that the ith operand has the expected kind.
func wantKind(tag op.Tag, children []Meta, i int, kind Kind) error {
	if children[i].Kind != kind {
		return fmt.Errorf("operator %s operand %d: expected %s, got %s", tag, i, kind, children[i].Kind)
	}
	//
	return nil
}

// wantKinds checks every operand against an expected kind.
func wantKinds(tag op.Tag, children []Meta, kinds ...Kind) error {
	for i, kind := range kinds {
		if err := wantKind(tag, children, i, kind); err != nil {
			return err
		}
	}
	//
	return nil
}
