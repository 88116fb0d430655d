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
package op

import "fmt"

// Tag identifies one operator in the (closed) tensor operator vocabulary.
// Operators are applied to zero or more operands, where the number of operands
// expected is fixed by the tag (see Arity).
type Tag uint8

const (
	// Num is a scalar integer literal (e.g. an axis, stride or padding mode).
	Num Tag = iota
	// Var is a symbolic name.  Names of the form "x@d1_d2_..." carry the
	// dimensions of the tensor they stand for.
	Var
	// Input introduces a graph input tensor from a named variable.
	Input
	// Weight introduces a weight tensor from a named variable.
	Weight
	// Ewadd is element-wise addition of two tensors.
	Ewadd
	// Ewmul is element-wise multiplication of two tensors.
	Ewmul
	// Smul multiplies a tensor by a scalar.
	Smul
	// Transpose swaps the two dimensions of a matrix.
	Transpose
	// Matmul is matrix multiplication with a fused activation, applied as
	// (matmul activation lhs rhs).
	Matmul
	// Conv2d is a 2D convolution, applied as (conv2d sh sw pad act input
	// weight).
	Conv2d
	// Relu is the rectified linear activation.
	Relu
	// Tanh is the hyperbolic tangent activation.
	Tanh
	// Sigmoid is the sigmoid activation.
	Sigmoid
	// Poolavg is 2D average pooling, applied as (poolavg input kh kw sh sw
	// pad act).
	Poolavg
	// Poolmax is 2D max pooling, with the same operands as poolavg.
	Poolmax
	// Concat concatenates two tensors, applied as (concat axis ndim lhs rhs).
	Concat
	// Split splits a tensor in two along an axis, yielding a tensor pair.
	Split
	// Split0 projects the first component of a tensor pair.
	Split0
	// Split1 projects the second component of a tensor pair.
	Split1
	// Enlarge pads a convolution kernel up to the spatial size of a
	// reference kernel.
	Enlarge
	// Merge merges a grouped convolution weight, applied as (merge weight
	// count).
	Merge
)

// LastTag identifies the largest valid operator tag, which is useful for
// iterating the vocabulary.
const LastTag = Merge

// names maps each tag to its concrete (rule file) syntax.
var names = [...]string{
	Num:       "num",
	Var:       "var",
	Input:     "input",
	Weight:    "weight",
	Ewadd:     "ewadd",
	Ewmul:     "ewmul",
	Smul:      "smul",
	Transpose: "transpose",
	Matmul:    "matmul",
	Conv2d:    "conv2d",
	Relu:      "relu",
	Tanh:      "tanh",
	Sigmoid:   "sigmoid",
	Poolavg:   "poolavg",
	Poolmax:   "poolmax",
	Concat:    "concat",
	Split:     "split",
	Split0:    "split_0",
	Split1:    "split_1",
	Enlarge:   "enlarge",
	Merge:     "merge",
}

// arities maps each tag to its expected number of operands.
var arities = [...]uint{
	Num:       0,
	Var:       0,
	Input:     1,
	Weight:    1,
	Ewadd:     2,
	Ewmul:     2,
	Smul:      2,
	Transpose: 1,
	Matmul:    3,
	Conv2d:    6,
	Relu:      1,
	Tanh:      1,
	Sigmoid:   1,
	Poolavg:   7,
	Poolmax:   7,
	Concat:    4,
	Split:     2,
	Split0:    1,
	Split1:    1,
	Enlarge:   2,
	Merge:     2,
}

// String returns the concrete syntax for this operator tag.
func (t Tag) String() string {
	if uint(t) < uint(len(names)) {
		return names[t]
	}
	//
	return fmt.Sprintf("?tag(%d)", uint(t))
}

// Arity returns the number of operands expected by this operator tag.
func (t Tag) Arity() uint {
	return arities[t]
}

// IsLeaf determines whether this tag identifies a leaf operator (i.e. one
// carrying a payload rather than operands).
func (t Tag) IsLeaf() bool {
	return t == Num || t == Var
}

// Lookup returns the tag whose concrete syntax matches the given name, if one
// exists.
func Lookup(name string) (Tag, bool) {
	for i := range names {
		if names[i] == name {
			return Tag(i), true
		}
	}
	//
	return 0, false
}
