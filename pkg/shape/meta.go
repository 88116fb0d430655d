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

// Package shape provides the metadata and cost oracle for tensor operator
// graphs: shape inference for every operator in the vocabulary, an analytic
// cost model, and the e-graph analysis which attaches shape metadata to
// e-classes during optimisation.
package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Padding modes for convolution and pooling, with values matching the
// operator encoding used in rule and model files.
const (
	// PaddingSame pads such that the output spatial size is the input size
	// divided by the stride (rounded up).
	PaddingSame = 0
	// PaddingValid applies no padding.
	PaddingValid = 1
)

// Fused activation codes, with values matching the operator encoding used in
// rule and model files.
const (
	// ActNone applies no activation.
	ActNone = 0
	// ActSigmoid applies a sigmoid activation.
	ActSigmoid = 1
	// ActRelu applies a rectified-linear activation.
	ActRelu = 2
	// ActTanh applies a tanh activation.
	ActTanh = 3
)

// Kind distinguishes what sort of value an e-class denotes.
type Kind uint8

const (
	// Name is a symbolic name (e.g. the "x@4_4" operand of an input).
	Name Kind = iota
	// Scalar is an integer scalar (e.g. an axis or stride).
	Scalar
	// Tensor is a tensor with a known shape.
	Tensor
	// TensorPair is the pair of tensors produced by a split.
	TensorPair
)

// String returns a human-readable name for this kind.
func (k Kind) String() string {
	switch k {
	case Name:
		return "name"
	case Scalar:
		return "scalar"
	case Tensor:
		return "tensor"
	case TensorPair:
		return "tensor pair"
	}
	//
	return "unknown"
}

// Meta is the shape metadata of one e-class.  Exactly which fields are
// meaningful depends on the kind.
type Meta struct {
	// Kind determines what sort of value this class denotes.
	Kind Kind
	// Value holds the value of a scalar class.
	Value int
	// Name holds the name of a name class.
	Name string
	// Dims holds the shape of a tensor class, or the first component's shape
	// for a tensor pair.
	Dims []int
	// Second holds the second component's shape for a tensor pair.
	Second []int
}

// ScalarMeta constructs metadata for a scalar class.
func ScalarMeta(value int) Meta {
	return Meta{Kind: Scalar, Value: value}
}

// NameMeta constructs metadata for a name class.
func NameMeta(name string) Meta {
	return Meta{Kind: Name, Name: name}
}

// TensorMeta constructs metadata for a tensor class of a given shape.
func TensorMeta(dims ...int) Meta {
	return Meta{Kind: Tensor, Dims: dims}
}

// Equals checks whether two metadata records carry the same information.
func (m Meta) Equals(other Meta) bool {
	return m.Kind == other.Kind && m.Value == other.Value && m.Name == other.Name &&
		equalDims(m.Dims, other.Dims) && equalDims(m.Second, other.Second)
}

// Size returns the number of elements in a tensor of this shape.
func (m Meta) Size() int {
	size := 1
	//
	for _, d := range m.Dims {
		size *= d
	}
	//
	return size
}

// String returns a human-readable rendition of this metadata.
func (m Meta) String() string {
	switch m.Kind {
	case Name:
		return fmt.Sprintf("name %q", m.Name)
	case Scalar:
		return fmt.Sprintf("scalar %d", m.Value)
	case Tensor:
		return fmt.Sprintf("tensor %s", dimsString(m.Dims))
	case TensorPair:
		return fmt.Sprintf("tensors %s %s", dimsString(m.Dims), dimsString(m.Second))
	}
	//
	return "unknown"
}

// ParseDims extracts the dimensions encoded in a tensor variable name of the
// form "name@d1_d2_...".
func ParseDims(name string) ([]int, error) {
	split := strings.Split(name, "@")
	if len(split) != 2 {
		return nil, fmt.Errorf("name %q does not encode dimensions (expected \"name@d1_d2_...\")", name)
	}
	//
	var dims []int
	//
	for _, d := range strings.Split(split[1], "_") {
		val, err := strconv.Atoi(d)
		//
		if err != nil || val <= 0 {
			return nil, fmt.Errorf("name %q has malformed dimension %q", name, d)
		}
		//
		dims = append(dims, val)
	}
	//
	return dims, nil
}

func equalDims(lhs []int, rhs []int) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if lhs[i] != rhs[i] {
			return false
		}
	}
	//
	return true
}

func dimsString(dims []int) string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, d := range dims {
		if i != 0 {
			builder.WriteString("x")
		}
		//
		builder.WriteString(strconv.Itoa(d))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
