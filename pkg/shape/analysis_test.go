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
	"testing"

	"github.com/eqsat/go-eqsat/pkg/egraph"
	"github.com/eqsat/go-eqsat/pkg/op"
)

func Test_Analysis_01(t *testing.T) {
	// Metadata propagates upwards as terms are inserted.
	eg := egraph.NewEGraph(NewAnalysis(Model{}))
	//
	id, err := eg.AddTerm(op.NewTerm(op.Ewadd,
		op.NewTerm(op.Input, op.NewVar("a@2_4")),
		op.NewTerm(op.Input, op.NewVar("b@2_4"))))
	if err != nil {
		t.Fatal(err)
	}
	//
	meta, ok := eg.Data(id).(Meta)
	if !ok {
		t.Fatalf("class %d has no metadata", id)
	} else if !meta.Equals(TensorMeta(2, 4)) {
		t.Errorf("expected tensor [2x4], got %s", meta)
	}
}

func Test_Analysis_02(t *testing.T) {
	// Inserting an ill-shaped term fails outright.
	eg := egraph.NewEGraph(NewAnalysis(Model{}))
	//
	_, err := eg.AddTerm(op.NewTerm(op.Ewadd,
		op.NewTerm(op.Input, op.NewVar("a@2_4")),
		op.NewTerm(op.Input, op.NewVar("b@4_2"))))
	if err == nil {
		t.Errorf("expected shape mismatch to be rejected")
	}
}

func Test_Analysis_03(t *testing.T) {
	// Unioning classes with conflicting metadata is a hard error.
	eg := egraph.NewEGraph(NewAnalysis(Model{}))
	//
	a, err := eg.AddTerm(op.NewTerm(op.Input, op.NewVar("a@2_2")))
	if err != nil {
		t.Fatal(err)
	}
	//
	b, err := eg.AddTerm(op.NewTerm(op.Input, op.NewVar("b@2_3")))
	if err != nil {
		t.Fatal(err)
	}
	//
	if _, _, err := eg.Union(a, b); err == nil {
		t.Errorf("expected metadata conflict to be rejected")
	}
}

func Test_Analysis_04(t *testing.T) {
	// Unioning classes with agreeing metadata keeps it intact.
	eg := egraph.NewEGraph(NewAnalysis(Model{}))
	//
	a, err := eg.AddTerm(op.NewTerm(op.Input, op.NewVar("a@2_2")))
	if err != nil {
		t.Fatal(err)
	}
	//
	b, err := eg.AddTerm(op.NewTerm(op.Input, op.NewVar("b@2_2")))
	if err != nil {
		t.Fatal(err)
	}
	//
	if _, _, err := eg.Union(a, b); err != nil {
		t.Fatal(err)
	} else if err := eg.Rebuild(); err != nil {
		t.Fatal(err)
	}
	//
	meta, ok := eg.Data(eg.Find(a)).(Meta)
	if !ok || !meta.Equals(TensorMeta(2, 2)) {
		t.Errorf("metadata lost on merge: %v", eg.Data(eg.Find(a)))
	}
}
