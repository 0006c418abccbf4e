// Copyright 2021 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package colorpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_Next(t *testing.T) {
	p := NewWithPalette([]string{"#000000", "#ffffff"})
	assert.Equal(t, "#000000", p.Next())
	assert.Equal(t, "#ffffff", p.Next())
	generated := p.Next()
	assert.Len(t, generated, 7)
	assert.NotEqual(t, generated, p.Next())

	p.Reset()
	assert.Equal(t, "#000000", p.Next())

	// 两个独立的生成器互不影响
	a, b := New(), New()
	a.Next()
	assert.Equal(t, Category10[0], b.Next())
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "upper", in: "#FF0000", want: "#ff0000"},
		{name: "short", in: "#f00", want: "#ff0000"},
		{name: "invalid", in: "red", want: "red"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestBlend(t *testing.T) {
	assert.Equal(t, "#000000", Blend("#000000", "#ffffff", 0))
	assert.Equal(t, "#ffffff", Blend("#000000", "#ffffff", 1))
	assert.Equal(t, "#ffffff", Blend("bad", "#ffffff", 0.5))
	assert.Equal(t, "#000000", Blend("#000000", "bad", 0.5))
}
