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

package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_Trigger(t *testing.T) {
	var cnt int32
	d := New(20*time.Millisecond, func() {
		atomic.AddInt32(&cnt, 1)
	})
	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	assert.True(t, d.Pending())
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cnt) == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, d.Pending())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&cnt))
}

func TestDebouncer_Sync(t *testing.T) {
	var cnt int
	d := New(0, func() {
		cnt++
	})
	d.Trigger()
	d.Trigger()
	assert.Equal(t, 2, cnt)
	assert.False(t, d.Pending())
}

func TestDebouncer_Stop(t *testing.T) {
	var cnt int32
	d := New(20*time.Millisecond, func() {
		atomic.AddInt32(&cnt, 1)
	})
	d.Trigger()
	d.Stop()
	assert.False(t, d.Pending())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&cnt))
}

func TestDebouncer_Flush(t *testing.T) {
	var cnt int32
	d := New(time.Hour, func() {
		atomic.AddInt32(&cnt, 1)
	})
	assert.False(t, d.Flush())
	d.Trigger()
	d.Trigger()
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&cnt))
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&cnt))
}
