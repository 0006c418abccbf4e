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

package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	defer Level.Set(slog.LevelInfo)

	buf := &bytes.Buffer{}
	l := NewWithWriter(buf).With("ranking", "rank1")
	Level.SetByName("warn")
	l.Infof("hidden %d", 1)
	l.Warningf("reorder %s", "failed")
	assert.Equal(t, "level=warn msg=\"reorder failed\" ranking=rank1\n", buf.String())

	buf.Reset()
	Level.SetByName("DEBUG")
	assert.True(t, Level.Enabled(slog.LevelDebug))
	l.Debugf("sorted")
	l.Attrs(slog.LevelError, "boom", slog.Int("rows", 3))
	assert.Equal(t, "level=debug msg=sorted ranking=rank1\nlevel=error msg=boom ranking=rank1 rows=3\n", buf.String())

	Level.SetByName("unknown")
	assert.True(t, Level.Enabled(slog.LevelDebug))
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Errorf("x")
		l.Attrs(slog.LevelInfo, "y")
		assert.Nil(t, l.With("a", 1))
	})
	Discard().Errorf("dropped")
}
