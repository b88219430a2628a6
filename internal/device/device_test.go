// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package device

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/serialcli/pkg/errutil"
)

func TestStore_SetGet(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Set("baud", "115200"))
	v, ok := s.Get("baud")
	require.True(t, ok)
	assert.Equal(t, "115200", v)

	require.NoError(t, s.Set("baud", "9600"))
	v, _ = s.Get("baud")
	assert.Equal(t, "9600", v)
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_SetEmptyKey(t *testing.T) {
	err := NewStore().Set("", "x")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeInvalidKey)
}

func TestStore_Full(t *testing.T) {
	s := NewStore()
	for i := 0; i < MaxKeys; i++ {
		require.NoError(t, s.Set(fmt.Sprintf("k%d", i), "v"))
	}

	err := s.Set("overflow", "v")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeStoreFull)

	// Overwriting an existing key still works when full.
	assert.NoError(t, s.Set("k0", "new"))
}

func TestStore_Match(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("sensor.temp", "21"))
	require.NoError(t, s.Set("sensor.hum", "40"))
	require.NoError(t, s.Set("sensor.temp.max", "30"))
	require.NoError(t, s.Set("net.ip", "10.0.0.2"))

	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: "sensor.*", want: []string{"sensor.hum", "sensor.temp"}},
		{pattern: "sensor.**", want: []string{"sensor.hum", "sensor.temp", "sensor.temp.max"}},
		{pattern: "net.ip", want: []string{"net.ip"}},
		{pattern: "*.ip", want: []string{"net.ip"}},
		{pattern: "missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			regs, err := s.Match(tt.pattern)
			require.NoError(t, err)
			var keys []string
			for _, r := range regs {
				keys = append(keys, r.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestStore_MatchInvalidPattern(t *testing.T) {
	_, err := NewStore().Match("sensor.[")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeInvalidPattern)
}

func TestStore_LED(t *testing.T) {
	s := NewStore()
	assert.False(t, s.LED())

	s.SetLED(true)
	assert.True(t, s.LED())

	assert.False(t, s.ToggleLED())
	assert.True(t, s.ToggleLED())
}

func TestStore_Uptime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(func() time.Time { return now }))

	now = now.Add(90 * time.Second)
	assert.Equal(t, 90*time.Second, s.Uptime())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Set(fmt.Sprintf("w%d", n), fmt.Sprint(j))
				_, _ = s.Get(fmt.Sprintf("w%d", n))
				s.ToggleLED()
				_, _ = s.Match("w*")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, s.Len())
}
