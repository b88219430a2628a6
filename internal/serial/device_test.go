// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package serial

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/serialcli/pkg/errutil"
)

func TestOpenDevice_Existing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyFAKE0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	f, err := OpenDevice(context.Background(), path, 0)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestOpenDevice_MissingWithoutRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := OpenDevice(context.Background(), path, 0)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DEVICE_OPEN_FAILED")
	errutil.AssertErrorContext(t, err, "attempts", 1)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenDevice_WaitsForNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyUSB0")

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = os.WriteFile(path, nil, 0o600)
	}()

	f, err := OpenDevice(context.Background(), path, 10)
	require.NoError(t, err)
	_ = f.Close()
}

func TestOpenDevice_EmptyPath(t *testing.T) {
	_, err := OpenDevice(context.Background(), "", 3)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "INVALID_DEVICE")
}

func TestOpenDevice_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenDevice(ctx, filepath.Join(t.TempDir(), "never"), 100)
	require.Error(t, err)
}

func TestOpenDevice_NonRetryableError(t *testing.T) {
	// A directory cannot be opened for writing.
	_, err := OpenDevice(context.Background(), t.TempDir(), 5)
	require.Error(t, err)
	errutil.AssertErrorContext(t, err, "attempts", 1)
}
