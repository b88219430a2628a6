// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package serial

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// TransportDevice labels sessions on a character device.
const TransportDevice = "device"

// Retry timing for OpenDevice. USB serial adapters take a moment to
// enumerate after being plugged in.
const (
	openBackoffBase = 100 * time.Millisecond
	openBackoffCap  = 2 * time.Second
)

// OpenDevice opens a character device such as /dev/ttyUSB0 for reading and
// writing. While the node does not exist yet it retries up to retries times
// with capped exponential backoff. Line settings (baud rate, parity) are
// left as configured by the OS.
func OpenDevice(ctx context.Context, path string, retries int) (*os.File, error) {
	if path == "" {
		return nil, oops.Code("INVALID_DEVICE").Errorf("device path cannot be empty")
	}
	if retries < 0 {
		retries = 0
	}

	backoff := retry.WithMaxRetries(uint64(retries),
		retry.WithCappedDuration(openBackoffCap, retry.NewExponential(openBackoffBase)))

	var f *os.File
	attempt := 0
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		attempt++
		var openErr error
		f, openErr = os.OpenFile(path, os.O_RDWR, 0)
		if openErr == nil {
			return nil
		}
		if errors.Is(openErr, fs.ErrNotExist) {
			slog.Debug("device not present, retrying", "device", path, "attempt", attempt)
			return retry.RetryableError(openErr)
		}
		return openErr
	})
	if err != nil {
		return nil, oops.Code("DEVICE_OPEN_FAILED").
			With("device", path).
			With("attempts", attempt).
			Wrap(err)
	}
	return f, nil
}
