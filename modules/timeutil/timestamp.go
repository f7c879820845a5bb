// Copyright 2017 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package timeutil

import (
	"time"
)

// TimeStamp defines a timestamp
type TimeStamp int64

// mockNow is NOT concurrency-safe!!
var mockNow TimeStamp

// MockSet sets the time to a mocked time.Time
func MockSet(now time.Time) func() {
	mockNow = TimeStamp(now.Unix())
	return MockUnset
}

// MockUnset will unset the mocked time.Time
func MockUnset() {
	mockNow = 0
}

// TimeStampNow returns now int64
func TimeStampNow() TimeStamp {
	if !mockNow.IsZero() {
		return mockNow
	}
	return TimeStamp(time.Now().Unix())
}

// Add adds seconds and return sum
func (ts TimeStamp) Add(seconds int64) TimeStamp {
	return ts + TimeStamp(seconds)
}

// AsTime convert timestamp as time.Time in Local locale
func (ts TimeStamp) AsTime() (tm time.Time) {
	return ts.AsTimeInLocation(time.Local)
}

// AsTimeInLocation convert timestamp as time.Time in Local locale
func (ts TimeStamp) AsTimeInLocation(loc *time.Location) time.Time {
	return time.Unix(int64(ts), 0).In(loc)
}

// Format formats timestamp as given format
func (ts TimeStamp) Format(f string) string {
	return ts.AsTime().Format(f)
}

// IsZero is zero time
func (ts TimeStamp) IsZero() bool {
	return int64(ts) == 0
}
