//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of Benner.
//
// Benner is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Benner is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Benner. If not, see https://www.gnu.org/licenses/.

package core

import (
	"errors"
	"fmt"
)

// Event keys understood by the job.
const (
	EventKeyBucket    = "bucket"
	EventKeyTableName = "tableName"
	EventKeyBenner    = "benner"
)

// ErrMissingBucket is returned when an event carries no usable bucket name.
var ErrMissingBucket = errors.New("event has no bucket")

// Event is the job-event record passed between the steps of a larger workflow.
// Keys other than bucket are carried through untouched.
type Event map[string]interface{}

// Bucket returns the object-storage bucket named by the event.
func (e Event) Bucket() (string, error) {
	raw, ok := e[EventKeyBucket]
	if !ok {
		return "", ErrMissingBucket
	}
	bucket, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: bucket is %T, not string", ErrMissingBucket, raw)
	}
	if bucket == "" {
		return "", fmt.Errorf("%w: bucket is empty", ErrMissingBucket)
	}
	return bucket, nil
}

// TableName returns the tableName key, or "" when absent.
func (e Event) TableName() string {
	name, _ := e[EventKeyTableName].(string)
	return name
}

// With returns a shallow copy of the event with key set to value.
// The receiver is never modified.
func (e Event) With(key string, value interface{}) Event {
	out := make(Event, len(e)+1)
	for k, v := range e {
		out[k] = v
	}
	out[key] = value
	return out
}
