// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// SafeAsync runs f in a goroutine and recovers any panic so that a failing
// background task never takes the whole process down.
func SafeAsync(f func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("Async task failed with panic: %v", err)
				log.Tracef("Stacktrace: %v", string(debug.Stack()))
			}
		}()
		f()
	}()
}
