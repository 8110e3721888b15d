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

package service

import (
	"sync"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
)

// ToastNotifier keeps at most one transient banner per session. Success
// banners dismiss themselves after the configured period; error banners stay
// until the user dismisses them, so a failure is never missed.
type ToastNotifier interface {
	ShowSuccess(sessionId string)
	ShowError(sessionId string, message string)
	Dismiss(sessionId string)
	Get(sessionId string) (*view.Toast, bool)
}

func NewToastNotifier(dismissAfter time.Duration) ToastNotifier {
	return &toastNotifierImpl{
		dismissAfter: dismissAfter,
		toasts:       make(map[string]*toastEntry),
	}
}

type toastEntry struct {
	toast view.Toast
	timer *time.Timer // set for success toasts only
}

type toastNotifierImpl struct {
	dismissAfter time.Duration

	mutex  sync.Mutex
	toasts map[string]*toastEntry
}

func (t *toastNotifierImpl) ShowSuccess(sessionId string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.cancelTimerLocked(sessionId)
	entry := &toastEntry{toast: view.Toast{Level: view.ToastSuccess}}
	entry.timer = time.AfterFunc(t.dismissAfter, func() {
		t.expire(sessionId, entry)
	})
	t.toasts[sessionId] = entry
}

func (t *toastNotifierImpl) ShowError(sessionId string, message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.cancelTimerLocked(sessionId)
	t.toasts[sessionId] = &toastEntry{toast: view.Toast{Level: view.ToastError, Message: message}}
}

func (t *toastNotifierImpl) Dismiss(sessionId string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.cancelTimerLocked(sessionId)
	delete(t.toasts, sessionId)
}

func (t *toastNotifierImpl) Get(sessionId string) (*view.Toast, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	entry, exists := t.toasts[sessionId]
	if !exists {
		return nil, false
	}
	toast := entry.toast
	return &toast, true
}

// expire only removes the entry it was armed for, so a stale timer can not
// clear a newer toast.
func (t *toastNotifierImpl) expire(sessionId string, entry *toastEntry) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if current, exists := t.toasts[sessionId]; exists && current == entry {
		delete(t.toasts, sessionId)
	}
}

func (t *toastNotifierImpl) cancelTimerLocked(sessionId string) {
	if entry, exists := t.toasts[sessionId]; exists && entry.timer != nil {
		entry.timer.Stop()
	}
}
