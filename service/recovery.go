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
	"context"
	"sync"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/utils"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	log "github.com/sirupsen/logrus"
)

// RecoveryScheduler debounces disaster-recovery persistence of unsaved edits.
// A snapshot is written only after the quiet period has elapsed since the last
// edit; every new edit restarts the wait.
type RecoveryScheduler interface {
	DocumentChanged(sessionId string)
	Clear(ctx context.Context, sessionId string)
}

// DocumentSource is a synchronous read of the live document state, owned by
// the editing side.
type DocumentSource interface {
	GetCurrentValue(sessionId string) (view.Document, view.Encoding, bool)
}

type RecoveryStore interface {
	Put(ctx context.Context, snapshot view.RecoverySnapshot) error
	Clear(ctx context.Context, sessionId string) error
}

func NewRecoveryScheduler(store RecoveryStore, docs DocumentSource, quietPeriod time.Duration) RecoveryScheduler {
	return &recoverySchedulerImpl{
		store:       store,
		docs:        docs,
		quietPeriod: quietPeriod,
		timers:      make(map[string]*time.Timer),
		hashes:      make(map[string]string),
	}
}

type recoverySchedulerImpl struct {
	store       RecoveryStore
	docs        DocumentSource
	quietPeriod time.Duration

	mutex  sync.Mutex
	timers map[string]*time.Timer // at most one pending timer per session
	hashes map[string]string      // content hash of the last persisted snapshot
}

func (r *recoverySchedulerImpl) DocumentChanged(sessionId string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if timer, exists := r.timers[sessionId]; exists {
		timer.Stop()
	}
	r.timers[sessionId] = time.AfterFunc(r.quietPeriod, func() {
		r.persist(sessionId)
	})
}

func (r *recoverySchedulerImpl) Clear(ctx context.Context, sessionId string) {
	r.mutex.Lock()
	if timer, exists := r.timers[sessionId]; exists {
		timer.Stop()
		delete(r.timers, sessionId)
	}
	delete(r.hashes, sessionId)
	r.mutex.Unlock()

	if err := r.store.Clear(ctx, sessionId); err != nil {
		log.Errorf("Failed to clear recovery snapshot for session %s: %s", sessionId, err)
	}
}

func (r *recoverySchedulerImpl) persist(sessionId string) {
	r.mutex.Lock()
	delete(r.timers, sessionId)
	r.mutex.Unlock()

	doc, encoding, exists := r.docs.GetCurrentValue(sessionId)
	if !exists {
		log.Debugf("Session %s is gone, recovery snapshot skipped", sessionId)
		return
	}

	content, err := SerializeDocument(doc, encoding)
	if err != nil {
		log.Errorf("Failed to serialize recovery snapshot for session %s: %s", sessionId, err)
		return
	}

	hash := utils.CreateSHA256Hash([]byte(content))
	r.mutex.Lock()
	unchanged := r.hashes[sessionId] == hash
	r.mutex.Unlock()
	if unchanged {
		log.Debugf("Session %s content unchanged since last snapshot, write skipped", sessionId)
		return
	}

	snapshot := view.RecoverySnapshot{
		SessionId: sessionId,
		Encoding:  encoding,
		Content:   content,
		TakenAt:   time.Now().Unix(),
	}

	// Recovery is best effort: a missed snapshot must never interrupt the
	// editing session.
	if err := r.store.Put(context.Background(), snapshot); err != nil {
		writeErr := &view.RecoveryWriteError{SessionId: sessionId, Cause: err}
		log.Errorf("%s", writeErr)
		return
	}

	r.mutex.Lock()
	r.hashes[sessionId] = hash
	r.mutex.Unlock()
}
