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
	"testing"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecoveryStore struct {
	mutex   sync.Mutex
	puts    []view.RecoverySnapshot
	cleared []string
}

func (f *fakeRecoveryStore) Put(ctx context.Context, snapshot view.RecoverySnapshot) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.puts = append(f.puts, snapshot)
	return nil
}

func (f *fakeRecoveryStore) Clear(ctx context.Context, sessionId string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.cleared = append(f.cleared, sessionId)
	return nil
}

func (f *fakeRecoveryStore) putCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.puts)
}

func (f *fakeRecoveryStore) clearCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.cleared)
}

type fakeDocumentSource struct {
	mutex sync.Mutex
	docs  map[string]view.Document
}

func (f *fakeDocumentSource) set(sessionId string, doc view.Document) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.docs[sessionId] = doc
}

func (f *fakeDocumentSource) GetCurrentValue(sessionId string) (view.Document, view.Encoding, bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	doc, exists := f.docs[sessionId]
	if !exists {
		return view.Document{}, "", false
	}
	return doc, view.JsonEncoding, true
}

func TestRecoverySchedulerDebouncesEdits(t *testing.T) {
	store := &fakeRecoveryStore{}
	source := &fakeDocumentSource{docs: map[string]view.Document{
		"s1": {Kind: view.RawTextDocument, Text: "content"},
	}}
	scheduler := NewRecoveryScheduler(store, source, 60*time.Millisecond)

	// a burst of edits, each within the quiet period of the previous one
	for i := 0; i < 5; i++ {
		scheduler.DocumentChanged("s1")
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return store.putCount() == 1
	}, time.Second, 10*time.Millisecond, "exactly one snapshot expected after the quiet period")

	// no trailing writes once the burst settled
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, store.putCount())

	store.mutex.Lock()
	snapshot := store.puts[0]
	store.mutex.Unlock()
	assert.Equal(t, "s1", snapshot.SessionId)
	assert.Equal(t, "content", snapshot.Content)
	assert.Equal(t, view.JsonEncoding, snapshot.Encoding)
	assert.NotZero(t, snapshot.TakenAt)
}

func TestRecoverySchedulerClearCancelsPendingWrite(t *testing.T) {
	store := &fakeRecoveryStore{}
	source := &fakeDocumentSource{docs: map[string]view.Document{
		"s1": {Kind: view.RawTextDocument, Text: "content"},
	}}
	scheduler := NewRecoveryScheduler(store, source, 50*time.Millisecond)

	scheduler.DocumentChanged("s1")
	scheduler.Clear(context.Background(), "s1")

	require.Equal(t, 1, store.clearCount())

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, store.putCount(), "cancelled snapshot must not be written")
}

func TestRecoverySchedulerSkipsGoneSession(t *testing.T) {
	store := &fakeRecoveryStore{}
	source := &fakeDocumentSource{docs: map[string]view.Document{}}
	scheduler := NewRecoveryScheduler(store, source, 20*time.Millisecond)

	scheduler.DocumentChanged("unknown")

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, store.putCount())
}

func TestRecoverySchedulerSkipsUnchangedContent(t *testing.T) {
	store := &fakeRecoveryStore{}
	source := &fakeDocumentSource{docs: map[string]view.Document{
		"s1": {Kind: view.RawTextDocument, Text: "content"},
	}}
	scheduler := NewRecoveryScheduler(store, source, 30*time.Millisecond)

	scheduler.DocumentChanged("s1")
	require.Eventually(t, func() bool {
		return store.putCount() == 1
	}, time.Second, 10*time.Millisecond)

	// an edit that ends up at the identical content writes nothing
	scheduler.DocumentChanged("s1")
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, store.putCount())

	source.set("s1", view.Document{Kind: view.RawTextDocument, Text: "changed"})
	scheduler.DocumentChanged("s1")
	require.Eventually(t, func() bool {
		return store.putCount() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRecoverySchedulerIndependentSessions(t *testing.T) {
	store := &fakeRecoveryStore{}
	source := &fakeDocumentSource{docs: map[string]view.Document{
		"s1": {Kind: view.RawTextDocument, Text: "one"},
		"s2": {Kind: view.RawTextDocument, Text: "two"},
	}}
	scheduler := NewRecoveryScheduler(store, source, 40*time.Millisecond)

	scheduler.DocumentChanged("s1")
	scheduler.DocumentChanged("s2")

	require.Eventually(t, func() bool {
		return store.putCount() == 2
	}, time.Second, 10*time.Millisecond)

	store.mutex.Lock()
	sessions := map[string]bool{}
	for _, snapshot := range store.puts {
		sessions[snapshot.SessionId] = true
	}
	store.mutex.Unlock()
	assert.True(t, sessions["s1"])
	assert.True(t, sessions["s2"])
}
