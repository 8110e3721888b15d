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
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/entity"
	"github.com/Netcracker/qubership-apihub-editor-session-service/exception"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliveredFile struct {
	content     string
	contentType string
	fileName    string
}

type fakeExportClient struct {
	mutex        sync.Mutex
	deliverErr   error
	generateErr  error
	generateGate chan struct{} // when set, GenerateAndExport blocks until closed
	delivered    []deliveredFile
	generated    []string
}

func (f *fakeExportClient) Deliver(ctx context.Context, content string, contentType string, fileName string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.deliverErr != nil {
		return f.deliverErr
	}
	f.delivered = append(f.delivered, deliveredFile{content: content, contentType: contentType, fileName: fileName})
	return nil
}

func (f *fakeExportClient) GenerateAndExport(ctx context.Context, config json.RawMessage, content string, fileName string) error {
	f.mutex.Lock()
	gate := f.generateGate
	f.mutex.Unlock()
	if gate != nil {
		<-gate
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.generateErr != nil {
		return f.generateErr
	}
	f.generated = append(f.generated, fileName)
	return nil
}

func (f *fakeExportClient) deliveredFiles() []deliveredFile {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]deliveredFile{}, f.delivered...)
}

type fakeSessionEvents struct {
	mutex  sync.Mutex
	closed []string
}

func (f *fakeSessionEvents) Start() {}

func (f *fakeSessionEvents) PublishClosed(sessionId string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closed = append(f.closed, sessionId)
}

func (f *fakeSessionEvents) closedSessions() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string{}, f.closed...)
}

type hostMessage struct {
	kind    string
	payload interface{}
}

type fakeHostBridge struct {
	mutex    sync.Mutex
	messages []hostMessage
}

func (f *fakeHostBridge) Send(kind string, payload interface{}) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.messages = append(f.messages, hostMessage{kind: kind, payload: payload})
}

func (f *fakeHostBridge) sent() []hostMessage {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]hostMessage{}, f.messages...)
}

type fakeSessionRepository struct{}

func (f *fakeSessionRepository) SaveSession(ctx context.Context, ent entity.EditorSession) error {
	return nil
}

func (f *fakeSessionRepository) SetSessionStatus(ctx context.Context, id string, status view.SessionStatus, closedAt *time.Time) error {
	return nil
}

func (f *fakeSessionRepository) SetLastSaved(ctx context.Context, id string, savedAt time.Time) error {
	return nil
}

type sessionFixture struct {
	service EditorSessionService
	store   *fakeRecoveryStore
	export  *fakeExportClient
	bridge  *fakeHostBridge
	events  *fakeSessionEvents
	toasts  ToastNotifier
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		store:  &fakeRecoveryStore{},
		export: &fakeExportClient{},
		bridge: &fakeHostBridge{},
		events: &fakeSessionEvents{},
		toasts: NewToastNotifier(time.Hour),
	}
	f.service = NewEditorSessionService(f.store, f.export, f.bridge, &fakeSessionRepository{}, f.events, f.toasts, 20*time.Millisecond)
	return f
}

func (f *sessionFixture) open(t *testing.T, fileName string, content string, embedded bool) string {
	t.Helper()
	session, err := f.service.OpenSession(context.Background(), view.OpenSessionReq{
		FileName: fileName,
		Content:  json.RawMessage(content),
		Embedded: embedded,
	})
	require.NoError(t, err)
	return session.Id
}

func requireCustomError(t *testing.T, err error, code string) {
	t.Helper()
	var customError *exception.CustomError
	require.True(t, errors.As(err, &customError), "expected CustomError, got %v", err)
	require.Equal(t, code, customError.Code)
}

func TestOpenSession(t *testing.T) {
	f := newSessionFixture()

	session, err := f.service.OpenSession(context.Background(), view.OpenSessionReq{
		FileName: "petstore.yaml",
		Content:  json.RawMessage(`{"openapi":"3.0.0"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Id)
	assert.Equal(t, "petstore.yaml", session.FileName)
	assert.Equal(t, view.YamlEncoding, session.Encoding)
	assert.Equal(t, view.SessionStatusOpen, session.Status)
	assert.False(t, session.Generating)

	fetched, err := f.service.GetSession(session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, fetched.Id)
}

func TestOpenSessionRequiresFileName(t *testing.T) {
	f := newSessionFixture()

	_, err := f.service.OpenSession(context.Background(), view.OpenSessionReq{
		Content: json.RawMessage(`{}`),
	})
	requireCustomError(t, err, exception.RequiredParamsMissing)
}

func TestGetSessionNotFound(t *testing.T) {
	f := newSessionFixture()

	_, err := f.service.GetSession("missing")
	requireCustomError(t, err, exception.SessionNotFound)
}

func TestSaveDeliversAndClearsRecovery(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, false)

	result, err := f.service.Save(context.Background(), sessionId, view.JsonEncoding)
	require.NoError(t, err)
	assert.Equal(t, view.SpecExportNameJson, result.FileName)

	files := f.export.deliveredFiles()
	require.Len(t, files, 1)
	assert.Equal(t, view.SpecExportNameJson, files[0].fileName)
	assert.Equal(t, "application/json", files[0].contentType)
	assert.Contains(t, files[0].content, `"openapi": "3.0.0"`)

	assert.Equal(t, 1, f.store.clearCount(), "successful save must clear the recovery snapshot")

	require.Eventually(t, func() bool {
		session, err := f.service.GetSession(sessionId)
		return err == nil && session.LastSavedAt != nil
	}, time.Second, 10*time.Millisecond)
}

func TestSaveUsesLatestDocument(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, false)

	err := f.service.DocumentChanged(context.Background(), sessionId, json.RawMessage(`{"openapi":"3.0.1"}`))
	require.NoError(t, err)

	_, err = f.service.Save(context.Background(), sessionId, view.JsonEncoding)
	require.NoError(t, err)

	files := f.export.deliveredFiles()
	require.Len(t, files, 1)
	assert.Contains(t, files[0].content, `"openapi": "3.0.1"`)
}

func TestSaveTransportErrorPropagates(t *testing.T) {
	f := newSessionFixture()
	f.export.deliverErr = &view.TransportError{Operation: "export", Message: "service unavailable"}
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, false)

	_, err := f.service.Save(context.Background(), sessionId, view.JsonEncoding)
	require.Error(t, err)
	transportError := view.AsTransportError(err)
	require.NotNil(t, transportError)
	assert.Equal(t, "service unavailable", transportError.Message)

	// the session survives a failed save
	_, err = f.service.GetSession(sessionId)
	require.NoError(t, err)
	assert.Zero(t, f.store.clearCount())
}

func TestSaveAndClose(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, false)

	result, err := f.service.SaveAndClose(context.Background(), sessionId, view.JsonEncoding)
	require.NoError(t, err)
	assert.Equal(t, view.SpecExportNameJson, result.FileName)

	_, err = f.service.GetSession(sessionId)
	requireCustomError(t, err, exception.SessionNotFound)
	assert.Equal(t, []string{sessionId}, f.events.closedSessions())
}

func TestSaveAndCloseKeepsSessionOnFailure(t *testing.T) {
	f := newSessionFixture()
	f.export.deliverErr = &view.TransportError{Operation: "export", Message: "rejected"}
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, true)

	_, err := f.service.SaveAndClose(context.Background(), sessionId, view.JsonEncoding)
	require.Error(t, err)

	_, err = f.service.GetSession(sessionId)
	require.NoError(t, err, "session must stay open after a failed save")
	assert.Empty(t, f.events.closedSessions())
	assert.Empty(t, f.bridge.sent())
}

func TestCloseEmbeddedNotifiesHost(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, true)

	require.NoError(t, f.service.Close(context.Background(), sessionId))

	messages := f.bridge.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "closed", messages[0].kind)
	assert.Equal(t, []string{sessionId}, f.events.closedSessions())
}

func TestCloseStandaloneSkipsHost(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, false)

	require.NoError(t, f.service.Close(context.Background(), sessionId))
	assert.Empty(t, f.bridge.sent())
}

func TestGenerateSuccess(t *testing.T) {
	f := newSessionFixture()
	gate := make(chan struct{})
	f.export.generateGate = gate
	sessionId := f.open(t, "petstore.yaml", `{"openapi":"3.0.0"}`, false)

	require.NoError(t, f.service.Generate(context.Background(), sessionId, json.RawMessage(`{"runtime":"quarkus"}`)))

	session, err := f.service.GetSession(sessionId)
	require.NoError(t, err)
	assert.True(t, session.Generating)

	close(gate)

	require.Eventually(t, func() bool {
		toast, exists := f.toasts.Get(sessionId)
		return exists && toast.Level == view.ToastSuccess
	}, time.Second, 10*time.Millisecond)

	session, err = f.service.GetSession(sessionId)
	require.NoError(t, err)
	assert.False(t, session.Generating)
	assert.Empty(t, session.ErrorMessage)
}

func TestGenerateFailureShowsErrorToast(t *testing.T) {
	f := newSessionFixture()
	f.export.generateErr = &view.TransportError{Operation: "generate", Message: "quota exceeded"}
	sessionId := f.open(t, "petstore.yaml", `{"openapi":"3.0.0"}`, false)

	require.NoError(t, f.service.Generate(context.Background(), sessionId, json.RawMessage(`{}`)))

	require.Eventually(t, func() bool {
		toast, exists := f.toasts.Get(sessionId)
		return exists && toast.Level == view.ToastError && toast.Message == "quota exceeded"
	}, time.Second, 10*time.Millisecond, "rejection reason must surface in the toast")

	session, err := f.service.GetSession(sessionId)
	require.NoError(t, err)
	assert.False(t, session.Generating)
	assert.Equal(t, "quota exceeded", session.ErrorMessage)
}

func TestGenerateResultAfterCloseIsDiscarded(t *testing.T) {
	f := newSessionFixture()
	gate := make(chan struct{})
	f.export.generateGate = gate
	sessionId := f.open(t, "petstore.yaml", `{"openapi":"3.0.0"}`, false)

	require.NoError(t, f.service.Generate(context.Background(), sessionId, json.RawMessage(`{}`)))
	require.NoError(t, f.service.Close(context.Background(), sessionId))

	close(gate)

	time.Sleep(100 * time.Millisecond)
	_, exists := f.toasts.Get(sessionId)
	assert.False(t, exists, "a result for a closed session must leave no toast behind")
}

func TestSaveExtRequiresEmbedded(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.yaml", `{"openapi":"3.0.0"}`, false)

	err := f.service.SaveExt(context.Background(), sessionId)
	requireCustomError(t, err, exception.SessionNotEmbedded)
}

func TestSaveExtSendsDocumentToHost(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.yaml", `{"openapi":"3.0.0"}`, true)

	require.NoError(t, f.service.SaveExt(context.Background(), sessionId))

	messages := f.bridge.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "saved", messages[0].kind)

	document, ok := messages[0].payload.(view.HostDocumentMessage)
	require.True(t, ok)
	assert.Equal(t, view.SpecExportNameYaml, document.FileName)
	assert.Contains(t, document.Content, "openapi: 3.0.0")

	// the host owns persistence in embedded mode
	assert.Zero(t, f.store.clearCount())
	assert.Empty(t, f.export.deliveredFiles())
}

func TestToastLifecycleThroughService(t *testing.T) {
	f := newSessionFixture()
	f.export.generateErr = &view.TransportError{Operation: "generate", Message: "failed"}
	sessionId := f.open(t, "petstore.yaml", `{"openapi":"3.0.0"}`, false)

	require.NoError(t, f.service.Generate(context.Background(), sessionId, json.RawMessage(`{}`)))

	require.Eventually(t, func() bool {
		toast, err := f.service.GetToast(sessionId)
		return err == nil && toast != nil && toast.Level == view.ToastError
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, f.service.DismissToast(sessionId))

	toast, err := f.service.GetToast(sessionId)
	require.NoError(t, err)
	assert.Nil(t, toast)
}

func TestDocumentChangedSchedulesRecoverySnapshot(t *testing.T) {
	f := newSessionFixture()
	sessionId := f.open(t, "petstore.json", `{"openapi":"3.0.0"}`, false)

	require.NoError(t, f.service.DocumentChanged(context.Background(), sessionId, json.RawMessage(`{"openapi":"3.0.1"}`)))

	require.Eventually(t, func() bool {
		return f.store.putCount() == 1
	}, time.Second, 10*time.Millisecond)

	f.store.mutex.Lock()
	snapshot := f.store.puts[0]
	f.store.mutex.Unlock()
	assert.Equal(t, sessionId, snapshot.SessionId)
	assert.Equal(t, view.JsonEncoding, snapshot.Encoding)
	assert.Contains(t, snapshot.Content, `"openapi": "3.0.1"`)
}
