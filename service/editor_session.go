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
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/client"
	"github.com/Netcracker/qubership-apihub-editor-session-service/entity"
	"github.com/Netcracker/qubership-apihub-editor-session-service/exception"
	"github.com/Netcracker/qubership-apihub-editor-session-service/repository"
	"github.com/Netcracker/qubership-apihub-editor-session-service/secctx"
	"github.com/Netcracker/qubership-apihub-editor-session-service/utils"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type EditorSessionService interface {
	OpenSession(ctx context.Context, req view.OpenSessionReq) (*view.EditorSession, error)
	GetSession(sessionId string) (*view.EditorSession, error)

	DocumentChanged(ctx context.Context, sessionId string, content json.RawMessage) error
	Save(ctx context.Context, sessionId string, format view.Encoding) (*view.SaveResult, error)
	SaveAndClose(ctx context.Context, sessionId string, format view.Encoding) (*view.SaveResult, error)
	Close(ctx context.Context, sessionId string) error
	Generate(ctx context.Context, sessionId string, config json.RawMessage) error
	SaveExt(ctx context.Context, sessionId string) error

	GetToast(sessionId string) (*view.Toast, error)
	DismissToast(sessionId string) error

	DocumentSource
}

func NewEditorSessionService(
	recoveryStore RecoveryStore,
	exportClient client.ExportClient,
	hostBridge client.HostBridge,
	sessionRepo repository.EditorSessionRepository,
	events SessionEventPublisher,
	toast ToastNotifier,
	recoveryQuietPeriod time.Duration) EditorSessionService {
	s := &editorSessionServiceImpl{
		exportClient: exportClient,
		hostBridge:   hostBridge,
		sessionRepo:  sessionRepo,
		events:       events,
		toast:        toast,
		sessions:     make(map[string]*editorSession),
	}
	s.recovery = NewRecoveryScheduler(recoveryStore, s, recoveryQuietPeriod)
	return s
}

type editorSessionServiceImpl struct {
	exportClient client.ExportClient
	hostBridge   client.HostBridge
	sessionRepo  repository.EditorSessionRepository
	events       SessionEventPublisher
	toast        ToastNotifier
	recovery     RecoveryScheduler

	mutex    sync.Mutex
	sessions map[string]*editorSession
}

// editorSession holds the per-session state owned by the controller. The live
// document belongs to the editing side; only the latest pushed value and the
// original content captured at session start are kept here.
type editorSession struct {
	id        string
	fileName  string
	encoding  view.Encoding
	embedded  bool
	userId    string
	createdAt time.Time

	original view.Document // captured at open, kept for diffing, never mutated
	current  view.Document

	generating   bool
	errorMessage string
	lastSavedAt  *time.Time
}

func (s *editorSessionServiceImpl) OpenSession(ctx context.Context, req view.OpenSessionReq) (*view.EditorSession, error) {
	if req.FileName == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "fileName"},
		}
	}

	doc, err := view.ResolveDocument(req.Content)
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		}
	}

	session := &editorSession{
		id:        uuid.New().String(),
		fileName:  req.FileName,
		encoding:  view.EncodingForFileName(req.FileName),
		embedded:  req.Embedded,
		userId:    secctx.GetUserId(ctx),
		createdAt: time.Now(),
		original:  doc,
		current:   doc,
	}

	ent := entity.EditorSession{
		Id:        session.id,
		FileName:  session.fileName,
		Encoding:  session.encoding,
		Embedded:  session.embedded,
		Status:    view.SessionStatusOpen,
		UserId:    session.userId,
		CreatedAt: session.createdAt,
	}
	if err := s.sessionRepo.SaveSession(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to register editor session: %w", err)
	}

	s.mutex.Lock()
	s.sessions[session.id] = session
	s.mutex.Unlock()

	log.Debugf("Editor session %s opened for file %s (%s)", session.id, session.fileName, session.encoding)

	result := makeSessionView(session)
	return &result, nil
}

func (s *editorSessionServiceImpl) GetSession(sessionId string) (*view.EditorSession, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, err := s.sessionLocked(sessionId)
	if err != nil {
		return nil, err
	}
	result := makeSessionView(session)
	return &result, nil
}

func (s *editorSessionServiceImpl) DocumentChanged(ctx context.Context, sessionId string, content json.RawMessage) error {
	doc, err := view.ResolveDocument(content)
	if err != nil {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		}
	}

	s.mutex.Lock()
	session, lookupErr := s.sessionLocked(sessionId)
	if lookupErr != nil {
		s.mutex.Unlock()
		return lookupErr
	}
	session.current = doc
	s.mutex.Unlock()

	s.recovery.DocumentChanged(sessionId)
	return nil
}

// Save serializes the current document, delivers it via the export transport
// and clears the recovery state on success. Transport failures propagate to
// the caller untouched; it is the caller's decision what happens next.
func (s *editorSessionServiceImpl) Save(ctx context.Context, sessionId string, format view.Encoding) (*view.SaveResult, error) {
	s.mutex.Lock()
	session, err := s.sessionLocked(sessionId)
	if err != nil {
		s.mutex.Unlock()
		return nil, err
	}
	doc := session.current
	s.mutex.Unlock()

	content, err := SerializeDocument(doc, format)
	if err != nil {
		return nil, err
	}

	fileName := view.SpecExportName(format)
	if err := s.exportClient.Deliver(ctx, content, format.ContentType(), fileName); err != nil {
		return nil, err
	}

	s.recovery.Clear(ctx, sessionId)

	savedAt := time.Now()
	s.mutex.Lock()
	if session, exists := s.sessions[sessionId]; exists {
		session.lastSavedAt = &savedAt
	}
	s.mutex.Unlock()

	utils.SafeAsync(func() {
		if err := s.sessionRepo.SetLastSaved(context.Background(), sessionId, savedAt); err != nil {
			log.Errorf("Failed to record last save for session %s: %s", sessionId, err)
		}
	})

	log.Debugf("Session %s saved as %s", sessionId, fileName)
	return &view.SaveResult{FileName: fileName}, nil
}

func (s *editorSessionServiceImpl) SaveAndClose(ctx context.Context, sessionId string, format view.Encoding) (*view.SaveResult, error) {
	result, err := s.Save(ctx, sessionId, format)
	if err != nil {
		// the session stays open, no close side effects on a failed save
		return nil, err
	}
	if err := s.Close(ctx, sessionId); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *editorSessionServiceImpl) Close(ctx context.Context, sessionId string) error {
	s.mutex.Lock()
	session, err := s.sessionLocked(sessionId)
	if err != nil {
		s.mutex.Unlock()
		return err
	}
	delete(s.sessions, sessionId)
	embedded := session.embedded
	s.mutex.Unlock()

	s.toast.Dismiss(sessionId)
	s.recovery.Clear(ctx, sessionId)

	closedAt := time.Now()
	utils.SafeAsync(func() {
		if err := s.sessionRepo.SetSessionStatus(context.Background(), sessionId, view.SessionStatusClosed, &closedAt); err != nil {
			log.Errorf("Failed to record closure of session %s: %s", sessionId, err)
		}
	})

	s.events.PublishClosed(sessionId)
	if embedded {
		s.hostBridge.Send("closed", nil)
	}

	log.Debugf("Editor session %s closed", sessionId)
	return nil
}

// Generate runs asynchronously: serialization or transport failures are
// converted into toast state, never returned to the HTTP caller.
func (s *editorSessionServiceImpl) Generate(ctx context.Context, sessionId string, config json.RawMessage) error {
	s.mutex.Lock()
	session, err := s.sessionLocked(sessionId)
	if err != nil {
		s.mutex.Unlock()
		return err
	}
	doc := session.current
	session.generating = true
	session.errorMessage = ""
	s.mutex.Unlock()

	s.toast.Dismiss(sessionId)

	// the generation backend always expects json, whatever the session encoding
	content, serErr := SerializeDocument(doc, view.JsonEncoding)
	if serErr != nil {
		s.completeGeneration(sessionId, serErr)
		return nil
	}

	utils.SafeAsync(func() {
		genErr := s.exportClient.GenerateAndExport(context.Background(), config, content, view.GenerationArchiveName)
		s.completeGeneration(sessionId, genErr)
	})
	return nil
}

func (s *editorSessionServiceImpl) completeGeneration(sessionId string, err error) {
	s.mutex.Lock()
	session, exists := s.sessions[sessionId]
	if !exists {
		s.mutex.Unlock()
		// the session closed while the generation was in flight
		log.Debugf("Discarding late generation result for session %s", sessionId)
		return
	}
	session.generating = false
	message := ""
	if err != nil {
		message = userFacingMessage(err)
		session.errorMessage = message
	}
	s.mutex.Unlock()

	if err != nil {
		log.Errorf("Generation failed for session %s: %s", sessionId, err)
		s.toast.ShowError(sessionId, message)
		return
	}
	s.toast.ShowSuccess(sessionId)
}

func (s *editorSessionServiceImpl) SaveExt(ctx context.Context, sessionId string) error {
	s.mutex.Lock()
	session, err := s.sessionLocked(sessionId)
	if err != nil {
		s.mutex.Unlock()
		return err
	}
	if !session.embedded {
		s.mutex.Unlock()
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.SessionNotEmbedded,
			Message: exception.SessionNotEmbeddedMsg,
			Params:  map[string]interface{}{"sessionId": sessionId},
		}
	}
	doc := session.current
	encoding := session.encoding
	s.mutex.Unlock()

	content, err := SerializeDocument(doc, encoding)
	if err != nil {
		return err
	}

	// the host owns persistence in embedded mode, recovery state stays as is
	s.hostBridge.Send("saved", view.HostDocumentMessage{
		FileName: view.SpecExportName(encoding),
		Content:  content,
	})
	return nil
}

func (s *editorSessionServiceImpl) GetToast(sessionId string) (*view.Toast, error) {
	s.mutex.Lock()
	_, err := s.sessionLocked(sessionId)
	s.mutex.Unlock()
	if err != nil {
		return nil, err
	}

	toast, _ := s.toast.Get(sessionId)
	return toast, nil
}

func (s *editorSessionServiceImpl) DismissToast(sessionId string) error {
	s.mutex.Lock()
	_, err := s.sessionLocked(sessionId)
	s.mutex.Unlock()
	if err != nil {
		return err
	}

	s.toast.Dismiss(sessionId)
	return nil
}

// GetCurrentValue implements DocumentSource for the recovery scheduler.
func (s *editorSessionServiceImpl) GetCurrentValue(sessionId string) (view.Document, view.Encoding, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session, exists := s.sessions[sessionId]
	if !exists {
		return view.Document{}, "", false
	}
	return session.current, session.encoding, true
}

func (s *editorSessionServiceImpl) sessionLocked(sessionId string) (*editorSession, error) {
	session, exists := s.sessions[sessionId]
	if !exists {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.SessionNotFound,
			Message: exception.SessionNotFoundMsg,
			Params:  map[string]interface{}{"sessionId": sessionId},
		}
	}
	return session, nil
}

func makeSessionView(session *editorSession) view.EditorSession {
	return view.EditorSession{
		Id:           session.id,
		FileName:     session.fileName,
		Encoding:     session.encoding,
		Status:       view.SessionStatusOpen,
		Embedded:     session.embedded,
		Generating:   session.generating,
		ErrorMessage: session.errorMessage,
		CreatedAt:    session.createdAt,
		LastSavedAt:  session.lastSavedAt,
	}
}

func userFacingMessage(err error) string {
	if te := view.AsTransportError(err); te != nil {
		return te.Message
	}
	return err.Error()
}
