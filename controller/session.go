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

package controller

import (
	"encoding/json"
	"net/http"

	"github.com/Netcracker/qubership-apihub-editor-session-service/exception"
	"github.com/Netcracker/qubership-apihub-editor-session-service/secctx"
	"github.com/Netcracker/qubership-apihub-editor-session-service/service"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	log "github.com/sirupsen/logrus"
)

type EditorSessionController interface {
	OpenSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	DocumentChanged(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	SaveAndClose(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	SaveExt(w http.ResponseWriter, r *http.Request)
	GetToast(w http.ResponseWriter, r *http.Request)
	DismissToast(w http.ResponseWriter, r *http.Request)
}

func NewEditorSessionController(sessionService service.EditorSessionService) EditorSessionController {
	return &editorSessionControllerImpl{sessionService: sessionService}
}

type editorSessionControllerImpl struct {
	sessionService service.EditorSessionService
}

func (e *editorSessionControllerImpl) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req view.OpenSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}

	ctx := secctx.MakeUserContext(r)
	session, err := e.sessionService.OpenSession(ctx, req)
	if err != nil {
		respondWithError(w, "Failed to open editor session", err)
		return
	}
	respondWithJson(w, http.StatusCreated, session)
}

func (e *editorSessionControllerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	session, err := e.sessionService.GetSession(sessionId)
	if err != nil {
		respondWithError(w, "Failed to get editor session", err)
		return
	}
	respondWithJson(w, http.StatusOK, session)
}

func (e *editorSessionControllerImpl) DocumentChanged(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	var req view.DocumentChangedReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}

	if err := e.sessionService.DocumentChanged(secctx.MakeUserContext(r), sessionId, req.Content); err != nil {
		respondWithError(w, "Failed to process document change", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (e *editorSessionControllerImpl) Save(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	format, err := view.ParseEncoding(r.URL.Query().Get("format"))
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "format", "value": r.URL.Query().Get("format")},
		})
		return
	}

	result, err := e.sessionService.Save(secctx.MakeUserContext(r), sessionId, format)
	if err != nil {
		e.respondWithSessionError(w, "Failed to save document", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (e *editorSessionControllerImpl) SaveAndClose(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	format, err := view.ParseEncoding(r.URL.Query().Get("format"))
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "format", "value": r.URL.Query().Get("format")},
		})
		return
	}

	result, err := e.sessionService.SaveAndClose(secctx.MakeUserContext(r), sessionId, format)
	if err != nil {
		e.respondWithSessionError(w, "Failed to save and close session", err)
		return
	}
	respondWithJson(w, http.StatusOK, result)
}

func (e *editorSessionControllerImpl) Close(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	if err := e.sessionService.Close(secctx.MakeUserContext(r), sessionId); err != nil {
		respondWithError(w, "Failed to close editor session", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (e *editorSessionControllerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	var req view.GenerateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}

	if err := e.sessionService.Generate(secctx.MakeUserContext(r), sessionId, req.Config); err != nil {
		respondWithError(w, "Failed to start generation", err)
		return
	}

	log.Debugf("Generation started for session %s", sessionId)
	w.WriteHeader(http.StatusAccepted)
}

func (e *editorSessionControllerImpl) SaveExt(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	if err := e.sessionService.SaveExt(secctx.MakeUserContext(r), sessionId); err != nil {
		e.respondWithSessionError(w, "Failed to save document via host channel", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (e *editorSessionControllerImpl) GetToast(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	toast, err := e.sessionService.GetToast(sessionId)
	if err != nil {
		respondWithError(w, "Failed to get toast state", err)
		return
	}
	if toast == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJson(w, http.StatusOK, toast)
}

func (e *editorSessionControllerImpl) DismissToast(w http.ResponseWriter, r *http.Request) {
	sessionId := getStringParam(r, "sessionId")

	if err := e.sessionService.DismissToast(sessionId); err != nil {
		respondWithError(w, "Failed to dismiss toast", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// respondWithSessionError maps the typed save/export errors to their HTTP
// shape before falling back to the generic responder.
func (e *editorSessionControllerImpl) respondWithSessionError(w http.ResponseWriter, msg string, err error) {
	if se := view.AsSerializationError(err); se != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.DocumentNotSerializable,
			Message: exception.DocumentNotSerializableMsg,
			Params:  map[string]interface{}{"encoding": se.Encoding},
			Debug:   se.Error(),
		})
		return
	}
	if te := view.AsTransportError(err); te != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadGateway,
			Code:    exception.ExportDeliveryFailed,
			Message: exception.ExportDeliveryFailedMsg,
			Params:  map[string]interface{}{"reason": te.Message},
			Debug:   te.Error(),
		})
		return
	}
	respondWithError(w, msg, err)
}
