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

package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/client"
	"github.com/Netcracker/qubership-apihub-editor-session-service/controller"
	"github.com/Netcracker/qubership-apihub-editor-session-service/db"
	"github.com/Netcracker/qubership-apihub-editor-session-service/repository"
	"github.com/Netcracker/qubership-apihub-editor-session-service/security"
	"github.com/Netcracker/qubership-apihub-editor-session-service/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func main() {
	readyChan := make(chan bool)
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}

	logLevel, err := log.ParseLevel(systemInfoService.GetLogLevel())
	if err == nil {
		log.SetLevel(logLevel)
	}

	healthController := controller.NewHealthController(readyChan)

	apihubClient := client.NewApihubClient(systemInfoService.GetApihubUrl(), systemInfoService.GetAccessToken())

	olricProvider, err := client.NewOlricProvider(
		systemInfoService.GetOlricDiscoveryMode(),
		systemInfoService.GetReplicaCount(),
		systemInfoService.GetNamespace(),
		systemInfoService.GetApihubUrl())
	if err != nil {
		panic(err)
	}

	connectionProvider := db.NewConnectionProvider(
		systemInfoService.GetPGHost(),
		systemInfoService.GetPGPort(),
		systemInfoService.GetPGDB(),
		systemInfoService.GetPGUser(),
		systemInfoService.GetPGPassword())
	sessionRepository := repository.NewEditorSessionRepository(connectionProvider)

	recoveryStore := service.NewRecoveryStore(olricProvider)
	toastNotifier := service.NewToastNotifier(systemInfoService.GetToastDismissPeriod())

	sessionEventPublisher := service.NewSessionEventPublisher(olricProvider)
	sessionEventPublisher.Start()

	exportClient := client.NewExportClient(
		systemInfoService.GetApihubUrl(),
		systemInfoService.GetGeneratorUrl(),
		systemInfoService.GetAccessToken())
	hostBridge := client.NewHostBridge(systemInfoService.GetHostCallbackUrl())

	sessionService := service.NewEditorSessionService(
		recoveryStore,
		exportClient,
		hostBridge,
		sessionRepository,
		sessionEventPublisher,
		toastNotifier,
		systemInfoService.GetRecoveryDebouncePeriod())

	sessionController := controller.NewEditorSessionController(sessionService)
	schemaController := controller.NewGenerationSchemaController()

	if err := security.SetupGoGuardian(apihubClient); err != nil {
		log.Fatalf("Failed to setup go-guardian: %s", err)
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/editor/sessions", security.Secure(sessionController.OpenSession)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}", security.Secure(sessionController.GetSession)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/events/document-changed", security.Secure(sessionController.DocumentChanged)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/save", security.Secure(sessionController.Save)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/save-and-close", security.Secure(sessionController.SaveAndClose)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/close", security.Secure(sessionController.Close)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/generate", security.Secure(sessionController.Generate)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/save-ext", security.Secure(sessionController.SaveExt)).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/toast", security.Secure(sessionController.GetToast)).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/editor/sessions/{sessionId}/toast", security.Secure(sessionController.DismissToast)).Methods(http.MethodDelete)
	router.HandleFunc("/api/v1/editor/generation-config/schema", security.Secure(schemaController.GetGenerationConfigSchema)).Methods(http.MethodGet)

	router.HandleFunc("/live", security.NoSecure(healthController.HandleLiveRequest)).Methods(http.MethodGet)
	router.HandleFunc("/ready", security.NoSecure(healthController.HandleReadyRequest)).Methods(http.MethodGet)
	readyChan <- true
	close(readyChan)

	debug.SetGCPercent(30)

	srv := makeServer(systemInfoService, router)
	log.Fatalf("%v", srv.ListenAndServe())
}

func makeServer(systemInfoService service.SystemInfoService, r *mux.Router) *http.Server {
	listenAddr := systemInfoService.GetListenAddress()

	log.Infof("Listen addr = %s", listenAddr)

	var corsOptions []handlers.CORSOption

	corsOptions = append(corsOptions, handlers.AllowedHeaders([]string{"Connection", "Accept-Encoding", "Content-Encoding", "X-Requested-With", "Content-Type", "Authorization", "api-key"}))

	allowedOrigin := systemInfoService.GetOriginAllowed()
	if allowedOrigin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{allowedOrigin}))
	}
	corsOptions = append(corsOptions, handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}))

	return &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(r)),
		Addr:         listenAddr,
		WriteTimeout: 600 * time.Second,
		ReadTimeout:  60 * time.Second,
	}
}
