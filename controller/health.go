package controller

import (
	"net/http"
	"sync/atomic"

	"github.com/Netcracker/qubership-apihub-editor-session-service/utils"
)

type HealthController interface {
	HandleLiveRequest(w http.ResponseWriter, r *http.Request)
	HandleReadyRequest(w http.ResponseWriter, r *http.Request)
}

func NewHealthController(readyChan chan bool) HealthController {
	h := &healthControllerImpl{}
	utils.SafeAsync(func() {
		for value := range readyChan {
			h.ready.Store(value)
		}
	})
	return h
}

type healthControllerImpl struct {
	ready atomic.Bool
}

func (h *healthControllerImpl) HandleLiveRequest(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *healthControllerImpl) HandleReadyRequest(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
