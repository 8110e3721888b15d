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

package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/utils"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// HostBridge sends messages to the embedding shell when the editor runs in
// embedded mode. Sends are fire-and-forget.
type HostBridge interface {
	Send(kind string, payload interface{})
}

func NewHostBridge(callbackUrl string) HostBridge {
	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 15}
	client := resty.NewWithClient(&cl)

	return &hostBridgeImpl{callbackUrl: callbackUrl, client: client}
}

type hostBridgeImpl struct {
	callbackUrl string
	client      *resty.Client
}

func (h *hostBridgeImpl) Send(kind string, payload interface{}) {
	if h.callbackUrl == "" {
		log.Debugf("Host callback url is not set, message '%s' dropped", kind)
		return
	}

	utils.SafeAsync(func() {
		req := h.client.R()
		req.SetHeader("Content-Type", "application/json")
		if payload != nil {
			req.SetBody(payload)
		}

		resp, err := req.Post(fmt.Sprintf("%s/messages/%s", h.callbackUrl, url.PathEscape(kind)))
		if err != nil {
			log.Errorf("Failed to send host message '%s': %s", kind, err)
			return
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
			log.Errorf("Host message '%s' rejected with status %d", kind, resp.StatusCode())
		}
	})
}
