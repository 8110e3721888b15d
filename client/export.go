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
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"gopkg.in/resty.v1"
)

// ExportClient delivers serialized documents to their final destination:
// either the plain spec download or the project generator.
type ExportClient interface {
	Deliver(ctx context.Context, content string, contentType string, fileName string) error
	GenerateAndExport(ctx context.Context, config json.RawMessage, content string, fileName string) error
}

func NewExportClient(apihubUrl, generatorUrl, accessToken string) ExportClient {
	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 60}
	client := resty.NewWithClient(&cl)

	return &exportClientImpl{
		apihubUrl:    apihubUrl,
		generatorUrl: generatorUrl,
		accessToken:  accessToken,
		client:       client,
	}
}

type exportClientImpl struct {
	apihubUrl    string
	generatorUrl string
	accessToken  string
	client       *resty.Client
}

func (e *exportClientImpl) Deliver(ctx context.Context, content string, contentType string, fileName string) error {
	req := e.client.R()
	req.SetContext(ctx)
	req.SetHeader("api-key", e.accessToken)
	req.SetHeader("Content-Type", contentType)
	req.SetHeader("X-Export-File-Name", fileName)
	req.SetBody([]byte(content))

	resp, err := req.Post(fmt.Sprintf("%s/api/v1/export/documents/%s", e.apihubUrl, url.PathEscape(fileName)))
	if err != nil {
		return &view.TransportError{Operation: "export delivery", Message: "export backend is not available", Cause: err}
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return &view.TransportError{
			Operation: "export delivery",
			Message:   errorMessageFromResponse(resp.Body(), fmt.Sprintf("export backend returned status %d", resp.StatusCode())),
		}
	}
	return nil
}

func (e *exportClientImpl) GenerateAndExport(ctx context.Context, config json.RawMessage, content string, fileName string) error {
	body := generateRequest{
		Config:   config,
		Content:  content,
		FileName: fileName,
	}

	req := e.client.R()
	req.SetContext(ctx)
	req.SetHeader("api-key", e.accessToken)
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(body)

	resp, err := req.Post(fmt.Sprintf("%s/api/v1/generate", e.generatorUrl))
	if err != nil {
		return &view.TransportError{Operation: "generation", Message: "generator is not available", Cause: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &view.TransportError{
			Operation: "generation",
			Message:   errorMessageFromResponse(resp.Body(), fmt.Sprintf("generator returned status %d", resp.StatusCode())),
		}
	}
	return nil
}

type generateRequest struct {
	Config   json.RawMessage `json:"config"`
	Content  string          `json:"content"`
	FileName string          `json:"fileName"`
}

// errorMessageFromResponse extracts the human-readable message from an error
// body if the backend sent one.
func errorMessageFromResponse(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}
