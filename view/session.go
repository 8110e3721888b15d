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

package view

import (
	"encoding/json"
	"time"
)

type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

type OpenSessionReq struct {
	FileName string          `json:"fileName"`
	Content  json.RawMessage `json:"content"`
	Embedded bool            `json:"embedded,omitempty"`
}

type DocumentChangedReq struct {
	Content json.RawMessage `json:"content"`
}

type GenerateReq struct {
	// Config is passed through to the generator untouched.
	Config json.RawMessage `json:"config"`
}

type EditorSession struct {
	Id           string        `json:"id"`
	FileName     string        `json:"fileName"`
	Encoding     Encoding      `json:"encoding"`
	Status       SessionStatus `json:"status"`
	Embedded     bool          `json:"embedded,omitempty"`
	Generating   bool          `json:"generating"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastSavedAt  *time.Time    `json:"lastSavedAt,omitempty"`
}

type SaveResult struct {
	FileName string `json:"fileName"`
}

// HostDocumentMessage is the payload sent over the host message channel when
// the session runs inside an embedding shell.
type HostDocumentMessage struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

const (
	SpecExportNameJson    = "openapi-spec.json"
	SpecExportNameYaml    = "openapi-spec.yaml"
	GenerationArchiveName = "camel-project.zip"
)

func SpecExportName(encoding Encoding) string {
	if encoding == YamlEncoding {
		return SpecExportNameYaml
	}
	return SpecExportNameJson
}
