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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Encoding string

const (
	JsonEncoding Encoding = "json"
	YamlEncoding Encoding = "yaml"
)

func ParseEncoding(value string) (Encoding, error) {
	switch value {
	case "", string(JsonEncoding):
		return JsonEncoding, nil
	case string(YamlEncoding), "yml":
		return YamlEncoding, nil
	default:
		return "", fmt.Errorf("unknown encoding '%s'", value)
	}
}

// EncodingForFileName derives the session encoding from the edited file's
// extension. Anything that is not yaml is treated as json.
func EncodingForFileName(fileName string) Encoding {
	lower := strings.ToLower(fileName)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return YamlEncoding
	}
	return JsonEncoding
}

func (e Encoding) FileExtension() string {
	if e == YamlEncoding {
		return "yaml"
	}
	return "json"
}

func (e Encoding) ContentType() string {
	if e == YamlEncoding {
		return "application/yaml"
	}
	return "application/json"
}

type DocumentKind string

const (
	RawTextDocument    DocumentKind = "raw"
	StructuredDocument DocumentKind = "structured"
)

// Document is a tagged union: either text that is already serialized or a
// structured value tree. The kind is resolved once, when the content enters
// the service, so downstream code never needs a runtime type probe.
type Document struct {
	Kind  DocumentKind
	Text  string
	Value interface{}
}

// ResolveDocument classifies raw request content. A JSON string is taken as
// already-serialized text; a JSON object becomes an order-preserving map tree.
func ResolveDocument(content json.RawMessage) (Document, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("document content is empty")
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return Document{}, fmt.Errorf("failed to decode document text: %w", err)
		}
		return Document{Kind: RawTextDocument, Text: text}, nil
	case '{':
		om := orderedmap.New[string, interface{}]()
		if err := json.Unmarshal(trimmed, &om); err != nil {
			return Document{}, fmt.Errorf("failed to decode document object: %w", err)
		}
		return Document{Kind: StructuredDocument, Value: om}, nil
	default:
		var value interface{}
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return Document{}, fmt.Errorf("failed to decode document value: %w", err)
		}
		return Document{Kind: StructuredDocument, Value: value}, nil
	}
}

// RecoverySnapshot is the stored copy of unsaved work, used to restore a
// session after an unexpected loss.
type RecoverySnapshot struct {
	SessionId string   `json:"sessionId"`
	Encoding  Encoding `json:"encoding"`
	Content   string   `json:"content"`
	TakenAt   int64    `json:"takenAt"`
}
