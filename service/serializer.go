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
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

const serializeIndent = 4

// SerializeDocument renders the document in the requested encoding.
// Text that is already serialized passes through unchanged, so the operation
// is idempotent on raw input.
func SerializeDocument(doc view.Document, encoding view.Encoding) (string, error) {
	if doc.Kind == view.RawTextDocument {
		return doc.Text, nil
	}

	if encoding == view.YamlEncoding {
		return serializeYaml(doc.Value)
	}
	return serializeJson(doc.Value)
}

func serializeJson(value interface{}) (string, error) {
	data, err := json.MarshalIndent(value, "", strings.Repeat(" ", serializeIndent))
	if err != nil {
		return "", &view.SerializationError{Encoding: view.JsonEncoding, Cause: err}
	}
	return string(data), nil
}

func serializeYaml(value interface{}) (string, error) {
	node, err := yamlNode(value)
	if err != nil {
		return "", &view.SerializationError{Encoding: view.YamlEncoding, Cause: err}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(serializeIndent)
	if err := enc.Encode(node); err != nil {
		return "", &view.SerializationError{Encoding: view.YamlEncoding, Cause: err}
	}
	if err := enc.Close(); err != nil {
		return "", &view.SerializationError{Encoding: view.YamlEncoding, Cause: err}
	}
	return buf.String(), nil
}

// yamlNode rebuilds the value tree as plain block-style nodes. Every repeated
// sub-structure is expanded in place, so the emitter never produces anchors or
// aliases, which downstream consumers may not support.
func yamlNode(value interface{}) (*yaml.Node, error) {
	switch v := value.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *orderedmap.OrderedMap[string, interface{}]:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			valueNode, err := yamlNode(pair.Value)
			if err != nil {
				return nil, err
			}
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}
			node.Content = append(node.Content, keyNode, valueNode)
		}
		return node, nil
	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			itemNode, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}
