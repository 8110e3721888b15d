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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		value    string
		expected Encoding
		wantErr  bool
	}{
		{value: "", expected: JsonEncoding},
		{value: "json", expected: JsonEncoding},
		{value: "yaml", expected: YamlEncoding},
		{value: "yml", expected: YamlEncoding},
		{value: "xml", wantErr: true},
		{value: "JSON", wantErr: true},
	}
	for _, tt := range tests {
		encoding, err := ParseEncoding(tt.value)
		if tt.wantErr {
			assert.Error(t, err, "value %q", tt.value)
			continue
		}
		require.NoError(t, err, "value %q", tt.value)
		assert.Equal(t, tt.expected, encoding)
	}
}

func TestEncodingForFileName(t *testing.T) {
	assert.Equal(t, YamlEncoding, EncodingForFileName("petstore.yaml"))
	assert.Equal(t, YamlEncoding, EncodingForFileName("PETSTORE.YML"))
	assert.Equal(t, JsonEncoding, EncodingForFileName("petstore.json"))
	assert.Equal(t, JsonEncoding, EncodingForFileName("no-extension"))
}

func TestResolveDocumentRawText(t *testing.T) {
	doc, err := ResolveDocument(json.RawMessage(`"openapi: 3.0.0"`))
	require.NoError(t, err)
	assert.Equal(t, RawTextDocument, doc.Kind)
	assert.Equal(t, "openapi: 3.0.0", doc.Text)
}

func TestResolveDocumentStructured(t *testing.T) {
	doc, err := ResolveDocument(json.RawMessage(`{"b":1,"a":2}`))
	require.NoError(t, err)
	assert.Equal(t, StructuredDocument, doc.Kind)

	om, ok := doc.Value.(*orderedmap.OrderedMap[string, interface{}])
	require.True(t, ok)

	var keys []string
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"b", "a"}, keys)
}

func TestResolveDocumentEmpty(t *testing.T) {
	_, err := ResolveDocument(json.RawMessage(``))
	assert.Error(t, err)

	_, err = ResolveDocument(json.RawMessage(`   `))
	assert.Error(t, err)
}

func TestResolveDocumentInvalid(t *testing.T) {
	_, err := ResolveDocument(json.RawMessage(`{broken`))
	assert.Error(t, err)
}
