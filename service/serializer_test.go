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
	"encoding/json"
	"testing"

	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveDoc(t *testing.T, content string) view.Document {
	t.Helper()
	doc, err := view.ResolveDocument(json.RawMessage(content))
	require.NoError(t, err)
	return doc
}

func TestSerializeRawTextPassthrough(t *testing.T) {
	raw := "openapi: 3.0.0\ninfo:\n  title: demo\n"
	doc := resolveDoc(t, `"openapi: 3.0.0\ninfo:\n  title: demo\n"`)
	require.Equal(t, view.RawTextDocument, doc.Kind)

	for _, encoding := range []view.Encoding{view.JsonEncoding, view.YamlEncoding} {
		result, err := SerializeDocument(doc, encoding)
		require.NoError(t, err)
		assert.Equal(t, raw, result, "raw text must pass through unchanged for %s", encoding)
	}
}

func TestSerializeJsonKeepsKeyOrder(t *testing.T) {
	doc := resolveDoc(t, `{"zeta":"last","alpha":{"beta":"nested"},"items":["one","two"]}`)

	result, err := SerializeDocument(doc, view.JsonEncoding)
	require.NoError(t, err)

	expected := `{
    "zeta": "last",
    "alpha": {
        "beta": "nested"
    },
    "items": [
        "one",
        "two"
    ]
}`
	assert.Equal(t, expected, result)
}

func TestSerializeYamlBlockStyle(t *testing.T) {
	doc := resolveDoc(t, `{"title":"demo","steps":["one","two"],"meta":{"kind":"route"}}`)

	result, err := SerializeDocument(doc, view.YamlEncoding)
	require.NoError(t, err)

	expected := "title: demo\n" +
		"steps:\n" +
		"    - one\n" +
		"    - two\n" +
		"meta:\n" +
		"    kind: route\n"
	assert.Equal(t, expected, result)
}

func TestSerializeYamlNoAnchors(t *testing.T) {
	// the same sub-structure appears twice, the emitter must expand it in
	// place instead of referencing it
	doc := resolveDoc(t, `{"first":{"shared":"value"},"second":{"shared":"value"}}`)

	result, err := SerializeDocument(doc, view.YamlEncoding)
	require.NoError(t, err)
	assert.NotContains(t, result, "&")
	assert.NotContains(t, result, "*")
}

func TestSerializeNullValue(t *testing.T) {
	doc := resolveDoc(t, `{"description":null}`)

	jsonResult, err := SerializeDocument(doc, view.JsonEncoding)
	require.NoError(t, err)
	assert.Contains(t, jsonResult, `"description": null`)

	yamlResult, err := SerializeDocument(doc, view.YamlEncoding)
	require.NoError(t, err)
	assert.Equal(t, "description: null\n", yamlResult)
}
