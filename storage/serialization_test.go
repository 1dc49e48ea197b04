// Copyright 2025 Poiesic Systems
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

package storage

import (
	"testing"
	"time"

	"github.com/poiesic/faqmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("What is your return policy?")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalFaqEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry *core.FaqEntry
	}{
		{
			name: "full entry",
			entry: &core.FaqEntry{
				Id:       core.ID(5),
				Question: "What payment methods do you accept?",
				Answer:   "We accept credit cards (Visa, MasterCard, American Express), PayPal, Apple Pay, and Google Pay.",
				Category: "payment",
				Keywords: []string{"payment", "pay", "credit card", "PayPal", "methods", "how to pay"},
			},
		},
		{
			name: "no keywords or category",
			entry: &core.FaqEntry{
				Id:       core.IDFromContent("Do you gift wrap?"),
				Question: "Do you gift wrap?",
				Answer:   "Yes.",
				Keywords: []string{},
			},
		},
		{
			name: "unicode text",
			entry: &core.FaqEntry{
				Id:       core.ID(9),
				Question: "Livrez-vous à l'étranger ?",
				Answer:   "Oui, dans plus de 50 pays.",
				Keywords: []string{"étranger"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalFaqEntry(tt.entry)
			decoded, err := UnmarshalFaqEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry, decoded)
		})
	}
}

func TestMarshalUnmarshalEmbedding(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	embedding := &core.Embedding{
		FaqId:      core.ID(2),
		Model:      "embeddinggemma",
		ContentId:  core.IDFromContent("How long does shipping take?"),
		Vector:     []float32{0.6, -0.8, 0, 1e-7},
		InsertedAt: now,
	}

	decoded, err := UnmarshalEmbedding(MarshalEmbedding(embedding))
	require.NoError(t, err)
	assert.Equal(t, embedding.FaqId, decoded.FaqId)
	assert.Equal(t, embedding.Model, decoded.Model)
	assert.Equal(t, embedding.ContentId, decoded.ContentId)
	assert.Equal(t, embedding.Vector, decoded.Vector)
	assert.True(t, embedding.InsertedAt.Equal(decoded.InsertedAt))
}

func TestUnmarshal_Truncated(t *testing.T) {
	entry := &core.FaqEntry{Id: 1, Question: "Do you have a warranty?", Answer: "Yes.", Keywords: []string{"warranty"}}
	data := MarshalFaqEntry(entry)

	_, err := UnmarshalFaqEntry(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)

	embedding := &core.Embedding{FaqId: 1, Model: "m", Vector: []float32{1, 2, 3}}
	embData := MarshalEmbedding(embedding)
	_, err = UnmarshalEmbedding(embData[:len(embData)-3])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
