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

package badger

import (
	"encoding/binary"

	"github.com/poiesic/faqmatch/core"
)

// Key prefixes for different data types
const (
	faqRecordPrefix    = "faqrec:"
	faqOrderPrefix     = "faqord:"
	faqEmbeddingPrefix = "faqemb:"
)

// makeFaqRecordKey generates a key for a FAQ entry by ID.
// Format: prefix:id
func makeFaqRecordKey(id core.ID) []byte {
	buf := make([]byte, len(faqRecordPrefix)+8)
	offset := copy(buf, faqRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeFaqOrderKey generates a key for the position of an entry in the set.
// Format: prefix:ordinal
func makeFaqOrderKey(ordinal int) []byte {
	buf := make([]byte, len(faqOrderPrefix)+8)
	offset := copy(buf, faqOrderPrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(ordinal))
	return buf
}

// makePartialEmbeddingKey generates the key prefix shared by all embeddings
// of one model.
// Format: prefix:model\x00
func makePartialEmbeddingKey(model string) []byte {
	buf := make([]byte, len(faqEmbeddingPrefix)+len(model)+1)
	offset := copy(buf, faqEmbeddingPrefix)
	offset += copy(buf[offset:], model)
	buf[offset] = 0
	return buf
}

// makeEmbeddingKey generates a composite key for an entry's embedding.
// Format: prefix:model\x00id
func makeEmbeddingKey(model string, id core.ID) []byte {
	partial := makePartialEmbeddingKey(model)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
