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

package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted records. Field order is the wire order; append
// new fields at the end.
var (
	IDMUS        mus.Serializer[ID]        = idMUS{}
	FaqEntryMUS  mus.Serializer[FaqEntry]  = faqEntryMUS{}
	EmbeddingMUS mus.Serializer[Embedding] = embeddingMUS{}

	keywordsMUS = ord.NewSliceSer[string](ord.String)
	vectorMUS   = ord.NewSliceSer[float32](raw.Float32)
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type faqEntryMUS struct{}

func (faqEntryMUS) Marshal(v FaqEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Question, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	n += ord.String.Marshal(v.Category, bs[n:])
	return n + keywordsMUS.Marshal(v.Keywords, bs[n:])
}

func (faqEntryMUS) Unmarshal(bs []byte) (v FaqEntry, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Question, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Answer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Keywords, n1, err = keywordsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (faqEntryMUS) Size(v FaqEntry) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Question)
	size += ord.String.Size(v.Answer)
	size += ord.String.Size(v.Category)
	return size + keywordsMUS.Size(v.Keywords)
}

func (faqEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for range 3 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = keywordsMUS.Skip(bs[n:])
	n += n1
	return
}

type embeddingMUS struct{}

func (embeddingMUS) Marshal(v Embedding, bs []byte) (n int) {
	n = IDMUS.Marshal(v.FaqId, bs)
	n += ord.String.Marshal(v.Model, bs[n:])
	n += IDMUS.Marshal(v.ContentId, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n + raw.TimeUnixMicroUTC.Marshal(v.InsertedAt, bs[n:])
}

func (embeddingMUS) Unmarshal(bs []byte) (v Embedding, n int, err error) {
	v.FaqId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	return
}

func (embeddingMUS) Size(v Embedding) (size int) {
	size = IDMUS.Size(v.FaqId)
	size += ord.String.Size(v.Model)
	size += IDMUS.Size(v.ContentId)
	size += vectorMUS.Size(v.Vector)
	return size + raw.TimeUnixMicroUTC.Size(v.InsertedAt)
}

func (embeddingMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicroUTC.Skip(bs[n:])
	n += n1
	return
}
