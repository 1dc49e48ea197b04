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

// Package catalog loads FAQ sets from YAML or JSON documents and provides
// the built-in store FAQ set.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/faqmatch/core"
	"gopkg.in/yaml.v3"
)

// ErrNoEntries is returned when a document contains no FAQ entries.
var ErrNoEntries = errors.New("catalog has no faq entries")

//go:embed default_faqs.yaml
var defaultFaqs []byte

// entryDoc is the on-disk form of a FAQ entry. JSON documents use the same keys.
type entryDoc struct {
	Id       uint64   `yaml:"id"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type catalogDoc struct {
	Faqs []entryDoc `yaml:"faqs"`
}

// Parse decodes a FAQ document: either a bare list of entries or a mapping
// with a faqs list. Entries without an id get one derived from the question
// text. The resulting set is validated.
func Parse(data []byte) ([]*core.FaqEntry, error) {
	docs, err := decodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse faq document: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoEntries
	}

	entries := make([]*core.FaqEntry, len(docs))
	for i, d := range docs {
		entry := &core.FaqEntry{
			Id:       core.ID(d.Id),
			Question: strings.TrimSpace(d.Question),
			Answer:   strings.TrimSpace(d.Answer),
			Category: strings.TrimSpace(d.Category),
			Keywords: d.Keywords,
		}
		if entry.Id == 0 && entry.Question != "" {
			entry.Id = core.IDFromContent(entry.Question)
		}
		entries[i] = entry
	}

	if err := core.ValidateFaqSet(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeEntries(data []byte) ([]entryDoc, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	if root.Content[0].Kind == yaml.SequenceNode {
		var docs []entryDoc
		if err := root.Content[0].Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	}

	var doc catalogDoc
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Faqs, nil
}

// Load reads and parses the FAQ document at path.
func Load(path string) ([]*core.FaqEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Default returns a fresh copy of the built-in FAQ set.
func Default() ([]*core.FaqEntry, error) {
	return Parse(defaultFaqs)
}
