// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography loads citation lists from YAML or JSON files
// and flags duplicate entries before verification.
package bibliography

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/internal/normalize"
	"github.com/pdiddy/refcheck/pkg/types"
)

// document is the accepted file shape: either a bare citation list or
// a mapping with a references key, so exported bibliographies and
// hand-written files both load.
type document struct {
	References []types.Citation `json:"references" yaml:"references"`
}

// Load reads a bibliography file. The format is chosen by extension:
// .json is JSON, .txt is a plain-text numbered reference list,
// everything else is YAML.
func Load(path string) ([]types.Citation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}

	var citations []types.Citation
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		citations, err = decode(data, json.Unmarshal)
	case ".txt":
		citations = ParseText(string(data))
	default:
		citations, err = decode(data, yaml.Unmarshal)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if len(citations) == 0 {
		return nil, fmt.Errorf("%s contains no references", filepath.Base(path))
	}
	return citations, nil
}

func decode(data []byte, unmarshal func([]byte, any) error) ([]types.Citation, error) {
	var list []types.Citation
	if err := unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.References, nil
}

// Duplicate marks two entries that cite the same work.
type Duplicate struct {
	// First and Second are the 0-based indices of the colliding
	// entries, First < Second.
	First  int
	Second int

	// Key is what collided: the shared DOI or the normalized title.
	Key string
}

// FindDuplicates reports entries that share a DOI or a normalized
// title. Entries without either are never flagged.
func FindDuplicates(citations []types.Citation) []Duplicate {
	var dups []Duplicate
	byKey := map[string]int{}
	reported := map[[2]int]bool{}

	record := func(key string, index int) {
		first, ok := byKey[key]
		if !ok {
			byKey[key] = index
			return
		}
		// An entry colliding on both DOI and title is one duplicate,
		// not two.
		pair := [2]int{first, index}
		if reported[pair] {
			return
		}
		reported[pair] = true
		dups = append(dups, Duplicate{First: first, Second: index, Key: key})
	}

	for i, c := range citations {
		if doi := ident.NormalizeDOI(c.DOI); doi != "" {
			record("doi:"+strings.ToLower(doi), i)
		}
		if title := normalize.Title(c.Title); title != "" {
			record("title:"+title, i)
		}
	}
	return dups
}
