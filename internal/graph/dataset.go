package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	countriesFile = "europe_countries.json"
	riversFile    = "europe_rivers.json"
)

// Country is one country node with its capital and land borders.
type Country struct {
	Name        string   `json:"name"`
	Capital     string   `json:"capital"`
	EUMember    bool     `json:"eu_member"`
	BordersWith []string `json:"borders_with"`
}

// River is one river node. Nil numeric fields are unknown.
type River struct {
	Name         string   `json:"name"`
	Length       *float64 `json:"length,omitempty"`
	Basin        *float64 `json:"basin,omitempty"`
	Flow         *float64 `json:"flow,omitempty"`
	Mouth        string   `json:"mouth,omitempty"`
	Parent       string   `json:"parent,omitempty"`
	RankOfLength *int     `json:"rank_of_length,omitempty"`
	RankOfArea   *int     `json:"rank_of_area,omitempty"`
	RankOfFlow   *int     `json:"rank_of_flow,omitempty"`
	Countries    []string `json:"countries"`
}

// Dataset is everything the seeder writes into the graph.
type Dataset struct {
	Countries []Country `json:"countries"`
	Rivers    []River   `json:"rivers"`
}

// LoadDataset reads europe_countries.json and europe_rivers.json from dir.
// Both files are required.
func LoadDataset(dir string) (Dataset, error) {
	var countries struct {
		Countries []map[string]any `json:"countries"`
	}
	if err := readJSON(filepath.Join(dir, countriesFile), &countries); err != nil {
		return Dataset{}, err
	}

	var rivers struct {
		Rivers []map[string]any `json:"rivers"`
	}
	if err := readJSON(filepath.Join(dir, riversFile), &rivers); err != nil {
		return Dataset{}, err
	}

	ds := Dataset{
		Countries: make([]Country, 0, len(countries.Countries)),
		Rivers:    make([]River, 0, len(rivers.Rivers)),
	}
	for _, payload := range countries.Countries {
		ds.Countries = append(ds.Countries, countryFromPayload(payload))
	}
	for _, payload := range rivers.Rivers {
		ds.Rivers = append(ds.Rivers, riverFromPayload(payload))
	}
	return ds, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse dataset file %s: %w", path, err)
	}
	return nil
}

func countryFromPayload(p map[string]any) Country {
	return Country{
		Name:        cleanString(p["name"]),
		Capital:     cleanString(p["capital"]),
		EUMember:    asBool(p["eu_member"]),
		BordersWith: stringList(p["borders_with"]),
	}
}

func riverFromPayload(p map[string]any) River {
	mouth, ok := p["mouth"]
	if !ok || mouth == nil {
		// Upstream data misspells the key in places.
		mouth = p["mounth"]
	}

	return River{
		Name:         cleanString(p["name"]),
		Length:       asFloat(p["length"]),
		Basin:        asFloat(p["basin"]),
		Flow:         asFloat(p["flow"]),
		Mouth:        cleanString(mouth),
		Parent:       cleanString(p["parent"]),
		RankOfLength: asInt(p["rank_of_length"]),
		RankOfArea:   asInt(p["rank_of_area"]),
		RankOfFlow:   asInt(p["rank_of_flow"]),
		Countries:    stringList(p["countries"]),
	}
}

func cleanString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	default:
		switch strings.ToLower(cleanString(t)) {
		case "yes", "y", "true", "1":
			return true
		}
		return false
	}
}

func asFloat(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	default:
		s := cleanString(t)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	}
}

func asInt(v any) *int {
	f := asFloat(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// stringList accepts a single string or a list and drops blank entries.
func stringList(v any) []string {
	var candidates []any
	switch t := v.(type) {
	case nil:
		return []string{}
	case string:
		candidates = []any{t}
	case []any:
		candidates = t
	default:
		return []string{}
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if s := cleanString(c); s != "" {
			out = append(out, s)
		}
	}
	return out
}
