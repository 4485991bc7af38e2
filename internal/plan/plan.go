// Package plan loads generation plans: the upstream declaration of which
// files a session is expected to produce.
package plan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyRequest is returned when a plan carries neither a request nor files.
var ErrEmptyRequest = errors.New("plan has no request and no files")

// Plan is a generation plan. It is read-only once loaded.
//
//	request: "A CLI that converts CSV to JSON"
//	label: csv2json
//	total_files: 6
//	files:
//	  - main.go
//	  - internal/convert/convert.go
type Plan struct {
	Request           string   `yaml:"request"`
	Label             string   `yaml:"label,omitempty"`
	SystemInstruction string   `yaml:"system_instruction,omitempty"`
	TotalFiles        int      `yaml:"total_files,omitempty"`
	Files             []string `yaml:"files,omitempty"`
}

// Load reads and parses the plan at path.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes plan YAML. File paths are trimmed and de-duplicated in
// order, and TotalFiles defaults to the number of listed files.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	p.Request = strings.TrimSpace(p.Request)
	p.Files = normalize(p.Files)
	if p.Request == "" && len(p.Files) == 0 {
		return nil, ErrEmptyRequest
	}
	if p.TotalFiles < len(p.Files) {
		p.TotalFiles = len(p.Files)
	}
	return &p, nil
}

// Total returns the planned file count, zero when unknown.
func (p *Plan) Total() int {
	if p == nil {
		return 0
	}
	return p.TotalFiles
}

// Remaining returns a copy of the planned paths.
func (p *Plan) Remaining() []string {
	if p == nil || len(p.Files) == 0 {
		return nil
	}
	return append([]string(nil), p.Files...)
}

func normalize(files []string) []string {
	seen := make(map[string]bool, len(files))
	var out []string
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
