package autopilot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const maxRecords = 50

// Record captures one autopilot step.
type Record struct {
	Tick      int     `json:"tick"`
	Level     int     `json:"level"`
	Action    Action  `json:"action"`
	Target    string  `json:"target,omitempty"`
	Crisis    string  `json:"crisis"`
	OK        bool    `json:"ok"`
	Error     string  `json:"error,omitempty"`
	Treasury  float64 `json:"treasury"`
	Rationale string  `json:"rationale,omitempty"`
}

// Journal keeps the most recent records plus running totals.
type Journal struct {
	Records  []Record       `json:"records"`
	Counts   map[Action]int `json:"counts"`
	Failures int            `json:"failures"`
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{Counts: make(map[Action]int)}
}

// Add appends a record, trimming to the most recent maxRecords.
func (j *Journal) Add(r Record) {
	j.Records = append(j.Records, r)
	if len(j.Records) > maxRecords {
		j.Records = j.Records[len(j.Records)-maxRecords:]
	}
	j.Counts[r.Action]++
	if !r.OK {
		j.Failures++
	}
}

// Total returns how many steps were recorded, including trimmed ones.
func (j *Journal) Total() int {
	n := 0
	for _, c := range j.Counts {
		n += c
	}
	return n
}

// Summary lists the action counts, most frequent first.
func (j *Journal) Summary() string {
	type kv struct {
		a Action
		n int
	}
	var list []kv
	for a, n := range j.Counts {
		list = append(list, kv{a, n})
	}
	sort.Slice(list, func(i, k int) bool {
		if list[i].n != list[k].n {
			return list[i].n > list[k].n
		}
		return list[i].a < list[k].a
	})
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, fmt.Sprintf("%s=%d", e.a, e.n))
	}
	return strings.Join(parts, ", ")
}

// WriteFile dumps the journal as indented JSON.
func (j *Journal) WriteFile(path string) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}
