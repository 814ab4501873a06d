// Package catalog loads the static game data: roles, projects, events,
// economy constants, industries, token offers, remote defaults, presets and
// the Level-2 catalogs. Defaults are embedded; a directory can override them
// file by file.
package catalog

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexandrarotta/microestado/internal/rules"
)

// ErrInvalid marks a catalog that failed schema or semantic validation.
var ErrInvalid = errors.New("invalid catalog")

//go:embed data/*.yaml schema/*.json
var embedded embed.FS

// Files lists every catalog file in load order.
var Files = []string{
	"roles.yaml",
	"projects.yaml",
	"events.yaml",
	"economy.yaml",
	"industries.yaml",
	"iap.yaml",
	"remote.yaml",
	"presets.yaml",
	"level2_industries.yaml",
	"level2_projects.yaml",
	"level2_events.yaml",
	"level2_decrees.yaml",
	"advisors.yaml",
}

// Bundle is the complete, validated game configuration.
type Bundle struct {
	Version string            `json:"version"`
	Digests map[string]string `json:"digests"`

	Roles         []Role          `json:"roles"`
	Projects      []Project       `json:"projects"`
	Events        []Event         `json:"events"`
	Economy       Economy         `json:"economy"`
	Industries    []Industry      `json:"industries"`
	IAP           IAP             `json:"iapConfig"`
	Remote        Remote          `json:"remoteConfigKeys"`
	PolicyPresets []PolicyPreset  `json:"policyPresets"`
	StateTypes    []StateType     `json:"stateTypes"`
	L2Industries  []L2Industry    `json:"level2Industries"`
	L2Projects    []L2Project     `json:"level2Projects"`
	L2Events      []L2Event       `json:"level2Events"`
	L2Decrees     L2DecreeCatalog `json:"level2Decrees"`
	Advisors      []Advisor       `json:"advisors"`

	roles        map[string]int
	projects     map[string]int
	events       map[string]int
	decrees      map[string]int
	industries   map[string]int
	presets      map[string]int
	stateTypes   map[string]int
	l2Industries map[string]int
	l2Projects   map[string]int
	l2Events     map[string]int
	advisors     map[string]int
}

type fileDoc struct {
	Roles         []Role          `yaml:"roles"`
	Projects      yaml.Node       `yaml:"projects"`
	Events        yaml.Node       `yaml:"events"`
	Economy       *Economy        `yaml:"economy"`
	Industries    yaml.Node       `yaml:"industries"`
	IAP           *IAP            `yaml:"iap"`
	Remote        *Remote         `yaml:"remote"`
	PolicyPresets []PolicyPreset  `yaml:"policyPresets"`
	StateTypes    []StateType     `yaml:"stateTypes"`
	Decrees       L2DecreeCatalog `yaml:"decrees"`
	Advisors      []Advisor       `yaml:"advisors"`
}

// Default loads the embedded catalogs.
func Default() (*Bundle, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadDir loads catalogs from dir, falling back to the embedded file for
// every name dir does not provide. An empty dir loads the defaults.
func LoadDir(dir string) (*Bundle, error) {
	if dir == "" {
		return Default()
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(overlayFS{primary: os.DirFS(dir), fallback: sub})
}

// LoadFS loads and validates every file in Files from fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	b := &Bundle{Digests: make(map[string]string, len(Files))}
	for _, name := range Files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		b.Digests[name] = sha256Hex(raw)

		if err := schemas.validate(name, raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
		if err := b.decode(name, raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}
	b.Version = bundleVersion(b.Digests)

	env, err := rules.NewEnv()
	if err != nil {
		return nil, err
	}
	if err := b.check(env); err != nil {
		return nil, err
	}
	b.index()
	return b, nil
}

func (b *Bundle) decode(name string, raw []byte) error {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	switch name {
	case "roles.yaml":
		b.Roles = doc.Roles
	case "projects.yaml":
		return decodeNode(&doc.Projects, &b.Projects)
	case "events.yaml":
		return decodeNode(&doc.Events, &b.Events)
	case "economy.yaml":
		if doc.Economy == nil {
			return errors.New("missing economy")
		}
		b.Economy = *doc.Economy
	case "industries.yaml":
		return decodeNode(&doc.Industries, &b.Industries)
	case "iap.yaml":
		if doc.IAP == nil {
			return errors.New("missing iap")
		}
		b.IAP = *doc.IAP
	case "remote.yaml":
		if doc.Remote == nil {
			return errors.New("missing remote")
		}
		b.Remote = *doc.Remote
	case "presets.yaml":
		b.PolicyPresets = doc.PolicyPresets
		b.StateTypes = doc.StateTypes
	case "level2_industries.yaml":
		return decodeNode(&doc.Industries, &b.L2Industries)
	case "level2_projects.yaml":
		return decodeNode(&doc.Projects, &b.L2Projects)
	case "level2_events.yaml":
		return decodeNode(&doc.Events, &b.L2Events)
	case "level2_decrees.yaml":
		b.L2Decrees = doc.Decrees
	case "advisors.yaml":
		b.Advisors = doc.Advisors
	}
	return nil
}

func decodeNode(n *yaml.Node, out any) error {
	if n.Kind == 0 {
		return errors.New("missing top-level section")
	}
	return n.Decode(out)
}

func (b *Bundle) index() {
	b.roles = indexBy(b.Roles, func(r Role) string { return r.ID })
	b.projects = indexBy(b.Projects, func(p Project) string { return p.ID })
	b.events = indexBy(b.Events, func(e Event) string { return e.ID })
	b.decrees = indexBy(b.Economy.Decrees, func(d Decree) string { return d.ID })
	b.industries = indexBy(b.Industries, func(i Industry) string { return i.ID })
	b.presets = indexBy(b.PolicyPresets, func(p PolicyPreset) string { return p.ID })
	b.stateTypes = indexBy(b.StateTypes, func(s StateType) string { return s.ID })
	b.l2Industries = indexBy(b.L2Industries, func(i L2Industry) string { return i.ID })
	b.l2Projects = indexBy(b.L2Projects, func(p L2Project) string { return p.ID })
	b.l2Events = indexBy(b.L2Events, func(e L2Event) string { return e.ID })
	b.advisors = indexBy(b.Advisors, func(a Advisor) string { return a.ID })
}

func indexBy[T any](items []T, id func(T) string) map[string]int {
	m := make(map[string]int, len(items))
	for i, it := range items {
		m[id(it)] = i
	}
	return m
}

func lookup[T any](items []T, idx map[string]int, id string) *T {
	i, ok := idx[id]
	if !ok {
		return nil
	}
	return &items[i]
}

// Role returns the role with id, or nil.
func (b *Bundle) Role(id string) *Role { return lookup(b.Roles, b.roles, id) }

// Project returns the Level-1 project with id, or nil.
func (b *Bundle) Project(id string) *Project { return lookup(b.Projects, b.projects, id) }

// Event returns the Level-1 event with id, or nil.
func (b *Bundle) Event(id string) *Event { return lookup(b.Events, b.events, id) }

// Decree returns the Level-1 decree with id, or nil.
func (b *Bundle) Decree(id string) *Decree { return lookup(b.Economy.Decrees, b.decrees, id) }

// Industry returns the Level-1 industry with id, or nil.
func (b *Bundle) Industry(id string) *Industry { return lookup(b.Industries, b.industries, id) }

// Preset returns the policy preset with id, or nil.
func (b *Bundle) Preset(id string) *PolicyPreset { return lookup(b.PolicyPresets, b.presets, id) }

// StateType returns the state type with id, or nil.
func (b *Bundle) StateType(id string) *StateType { return lookup(b.StateTypes, b.stateTypes, id) }

// L2Industry returns the Level-2 industry with id, or nil.
func (b *Bundle) L2Industry(id string) *L2Industry {
	return lookup(b.L2Industries, b.l2Industries, id)
}

// L2Project returns the Level-2 project with id, or nil.
func (b *Bundle) L2Project(id string) *L2Project { return lookup(b.L2Projects, b.l2Projects, id) }

// L2Event returns the Level-2 event with id, or nil.
func (b *Bundle) L2Event(id string) *L2Event { return lookup(b.L2Events, b.l2Events, id) }

// Advisor returns the advisor with id, or nil.
func (b *Bundle) Advisor(id string) *Advisor { return lookup(b.Advisors, b.advisors, id) }

// ProjectPhases returns the distinct project phases in ascending order.
func (b *Bundle) ProjectPhases() []int {
	seen := map[int]bool{}
	var out []int
	for _, p := range b.Projects {
		if !seen[p.Phase] {
			seen[p.Phase] = true
			out = append(out, p.Phase)
		}
	}
	sort.Ints(out)
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func bundleVersion(digests map[string]string) string {
	names := make([]string, 0, len(digests))
	for n := range digests {
		names = append(names, n)
	}
	sort.Strings(names)
	var buf bytes.Buffer
	for _, n := range names {
		buf.WriteString(n)
		buf.WriteByte(':')
		buf.WriteString(digests[n])
		buf.WriteByte('\n')
	}
	return sha256Hex(buf.Bytes())[:16]
}

// overlayFS reads from primary and falls back when a file is missing there.
type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return nil, err
}

// yamlToJSON converts a YAML document into the generic JSON value the
// schema validator expects.
func yamlToJSON(raw []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml to json: %w", err)
	}
	var out any
	if err := json.Unmarshal(js, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func schemaName(file string) string {
	return strings.TrimSuffix(file, ".yaml") + ".schema.json"
}
