// Package fieldplan loads the field development plan document that feeds the
// scheduler: wells, batches and resources, in YAML or JSON.
package fieldplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haocluo92/well-scheduler/core/model"
)

const dayLayout = "2006-01-02"

// WellDef describes one well in the plan document. Dates use the 2006-01-02
// layout; empty strings mean unset.
type WellDef struct {
	Name         string   `json:"name" yaml:"name"`
	DrillDays    int      `json:"drill_days" yaml:"drill_days"`
	FracDays     int      `json:"frac_days" yaml:"frac_days"`
	AllowToDrill string   `json:"allow_to_drill,omitempty" yaml:"allow_to_drill,omitempty"`
	AllowToFrac  string   `json:"allow_to_frac,omitempty" yaml:"allow_to_frac,omitempty"`
	DueDate      string   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Lat          *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
	Priority     *int     `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// ToModel converts the definition into a model well.
func (d WellDef) ToModel() (model.Well, error) {
	w := model.Well{
		Name:      d.Name,
		DrillDays: d.DrillDays,
		FracDays:  d.FracDays,
	}
	var err error
	if w.AllowToDrill, err = parseDay(d.AllowToDrill); err != nil {
		return model.Well{}, fmt.Errorf("well %s: allow_to_drill: %w", d.Name, err)
	}
	if w.AllowToFrac, err = parseDay(d.AllowToFrac); err != nil {
		return model.Well{}, fmt.Errorf("well %s: allow_to_frac: %w", d.Name, err)
	}
	if w.DueDate, err = parseDay(d.DueDate); err != nil {
		return model.Well{}, fmt.Errorf("well %s: due_date: %w", d.Name, err)
	}
	if d.Lat != nil {
		lat := *d.Lat
		w.Lat = &lat
	}
	if d.Lon != nil {
		lon := *d.Lon
		w.Lon = &lon
	}
	if d.Priority != nil {
		p := *d.Priority
		w.Priority = &p
	}
	return w, w.Validate()
}

// BatchDef groups wells by name into one schedulable unit. Priority, when
// set, overrides the minimum well priority.
type BatchDef struct {
	Name     string   `json:"name" yaml:"name"`
	Wells    []string `json:"wells" yaml:"wells"`
	Priority *int     `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// ResourceDef declares a rig or frac crew with its availability window.
type ResourceDef struct {
	Name          string `json:"name" yaml:"name"`
	Kind          string `json:"kind" yaml:"kind"`
	AvailableFrom string `json:"available_from" yaml:"available_from"`
	EndDate       string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// ToModel converts the definition into a model resource.
func (d ResourceDef) ToModel() (*model.Resource, error) {
	from, err := parseDay(d.AvailableFrom)
	if err != nil {
		return nil, fmt.Errorf("resource %s: available_from: %w", d.Name, err)
	}
	var r *model.Resource
	switch d.Kind {
	case "rig":
		r = model.NewRig(d.Name, from)
	case "frac_crew":
		r = model.NewFracCrew(d.Name, from)
	default:
		return nil, fmt.Errorf("resource %s: unknown kind %q", d.Name, d.Kind)
	}
	if d.EndDate != "" {
		end, err := parseDay(d.EndDate)
		if err != nil {
			return nil, fmt.Errorf("resource %s: end_date: %w", d.Name, err)
		}
		r.SetAvailability(from, end)
	}
	return r, r.Validate()
}

// Document is the root of the plan file.
type Document struct {
	Wells     []WellDef     `json:"wells" yaml:"wells"`
	Batches   []BatchDef    `json:"batches" yaml:"batches"`
	Resources []ResourceDef `json:"resources" yaml:"resources"`
}

// Load reads a plan document from a JSON or YAML file.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var doc Document
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &doc)
	case ".json":
		err = json.Unmarshal(b, &doc)
	default:
		return nil, fmt.Errorf("unsupported plan format: %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Decode reads a plan document from r in the given format.
func Decode(r io.Reader, format string) (*Document, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return &doc, nil
}

// Plan holds the built model objects ready for scheduling.
type Plan struct {
	Batches []*model.WellBatch
	Rigs    []*model.Resource
	Crews   []*model.Resource
}

// Build resolves well references and converts the document into model
// objects. Names must be unique within wells, batches and resources, and
// every batch member must be a declared well. A well may appear in more than
// one batch; each batch gets its own copy.
func (d *Document) Build() (*Plan, error) {
	wells := make(map[string]model.Well, len(d.Wells))
	for _, wd := range d.Wells {
		if _, dup := wells[wd.Name]; dup {
			return nil, fmt.Errorf("duplicate well %q", wd.Name)
		}
		w, err := wd.ToModel()
		if err != nil {
			return nil, err
		}
		wells[w.Name] = w
	}

	plan := &Plan{}
	batchNames := make(map[string]struct{}, len(d.Batches))
	for _, bd := range d.Batches {
		if _, dup := batchNames[bd.Name]; dup {
			return nil, fmt.Errorf("duplicate batch %q", bd.Name)
		}
		batchNames[bd.Name] = struct{}{}
		members := make([]model.Well, 0, len(bd.Wells))
		for _, name := range bd.Wells {
			w, ok := wells[name]
			if !ok {
				return nil, fmt.Errorf("batch %s: unknown well %q", bd.Name, name)
			}
			members = append(members, w)
		}
		b := model.NewWellBatch(bd.Name, members)
		if bd.Priority != nil {
			b.OverridePriority(*bd.Priority)
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		plan.Batches = append(plan.Batches, b)
	}

	resNames := make(map[string]struct{}, len(d.Resources))
	for _, rd := range d.Resources {
		if _, dup := resNames[rd.Name]; dup {
			return nil, fmt.Errorf("duplicate resource %q", rd.Name)
		}
		resNames[rd.Name] = struct{}{}
		r, err := rd.ToModel()
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case model.KindRig:
			plan.Rigs = append(plan.Rigs, r)
		case model.KindFracCrew:
			plan.Crews = append(plan.Crews, r)
		}
	}
	return plan, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dayLayout, s)
}
