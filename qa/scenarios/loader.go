package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haocluo92/well-scheduler/pkg/fieldplan"
)

// ExpectedAssignment pins one event of the run. Start and End are optional
// 2006-01-02 dates; empty means only the resource is checked.
type ExpectedAssignment struct {
	Batch    string `yaml:"batch"`
	Phase    string `yaml:"phase"`
	Resource string `yaml:"resource"`
	Start    string `yaml:"start,omitempty"`
	End      string `yaml:"end,omitempty"`
}

type Expected struct {
	Events       int                  `yaml:"events"`
	Skips        int                  `yaml:"skips"`
	Conflicts    int                  `yaml:"conflicts"`
	MakespanDays *int                 `yaml:"makespan_days,omitempty"`
	Assignments  []ExpectedAssignment `yaml:"assignments,omitempty"`
}

type Scenario struct {
	Name                  string             `yaml:"name"`
	Description           string             `yaml:"description,omitempty"`
	Plan                  fieldplan.Document `yaml:"plan"`
	FracLagDays           int                `yaml:"frac_lag_days"`
	HorizonStart          string             `yaml:"horizon_start,omitempty"`
	HorizonEnd            string             `yaml:"horizon_end,omitempty"`
	SimopsThresholdMeters float64            `yaml:"simops_threshold_meters,omitempty"`
	Expected              Expected           `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
