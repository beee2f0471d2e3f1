package transform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/legaldesk/casectl/internal/table"
	"github.com/legaldesk/casectl/internal/util"
	"gopkg.in/yaml.v3"
)

// Preset names.
const (
	PresetRainbowCases = "rainbow-cases"
	PresetStageCases   = "stage-cases"
	PresetStageRows    = "stage-rows"
	PresetTasks        = "tasks"
	PresetDocuments    = "documents"
	PresetFiltered     = "filtered"
)

// Preset selects, orders and titles the columns of one table.
type Preset struct {
	Columns    []string          `yaml:"columns,omitempty"`
	Titles     map[string]string `yaml:"titles,omitempty"`
	Widths     map[string]int    `yaml:"widths,omitempty"`
	Unsortable []string          `yaml:"unsortable,omitempty"`
	// Sort is the initial sort: a column key, prefixed with "-" for
	// descending.
	Sort string `yaml:"sort,omitempty"`
}

// InitialSort parses Sort.
func (p Preset) InitialSort() table.SortState {
	key := strings.TrimSpace(p.Sort)
	if key == "" {
		return table.SortState{}
	}
	if rest, ok := strings.CutPrefix(key, "-"); ok {
		return table.SortState{Key: rest, Dir: table.SortDesc}
	}
	return table.SortState{Key: key, Dir: table.SortAsc}
}

// Presets maps preset names to presets.
type Presets map[string]Preset

// Get returns the named preset or an empty one.
func (ps Presets) Get(name string) Preset {
	return ps[name]
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() Presets {
	return Presets{
		PresetRainbowCases: {
			Columns: []string{
				"caseCode", "responsibleExecutor", "gosb", "currentPeriodColor",
				"courtProtectionMethod", "courtReviewingCase", "caseStatus",
			},
			Sort: "caseCode",
		},
		PresetStageCases: {
			Columns: []string{
				"caseCode", "responsibleExecutor", "gosb", "courtProtectionMethod",
				"courtReviewingCase", "caseStatus", "filingDate", "caseStage", "monitoringStatus",
			},
			Sort: "caseCode",
		},
		PresetStageRows: {Sort: "caseStage"},
		PresetTasks: {
			Columns: []string{
				"taskCode", "caseCode", "responsibleExecutor", "caseStage",
				"monitoringStatus", "isCompleted", "taskText",
			},
			Unsortable: []string{"taskText"},
			Sort:       "responsibleExecutor",
		},
		PresetDocuments: {
			Columns: []string{"Код дела", "Документ", "Подразделение", "monitoringStatus"},
		},
		PresetFiltered: {
			Columns: []string{
				"Код дела", "Ответственный исполнитель", "ГОСБ", "Цвет (текущий период)",
			},
		},
	}
}

type presetFile struct {
	Presets Presets `yaml:"presets"`
}

// LoadPresets reads preset overrides from a YAML file and merges them over
// the built-in presets. A missing file yields the defaults.
//
//	presets:
//	  tasks:
//	    columns: [taskCode, caseCode, taskText]
//	    titles: {taskText: Что сделать}
func LoadPresets(path string) (Presets, error) {
	presets := DefaultPresets()
	path = util.ExpandHome(strings.TrimSpace(path))
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return presets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read column presets: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse column presets %s: %w", path, err)
	}
	for name, override := range file.Presets {
		if err := util.ApplyDefaults(&override, presets[name]); err != nil {
			return nil, fmt.Errorf("merge preset %s: %w", name, err)
		}
		presets[name] = override
	}
	return presets, nil
}
