package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/todo-e2e/internal/harness"
)

// Scenario is one to-do flow with its expected outcome.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name" validate:"required"`

	Description string `yaml:"description,omitempty"`

	// Setup steps run first; any failure aborts the scenario.
	Setup []Step `yaml:"setup,omitempty" validate:"dive"`

	// Flow steps are the behaviour under test. The first failing step ends the flow.
	Flow []Step `yaml:"flow" validate:"dive"`

	// Assertions are all evaluated once the flow has completed.
	Assertions []Assertion `yaml:"assertions,omitempty" validate:"dive"`

	// Path is the file the scenario was loaded from.
	Path string `yaml:"-"`
}

// Step is a single action or inline check. Exactly one action field is set; Text and Key
// qualify it.
type Step struct {
	Add             *string `yaml:"add,omitempty"`
	TypeTrigger     *string `yaml:"type_trigger,omitempty"`
	Toggle          *int    `yaml:"toggle,omitempty" validate:"omitempty,gte=0"`
	ToggleAll       bool    `yaml:"toggle_all,omitempty"`
	Edit            *int    `yaml:"edit,omitempty" validate:"omitempty,gte=0"`
	Delete          *int    `yaml:"delete,omitempty" validate:"omitempty,gte=0"`
	ClearCompleted  bool    `yaml:"clear_completed,omitempty"`
	Filter          *string `yaml:"filter,omitempty"`
	Reload          bool    `yaml:"reload,omitempty"`
	Hover           *int    `yaml:"hover,omitempty" validate:"omitempty,gte=0"`
	ExpectCount     *int    `yaml:"expect_count,omitempty" validate:"omitempty,gte=0"`
	ExpectRemaining *int    `yaml:"expect_remaining,omitempty" validate:"omitempty,gte=0"`

	// Text is the replacement text of an edit.
	Text *string `yaml:"text,omitempty"`
	// Key is the terminator of add and edit, or the triggered key of type_trigger.
	Key string `yaml:"key,omitempty"`
}

// Step kinds, named after their YAML keys.
const (
	StepAdd             = "add"
	StepTypeTrigger     = "type_trigger"
	StepToggle          = "toggle"
	StepToggleAll       = "toggle_all"
	StepEdit            = "edit"
	StepDelete          = "delete"
	StepClearCompleted  = "clear_completed"
	StepFilter          = "filter"
	StepReload          = "reload"
	StepHover           = "hover"
	StepExpectCount     = "expect_count"
	StepExpectRemaining = "expect_remaining"
)

// Assertion checks the page after the flow.
type Assertion struct {
	Type string `yaml:"type" validate:"required,oneof=item_contains item_not_contains item_has_class item_not_has_class count remaining visible not_visible"`

	// Index selects one item; omitted means any item (contains) or every item (class checks).
	Index *int `yaml:"index,omitempty" validate:"omitempty,gte=0"`

	Text     string `yaml:"text,omitempty" validate:"required_if=Type item_contains,required_if=Type item_not_contains"`
	Class    string `yaml:"class,omitempty" validate:"required_if=Type item_has_class,required_if=Type item_not_has_class"`
	Count    *int   `yaml:"count,omitempty" validate:"omitempty,gte=0"`
	Selector string `yaml:"selector,omitempty" validate:"required_if=Type visible,required_if=Type not_visible"`
}

// Assertion types.
const (
	AssertItemContains    = "item_contains"
	AssertItemNotContains = "item_not_contains"
	AssertItemHasClass    = "item_has_class"
	AssertItemNotHasClass = "item_not_has_class"
	AssertCount           = "count"
	AssertRemaining       = "remaining"
	AssertVisible         = "visible"
	AssertNotVisible      = "not_visible"
)

// Kinds returns the action keys set on the step.
func (s Step) Kinds() []string {
	var kinds []string
	if s.Add != nil {
		kinds = append(kinds, StepAdd)
	}
	if s.TypeTrigger != nil {
		kinds = append(kinds, StepTypeTrigger)
	}
	if s.Toggle != nil {
		kinds = append(kinds, StepToggle)
	}
	if s.ToggleAll {
		kinds = append(kinds, StepToggleAll)
	}
	if s.Edit != nil {
		kinds = append(kinds, StepEdit)
	}
	if s.Delete != nil {
		kinds = append(kinds, StepDelete)
	}
	if s.ClearCompleted {
		kinds = append(kinds, StepClearCompleted)
	}
	if s.Filter != nil {
		kinds = append(kinds, StepFilter)
	}
	if s.Reload {
		kinds = append(kinds, StepReload)
	}
	if s.Hover != nil {
		kinds = append(kinds, StepHover)
	}
	if s.ExpectCount != nil {
		kinds = append(kinds, StepExpectCount)
	}
	if s.ExpectRemaining != nil {
		kinds = append(kinds, StepExpectRemaining)
	}
	return kinds
}

// Kind returns the step's single action key, or "" when the step is malformed.
func (s Step) Kind() string {
	kinds := s.Kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// String renders the step the way it reads in YAML, for traces and logs.
func (s Step) String() string {
	switch s.Kind() {
	case StepAdd:
		return fmt.Sprintf("add %q%s", *s.Add, s.keySuffix())
	case StepTypeTrigger:
		return fmt.Sprintf("type_trigger %q%s", *s.TypeTrigger, s.keySuffix())
	case StepToggle:
		return fmt.Sprintf("toggle %d", *s.Toggle)
	case StepToggleAll:
		return "toggle_all"
	case StepEdit:
		text := ""
		if s.Text != nil {
			text = *s.Text
		}
		return fmt.Sprintf("edit %d %q%s", *s.Edit, text, s.keySuffix())
	case StepDelete:
		return fmt.Sprintf("delete %d", *s.Delete)
	case StepClearCompleted:
		return "clear_completed"
	case StepFilter:
		return fmt.Sprintf("filter %s", *s.Filter)
	case StepReload:
		return "reload"
	case StepHover:
		return fmt.Sprintf("hover %d", *s.Hover)
	case StepExpectCount:
		return fmt.Sprintf("expect_count %d", *s.ExpectCount)
	case StepExpectRemaining:
		return fmt.Sprintf("expect_remaining %d", *s.ExpectRemaining)
	}
	return fmt.Sprintf("invalid step %v", s.Kinds())
}

func (s Step) keySuffix() string {
	if s.Key == "" {
		return ""
	}
	return " key=" + s.Key
}

// String renders the assertion for traces and logs.
func (a Assertion) String() string {
	target := "any"
	if a.Index != nil {
		target = fmt.Sprintf("%d", *a.Index)
	}
	switch a.Type {
	case AssertItemContains, AssertItemNotContains:
		return fmt.Sprintf("%s %s %q", a.Type, target, a.Text)
	case AssertItemHasClass, AssertItemNotHasClass:
		if a.Index == nil {
			target = "every"
		}
		return fmt.Sprintf("%s %s %s", a.Type, target, a.Class)
	case AssertCount, AssertRemaining:
		count := -1
		if a.Count != nil {
			count = *a.Count
		}
		return fmt.Sprintf("%s %d", a.Type, count)
	case AssertVisible, AssertNotVisible:
		return fmt.Sprintf("%s %s", a.Type, a.Selector)
	}
	return a.Type
}

// Validate checks the scenario structure, then the step and assertion arguments the struct
// tags cannot express.
func (sc *Scenario) Validate() error {
	validate := validator.New()
	if err := validate.Struct(sc); err != nil {
		return err
	}

	if len(sc.Setup)+len(sc.Flow) == 0 {
		return errors.New("scenario has no setup or flow steps")
	}

	var problems []string
	check := func(phase string, i int, step Step) {
		if err := step.validate(); err != nil {
			problems = append(problems, fmt.Sprintf("%s[%d]: %v", phase, i, err))
		}
	}
	for i, step := range sc.Setup {
		check("setup", i, step)
	}
	for i, step := range sc.Flow {
		check("flow", i, step)
	}
	for i, a := range sc.Assertions {
		if (a.Type == AssertCount || a.Type == AssertRemaining) && a.Count == nil {
			problems = append(problems, fmt.Sprintf("assertions[%d]: %s needs count", i, a.Type))
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func (s Step) validate() error {
	kinds := s.Kinds()
	switch len(kinds) {
	case 0:
		return errors.New("step has no action")
	case 1:
	default:
		return fmt.Errorf("step has several actions %v", kinds)
	}

	kind := kinds[0]
	if s.Text != nil && kind != StepEdit {
		return fmt.Errorf("text is only valid on %s", StepEdit)
	}
	if s.Key != "" {
		if kind != StepAdd && kind != StepEdit && kind != StepTypeTrigger {
			return fmt.Errorf("key is not valid on %s", kind)
		}
		if _, err := harness.ParseKeySignal(s.Key); err != nil {
			return err
		}
	}
	if kind == StepTypeTrigger && s.Key == "" {
		return fmt.Errorf("%s needs key", StepTypeTrigger)
	}
	if kind == StepEdit && s.Text == nil {
		return fmt.Errorf("%s needs text", StepEdit)
	}
	if kind == StepFilter {
		if _, err := harness.ParseFilter(*s.Filter); err != nil {
			return err
		}
	}
	return nil
}

// Parse decodes one scenario document. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", sc.Name, err)
	}
	return &sc, nil
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	return sc, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name. Duplicate scenario
// names are rejected.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	seen := map[string]string{}
	for _, name := range names {
		sc, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[sc.Name]; ok {
			return nil, fmt.Errorf("scenario %q defined in both %s and %s", sc.Name, previous, name)
		}
		seen[sc.Name] = name
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// LoadPaths loads files and directories in order.
func LoadPaths(paths ...string) ([]*Scenario, error) {
	var scenarios []*Scenario
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			loaded, err := LoadDir(p)
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, loaded...)
			continue
		}
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}
