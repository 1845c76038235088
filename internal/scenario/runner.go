package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/todo-e2e/internal/harness"
)

// Trace phases.
const (
	PhaseOpen      = "open"
	PhaseSetup     = "setup"
	PhaseFlow      = "flow"
	PhaseAssertion = "assertion"
)

// Trace statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// TraceEvent records one executed (or skipped) step and the list it left behind.
type TraceEvent struct {
	Seq    int      `yaml:"seq" json:"seq"`
	Phase  string   `yaml:"phase" json:"phase"`
	Step   string   `yaml:"step" json:"step"`
	Status string   `yaml:"status" json:"status"`
	Error  string   `yaml:"error,omitempty" json:"error,omitempty"`
	Items  []string `yaml:"items,omitempty" json:"items,omitempty"`
}

// Result is the outcome of one scenario.
type Result struct {
	Name     string        `yaml:"name" json:"name"`
	Pass     bool          `yaml:"pass" json:"pass"`
	Errors   []string      `yaml:"errors,omitempty" json:"errors,omitempty"`
	Trace    []TraceEvent  `yaml:"trace" json:"trace"`
	Duration time.Duration `yaml:"-" json:"duration"`
}

// Runner executes scenarios against a driver.
type Runner struct {
	driver Driver
	logger arbor.ILogger
}

// NewRunner creates a runner. A nil logger is replaced by an arbor logger with no writers.
func NewRunner(driver Driver, logger arbor.ILogger) *Runner {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Runner{driver: driver, logger: logger}
}

// Run opens the application, runs setup and flow steps in order, then evaluates every
// assertion. Setup and flow stop at the first failure and the remaining work is traced as
// skipped. A cancelled ctx stops the run between steps.
func (r *Runner) Run(ctx context.Context, sc *Scenario) *Result {
	start := time.Now()
	res := &Result{Name: sc.Name, Trace: []TraceEvent{}}
	defer func() {
		res.Pass = len(res.Errors) == 0
		res.Duration = time.Since(start)
		r.logger.Info().
			Str("scenario", sc.Name).
			Bool("pass", res.Pass).
			Int("errors", len(res.Errors)).
			Str("duration", res.Duration.Round(time.Millisecond).String()).
			Msg("Scenario finished")
	}()

	r.logger.Info().Str("scenario", sc.Name).Msg("Scenario started")

	if err := r.driver.OpenApp(); err != nil {
		r.record(res, PhaseOpen, "open_app", err, false)
		r.skipRest(res, sc, PhaseSetup, 0)
		return res
	}
	r.record(res, PhaseOpen, "open_app", nil, true)

	phases := []struct {
		name  string
		steps []Step
	}{
		{PhaseSetup, sc.Setup},
		{PhaseFlow, sc.Flow},
	}
	for _, phase := range phases {
		for i, step := range phase.steps {
			if err := ctx.Err(); err != nil {
				r.record(res, phase.name, step.String(), fmt.Errorf("run cancelled: %w", err), false)
				r.skipRest(res, sc, phase.name, i+1)
				return res
			}

			err := r.execute(step)
			r.record(res, phase.name, step.String(), err, true)
			if err != nil {
				r.skipRest(res, sc, phase.name, i+1)
				return res
			}
		}
	}

	for _, a := range sc.Assertions {
		if err := ctx.Err(); err != nil {
			r.record(res, PhaseAssertion, a.String(), fmt.Errorf("run cancelled: %w", err), false)
			continue
		}
		r.record(res, PhaseAssertion, a.String(), r.check(a), false)
	}

	return res
}

// record appends a trace event. Failures are also collected in Errors.
func (r *Runner) record(res *Result, phase, step string, err error, snapshot bool) {
	event := TraceEvent{
		Seq:    len(res.Trace) + 1,
		Phase:  phase,
		Step:   step,
		Status: StatusOK,
	}
	if err != nil {
		event.Status = StatusFailed
		event.Error = err.Error()
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %s: %v", phase, step, err))
		r.logger.Warn().
			Str("phase", phase).
			Str("step", step).
			Bool("timeout", harness.IsTimeout(err)).
			Err(err).
			Msg("Step failed")
	} else {
		r.logger.Debug().Str("phase", phase).Str("step", step).Msg("Step passed")
	}

	if snapshot {
		views, serr := r.driver.Snapshot()
		if serr != nil {
			r.logger.Warn().Err(serr).Msg("Snapshot failed")
		}
		for _, v := range views {
			event.Items = append(event.Items, v.String())
		}
	}

	res.Trace = append(res.Trace, event)
}

// skipRest traces every step after position from in phase, and all later work, as skipped.
func (r *Runner) skipRest(res *Result, sc *Scenario, phase string, from int) {
	skip := func(phase, step string) {
		res.Trace = append(res.Trace, TraceEvent{
			Seq:    len(res.Trace) + 1,
			Phase:  phase,
			Step:   step,
			Status: StatusSkipped,
		})
	}

	if phase == PhaseSetup {
		for _, step := range sc.Setup[min(from, len(sc.Setup)):] {
			skip(PhaseSetup, step.String())
		}
		from = 0
	}
	for _, step := range sc.Flow[min(from, len(sc.Flow)):] {
		skip(PhaseFlow, step.String())
	}
	for _, a := range sc.Assertions {
		skip(PhaseAssertion, a.String())
	}
}

// execute performs one validated step.
func (r *Runner) execute(step Step) error {
	d := r.driver

	switch step.Kind() {
	case StepAdd:
		var opts []harness.AddOption
		if step.Key != "" {
			key, err := harness.ParseKeySignal(step.Key)
			if err != nil {
				return err
			}
			opts = append(opts, harness.WithTerminator(key))
		}
		return d.AddItem(*step.Add, opts...)
	case StepTypeTrigger:
		key, err := harness.ParseKeySignal(step.Key)
		if err != nil {
			return err
		}
		return d.TypeAndTrigger(*step.TypeTrigger, key)
	case StepToggle:
		return d.ToggleItem(*step.Toggle)
	case StepToggleAll:
		return d.ToggleAll()
	case StepEdit:
		key := harness.KeyEnter
		if step.Key != "" {
			parsed, err := harness.ParseKeySignal(step.Key)
			if err != nil {
				return err
			}
			key = parsed
		}
		text := ""
		if step.Text != nil {
			text = *step.Text
		}
		return d.EditItem(*step.Edit, text, key)
	case StepDelete:
		return d.DeleteItem(*step.Delete)
	case StepClearCompleted:
		return d.ClearCompleted()
	case StepFilter:
		f, err := harness.ParseFilter(*step.Filter)
		if err != nil {
			return err
		}
		return d.FollowFilter(f)
	case StepReload:
		return d.Reload()
	case StepHover:
		return d.HoverItem(*step.Hover)
	case StepExpectCount:
		return d.ExpectCount(*step.ExpectCount)
	case StepExpectRemaining:
		return d.ExpectRemaining(*step.ExpectRemaining)
	}
	return errors.New("step has no single action")
}

// check evaluates one assertion.
func (r *Runner) check(a Assertion) error {
	d := r.driver

	index := -1
	if a.Index != nil {
		index = *a.Index
	}

	switch a.Type {
	case AssertItemContains:
		return d.ExpectItemContains(index, a.Text)
	case AssertItemNotContains:
		return d.ExpectItemNotContains(index, a.Text)
	case AssertItemHasClass:
		return d.ExpectItemClass(index, a.Class, true)
	case AssertItemNotHasClass:
		return d.ExpectItemClass(index, a.Class, false)
	case AssertCount:
		if a.Count == nil {
			return errors.New("count assertion without count")
		}
		return d.ExpectCount(*a.Count)
	case AssertRemaining:
		if a.Count == nil {
			return errors.New("remaining assertion without count")
		}
		return d.ExpectRemaining(*a.Count)
	case AssertVisible:
		return d.ExpectVisible(a.Selector)
	case AssertNotVisible:
		return d.ExpectNotVisible(a.Selector)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// Run executes sc against driver with a writer-less logger.
func Run(ctx context.Context, driver Driver, sc *Scenario) *Result {
	return NewRunner(driver, nil).Run(ctx, sc)
}
