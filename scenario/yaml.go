package scenario

import (
	"fmt"
	"os"
	"time"

	"github.com/tuiharness/bte/invariant"
	"github.com/tuiharness/bte/keys"
	"gopkg.in/yaml.v3"
)

// yamlScenario mirrors Scenario but with plain, serializable fields; step
// and invariant polymorphism is resolved through their "type" discriminator
// after unmarshaling.
type yamlScenario struct {
	Name     string   `yaml:"name"`
	Command  yamlCmd  `yaml:"command"`
	Terminal yamlSize `yaml:"terminal"`
	Env      []string `yaml:"env"`
	Seed     *uint64  `yaml:"seed"`
	Timeout  string   `yaml:"timeout"`

	Steps      []yamlStep `yaml:"steps"`
	Invariants []yamlInv  `yaml:"invariants"`
}

type yamlCmd struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
	Dir     string   `yaml:"dir"`
}

type yamlSize struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type yamlStep struct {
	Type string `yaml:"type"`

	Pattern      string `yaml:"pattern"`
	TimeoutTicks uint64 `yaml:"timeout_ticks"`
	Ticks        uint64 `yaml:"ticks"`

	Text  string   `yaml:"text"`
	Keys  []string `yaml:"keys"`
	Ctrls string   `yaml:"ctrls"`
	Alts  string   `yaml:"alts"`

	Signal string `yaml:"signal"`

	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`

	Anywhere bool `yaml:"anywhere"`
	Row      int  `yaml:"row"`
	Col      int  `yaml:"col"`

	Name string `yaml:"name"`

	Invariant *yamlInv `yaml:"invariant"`
}

type yamlInv struct {
	Type           string   `yaml:"type"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Pattern        string   `yaml:"pattern"`
	TimeoutTicks   uint64   `yaml:"timeout_ticks"`
	MinTicks       uint64   `yaml:"min_ticks"`
	MaxTicks       uint64   `yaml:"max_ticks"`
	Signal         string   `yaml:"signal"`
	AllowedSignals []string `yaml:"allowed_signals"`
	CursorRow      *int     `yaml:"cursor_row"`
	CursorCol      *int     `yaml:"cursor_col"`
}

// LoadFile reads a YAML scenario file from path and decodes it into a
// Scenario. The returned Scenario is not validated; callers should run it
// through Validate before use.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses raw YAML bytes into a Scenario.
func Decode(data []byte) (Scenario, error) {
	var y yamlScenario
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Scenario{}, fmt.Errorf("scenario: decode yaml: %w", err)
	}

	scn := Scenario{
		Name:     y.Name,
		Command:  Command{Program: y.Command.Program, Args: y.Command.Args, Dir: y.Command.Dir},
		Terminal: TerminalSize{Cols: y.Terminal.Cols, Rows: y.Terminal.Rows},
		Env:      y.Env,
		Seed:     y.Seed,
	}

	if y.Timeout != "" {
		d, err := time.ParseDuration(y.Timeout)
		if err != nil {
			return Scenario{}, fmt.Errorf("scenario: parse timeout %q: %w", y.Timeout, err)
		}
		scn.Timeout = d
	}

	for i, s := range y.Steps {
		step, err := decodeStep(s)
		if err != nil {
			return Scenario{}, fmt.Errorf("scenario: steps[%d]: %w", i, err)
		}
		scn.Steps = append(scn.Steps, step)
	}

	for i, inv := range y.Invariants {
		parsed, err := decodeInvariant(inv)
		if err != nil {
			return Scenario{}, fmt.Errorf("scenario: invariants[%d]: %w", i, err)
		}
		scn.Invariants = append(scn.Invariants, parsed)
	}

	return scn, nil
}

func decodeStep(s yamlStep) (Step, error) {
	switch s.Type {
	case "wait_for":
		return WaitFor{Pattern: s.Pattern, TimeoutTicks: s.TimeoutTicks}, nil
	case "wait_ticks":
		return WaitTicks{Ticks: s.Ticks}, nil
	case "send_keys":
		seq, err := decodeSequence(s.Text, s.Keys, s.Ctrls, s.Alts)
		if err != nil {
			return nil, err
		}
		return SendKeys{Keys: seq}, nil
	case "send_signal":
		return SendSignal{Signal: s.Signal}, nil
	case "resize":
		return Resize{Cols: s.Cols, Rows: s.Rows}, nil
	case "assert_screen":
		return AssertScreen{Pattern: s.Pattern, Anywhere: s.Anywhere, Row: s.Row}, nil
	case "assert_cursor":
		return AssertCursor{Row: s.Row, Col: s.Col}, nil
	case "snapshot":
		return Snapshot{Name: s.Name}, nil
	case "check_invariant":
		if s.Invariant == nil {
			return nil, fmt.Errorf("check_invariant step requires an inline invariant")
		}
		inv, err := decodeInvariant(*s.Invariant)
		if err != nil {
			return nil, err
		}
		return CheckInvariant{Invariant: inv}, nil
	default:
		return nil, fmt.Errorf("unknown step type %q", s.Type)
	}
}

func decodeSequence(text string, keyNames []string, ctrls, alts string) (keys.Sequence, error) {
	seq := keys.Sequence{Text: text}
	for _, name := range keyNames {
		k, err := keys.ParseSpecialName(name)
		if err != nil {
			return keys.Sequence{}, err
		}
		seq.Keys = append(seq.Keys, k)
	}
	for i := 0; i < len(ctrls); i++ {
		seq.Ctrls = append(seq.Ctrls, ctrls[i])
	}
	for _, r := range alts {
		seq.Alts = append(seq.Alts, r)
	}
	return seq, nil
}

func decodeInvariant(inv yamlInv) (invariant.Invariant, error) {
	switch inv.Type {
	case "cursor_bounds":
		return invariant.CursorBounds{}, nil
	case "no_deadlock":
		return invariant.NoDeadlock{TimeoutTicks: inv.TimeoutTicks}, nil
	case "signal_handled":
		return invariant.SignalHandled{Signal: inv.Signal}, nil
	case "screen_contains":
		return invariant.ScreenContains{Pattern: inv.Pattern}, nil
	case "screen_not_contains":
		return invariant.ScreenNotContains{Pattern: inv.Pattern}, nil
	case "screen_changed":
		return invariant.ScreenChanged{}, nil
	case "screen_stable":
		return invariant.ScreenStable{MinTicks: inv.MinTicks}, nil
	case "no_output_after_exit":
		return invariant.NoOutputAfterExit{}, nil
	case "process_terminated_cleanly":
		return invariant.ProcessTerminatedCleanly{AllowedSignals: inv.AllowedSignals}, nil
	case "viewport_valid":
		return invariant.ViewportValid{}, nil
	case "response_time":
		return invariant.ResponseTime{MaxTicks: inv.MaxTicks}, nil
	case "max_latency":
		return invariant.MaxLatency{MaxTicks: inv.MaxTicks}, nil
	case "custom":
		c := invariant.Custom{CustomName: inv.Name, Description: inv.Description, CursorRow: inv.CursorRow, CursorCol: inv.CursorCol}
		if inv.Pattern != "" {
			re, err := invariant.CompilePattern(inv.Pattern)
			if err != nil {
				return nil, err
			}
			c.Pattern = re
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown invariant type %q", inv.Type)
	}
}
