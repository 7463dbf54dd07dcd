package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a behaviour check: a sequence of tracker operations at a
// fixed instant followed by assertions on the resulting state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the RFC 3339 instant the clock starts at. Defaults to testutil.RefTime.
	Now string `yaml:"now,omitempty"`

	// Flow is executed in order. It may be empty.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op string `yaml:"op"`

	// As names the entity created by add_subject or add_assignment so later
	// steps and assertions can refer to it.
	As string `yaml:"as,omitempty"`

	// Ref names an entity created earlier. An unknown ref is passed through
	// as a literal id, which lets scenarios exercise not-found paths.
	Ref string `yaml:"ref,omitempty"`

	Name     string  `yaml:"name,omitempty"`
	Hours    float64 `yaml:"hours,omitempty"`
	Title    string  `yaml:"title,omitempty"`
	Subject  string  `yaml:"subject,omitempty"`
	Deadline string  `yaml:"deadline,omitempty"`
	Priority string  `yaml:"priority,omitempty"` // passed through; unknown values become Medium

	// By is a time.ParseDuration string used by advance.
	By string `yaml:"by,omitempty"`

	// Expect is "ok" (default) or "skipped".
	Expect string `yaml:"expect,omitempty"`
}

// Step operations.
const (
	OpAddSubject       = "add_subject"
	OpRemoveSubject    = "remove_subject"
	OpLogStudyTime     = "log_study_time"
	OpAddAssignment    = "add_assignment"
	OpToggleAssignment = "toggle_assignment"
	OpRemoveAssignment = "remove_assignment"
	OpAdvance          = "advance"
)

// Step outcomes.
const (
	ExpectOK      = "ok"
	ExpectSkipped = "skipped"
)

// Assertion validates the final state.
type Assertion struct {
	// Type selects the check:
	//   - "count": Collection has Count entries
	//   - "metric": Field (total_hours, weekly_hours, completion_rate) equals Value
	//   - "subject": Field (studied_hours, target_hours, progress) of Ref equals Value
	//   - "completed": assignment Ref has Completed equal to Is
	//   - "recommendations": the recommendation list equals Messages exactly
	//   - "recommendation_contains": some recommendation equals Text
	Type string `yaml:"type"`

	Collection string   `yaml:"collection,omitempty"`
	Count      *int     `yaml:"count,omitempty"`
	Field      string   `yaml:"field,omitempty"`
	Value      *float64 `yaml:"value,omitempty"`
	Ref        string   `yaml:"ref,omitempty"`
	Is         *bool    `yaml:"is,omitempty"`
	Messages   []string `yaml:"messages,omitempty"`
	Text       string   `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertCount                  = "count"
	AssertMetric                 = "metric"
	AssertSubject                = "subject"
	AssertCompleted              = "completed"
	AssertRecommendations        = "recommendations"
	AssertRecommendationContains = "recommendation_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Now != "" {
		if _, err := time.Parse(time.RFC3339, s.Now); err != nil {
			return fmt.Errorf("now: %w", err)
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	aliases := make(map[string]bool)
	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
		if step.As != "" {
			if aliases[step.As] {
				return fmt.Errorf("flow[%d]: alias %q already defined", i, step.As)
			}
			aliases[step.As] = true
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, st *Step) error {
	switch st.Expect {
	case "", ExpectOK, ExpectSkipped:
	default:
		return fmt.Errorf("flow[%d]: expect must be %q or %q", i, ExpectOK, ExpectSkipped)
	}

	switch st.Op {
	case OpAddSubject, OpAddAssignment:
	case OpRemoveSubject, OpLogStudyTime, OpToggleAssignment, OpRemoveAssignment:
		if st.Ref == "" {
			return fmt.Errorf("flow[%d]: ref is required for %s", i, st.Op)
		}
	case OpAdvance:
		if _, err := time.ParseDuration(st.By); err != nil {
			return fmt.Errorf("flow[%d]: by: %w", i, err)
		}
	case "":
		return fmt.Errorf("flow[%d]: op is required", i)
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", i, st.Op)
	}

	if st.As != "" && st.Op != OpAddSubject && st.Op != OpAddAssignment {
		return fmt.Errorf("flow[%d]: as is only valid on %s and %s", i, OpAddSubject, OpAddAssignment)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertCount:
		switch a.Collection {
		case "subjects", "assignments", "sessions":
		default:
			return fmt.Errorf("assertions[%d]: collection must be subjects, assignments or sessions", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for count", index)
		}
	case AssertMetric:
		switch a.Field {
		case "total_hours", "weekly_hours", "completion_rate":
		default:
			return fmt.Errorf("assertions[%d]: unknown metric %q", index, a.Field)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for metric", index)
		}
	case AssertSubject:
		if a.Ref == "" {
			return fmt.Errorf("assertions[%d]: ref is required for subject", index)
		}
		switch a.Field {
		case "studied_hours", "target_hours", "progress":
		default:
			return fmt.Errorf("assertions[%d]: unknown subject field %q", index, a.Field)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for subject", index)
		}
	case AssertCompleted:
		if a.Ref == "" || a.Is == nil {
			return fmt.Errorf("assertions[%d]: ref and is are required for completed", index)
		}
	case AssertRecommendations:
		if len(a.Messages) == 0 {
			return fmt.Errorf("assertions[%d]: messages list is required for recommendations", index)
		}
	case AssertRecommendationContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for recommendation_contains", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
