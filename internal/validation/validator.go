package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleSet selects the group of rules evaluated for one use case.
type RuleSet int

const (
	RuleSetDefault RuleSet = iota
	RuleSetCreate
	RuleSetUpdate
	RuleSetArchive
	RuleSetComplete
)

func (r RuleSet) String() string {
	switch r {
	case RuleSetDefault:
		return "default"
	case RuleSetCreate:
		return "create"
	case RuleSetUpdate:
		return "update"
	case RuleSetArchive:
		return "archive"
	case RuleSetComplete:
		return "complete"
	default:
		return fmt.Sprintf("ruleset(%d)", int(r))
	}
}

var ErrUnknownRuleSet = errors.New("unknown rule set")

var fields = validator.New()

// Rule is a single predicate with the message reported when it fails.
type Rule[T any] struct {
	Message string
	Check   func(ctx context.Context, candidate T) (bool, error)
}

// Result holds every failure message of one validation run.
type Result struct {
	RuleSet RuleSet
	Errors  []string
}

func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

func (r Result) String() string {
	return strings.Join(r.Errors, ", ")
}

// Validator evaluates rule sets against candidates of one entity type.
type Validator[T any] struct {
	ruleSets map[RuleSet][]Rule[T]
}

func New[T any](ruleSets map[RuleSet][]Rule[T]) *Validator[T] {
	return &Validator[T]{ruleSets: ruleSets}
}

// Validate runs every rule of the selected set and collects all failures.
// An error from a rule's check aborts the run.
func (v *Validator[T]) Validate(ctx context.Context, candidate T, ruleSet RuleSet) (Result, error) {
	rules, ok := v.ruleSets[ruleSet]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownRuleSet, ruleSet)
	}

	result := Result{RuleSet: ruleSet}
	for _, rule := range rules {
		passed, err := rule.Check(ctx, candidate)
		if err != nil {
			return Result{}, fmt.Errorf("failed to evaluate rule %q: %w", rule.Message, err)
		}
		if !passed {
			result.Errors = append(result.Errors, rule.Message)
		}
	}
	return result, nil
}

// withGlobal prefixes each rule set with the global rules.
func withGlobal[T any](global []Rule[T], sets map[RuleSet][]Rule[T]) map[RuleSet][]Rule[T] {
	out := map[RuleSet][]Rule[T]{RuleSetDefault: global}
	for set, rules := range sets {
		out[set] = append(append([]Rule[T]{}, global...), rules...)
	}
	return out
}

func labelRequired[T any](entity string, label func(T) string) Rule[T] {
	return Rule[T]{
		Message: fmt.Sprintf("each %s must have a label", entity),
		Check: func(_ context.Context, candidate T) (bool, error) {
			return fields.Var(strings.TrimSpace(label(candidate)), "required") == nil, nil
		},
	}
}
