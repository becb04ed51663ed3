package executor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/denizgursoy/naica/pkg/naica"
)

var (
	// ErrDuplicateStep is returned when a pattern is registered twice.
	ErrDuplicateStep = errors.New("duplicate step pattern")
	// ErrUndefinedStep is returned when no pattern matches a step text.
	ErrUndefinedStep = errors.New("undefined step")
)

var (
	contextType    = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	runContextType = reflect.TypeOf((*naica.RunContext)(nil))
	boolType       = reflect.TypeOf(true)
)

// StepDefinition holds a compiled regex pattern and its associated function
type StepDefinition struct {
	Pattern  *regexp.Regexp
	Function any
}

// StepExecutor matches step text against registered definitions and binds
// the match to a naica.Action.
type StepExecutor struct {
	steps      []StepDefinition
	patternSet map[string]bool // Track registered patterns for duplicate detection
}

// NewStepExecutor creates a new StepExecutor
func NewStepExecutor() *StepExecutor {
	return &StepExecutor{
		steps:      make([]StepDefinition, 0),
		patternSet: make(map[string]bool),
	}
}

// RegisterStep registers a step definition with its regex pattern and function.
//
// The function may take *naica.RunContext and context.Context parameters,
// which are injected, plus one parameter per capture group. It may return
// nothing, a bool, an error, or a bool and an error.
func (e *StepExecutor) RegisterStep(pattern string, fn any) error {
	if e.patternSet[pattern] {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("step handler must be a function, got %T", fn)
	}
	for i := 0; i < fnType.NumOut(); i++ {
		out := fnType.Out(i)
		if out != boolType && out != errorType {
			return fmt.Errorf("step handler for %q has unsupported return type %s", pattern, out)
		}
	}

	e.steps = append(e.steps, StepDefinition{
		Pattern:  compiled,
		Function: fn,
	})
	e.patternSet[pattern] = true
	return nil
}

// MustRegisterStep is like RegisterStep but panics on error.
func (e *StepExecutor) MustRegisterStep(pattern string, fn any) *StepExecutor {
	if err := e.RegisterStep(pattern, fn); err != nil {
		panic(err)
	}
	return e
}

// Len returns the number of registered steps.
func (e *StepExecutor) Len() int {
	return len(e.steps)
}

// Match returns the first definition matching text along with the captured
// groups.
func (e *StepExecutor) Match(text string) (StepDefinition, []string, bool) {
	for _, stepDef := range e.steps {
		matches := stepDef.Pattern.FindStringSubmatch(text)
		if matches == nil {
			continue
		}
		return stepDef, matches[1:], true
	}
	return StepDefinition{}, nil, false
}

// Action binds text to its step definition. The returned action records the
// error text of a failing step as a result on the current step.
func (e *StepExecutor) Action(text string) (naica.Action, error) {
	stepDef, args, ok := e.Match(text)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedStep, text)
	}

	return naica.ActionFunc(func(rc *naica.RunContext) bool {
		passed, err := invokeStepFunction(rc, stepDef.Function, args)
		if err != nil {
			rc.AddResult(err.Error())
			return false
		}
		return passed
	}), nil
}

// invokeStepFunction calls the step function with proper argument conversion
func invokeStepFunction(rc *naica.RunContext, fn any, args []string) (bool, error) {
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	callArgs, err := buildCallArgs(rc, fnType, args)
	if err != nil {
		return false, err
	}

	results := fnValue.Call(callArgs)

	return processReturnValues(fnType, results)
}

// buildCallArgs constructs the argument slice for function invocation
func buildCallArgs(rc *naica.RunContext, fnType reflect.Type, capturedArgs []string) ([]reflect.Value, error) {
	numParams := fnType.NumIn()
	callArgs := make([]reflect.Value, 0, numParams)

	capturedIndex := 0

	for i := 0; i < numParams; i++ {
		paramType := fnType.In(i)

		if paramType == runContextType {
			callArgs = append(callArgs, reflect.ValueOf(rc))
			continue
		}

		if paramType.Kind() == reflect.Interface && paramType.Implements(contextType) {
			callArgs = append(callArgs, reflect.ValueOf(rc.Context()))
			continue
		}

		if capturedIndex >= len(capturedArgs) {
			return nil, fmt.Errorf("not enough captured arguments: expected %d more, have %d", numParams-i, len(capturedArgs)-capturedIndex)
		}

		arg := capturedArgs[capturedIndex]
		capturedIndex++

		converted, err := convertArg(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("failed to convert argument %q to %s: %w", arg, paramType, err)
		}
		callArgs = append(callArgs, converted)
	}

	return callArgs, nil
}

// processReturnValues turns the bool and error results into a step result.
// A step without a bool result passes unless it returns an error.
func processReturnValues(fnType reflect.Type, results []reflect.Value) (bool, error) {
	passed := true
	var retErr error

	for i := 0; i < len(results); i++ {
		result := results[i]
		resultType := fnType.Out(i)

		if resultType == boolType {
			passed = result.Bool()
			continue
		}

		if resultType == errorType && !result.IsNil() {
			retErr = result.Interface().(error)
		}
	}

	return passed && retErr == nil, retErr
}

// convertArg converts a string argument to the target type
func convertArg(arg string, targetType reflect.Type) (reflect.Value, error) {
	switch targetType.Kind() {
	case reflect.String:
		return reflect.ValueOf(arg).Convert(targetType), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(arg, 10, targetType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(targetType), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(arg, 10, targetType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(targetType), nil

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(arg, targetType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(targetType), nil

	case reflect.Bool:
		v, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(targetType), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", targetType.Kind())
	}
}
