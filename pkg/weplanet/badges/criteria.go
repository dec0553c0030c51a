package badges

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// ErrInvalidCriteria is returned for criteria that do not compile to a boolean
var ErrInvalidCriteria = errors.New("invalid badge criteria")

// Env is the set of user statistics a criteria expression can refer to
type Env struct {
	TotalPoints     int     `expr:"total_points"`
	TotalActivities int     `expr:"total_activities"`
	StreakDays      int     `expr:"streak_days"`
	TotalCO2Saved   float64 `expr:"total_co2_saved"`
	Level           int     `expr:"level"`
}

// EnvFor snapshots the statistics of u
func EnvFor(u *models.User) Env {
	return Env{
		TotalPoints:     u.TotalPoints,
		TotalActivities: u.TotalActivities,
		StreakDays:      u.StreakDays,
		TotalCO2Saved:   u.TotalCO2Saved,
		Level:           u.Level,
	}
}

// Criteria is a compiled badge condition
type Criteria struct {
	source  string
	program *vm.Program
}

// Compile type checks source against Env and requires a boolean result
func Compile(source string) (*Criteria, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", ErrInvalidCriteria)
	}
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidCriteria, source, err)
	}
	return &Criteria{source: source, program: program}, nil
}

// String returns the expression source
func (c *Criteria) String() string {
	return c.source
}

// Match evaluates the criteria against env
func (c *Criteria) Match(env Env) (bool, error) {
	out, err := expr.Run(c.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", c.source, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w: got %T", c.source, ErrInvalidCriteria, out)
	}
	return matched, nil
}

// programCache holds compiled expressions keyed by source
type programCache[T any] struct {
	mu       sync.RWMutex
	compile  func(string) (T, error)
	programs map[string]T
}

func newProgramCache[T any](compile func(string) (T, error)) *programCache[T] {
	return &programCache[T]{compile: compile, programs: make(map[string]T)}
}

func (pc *programCache[T]) get(source string) (T, error) {
	pc.mu.RLock()
	c, ok := pc.programs[source]
	pc.mu.RUnlock()
	if ok {
		return c, nil
	}

	c, err := pc.compile(source)
	if err != nil {
		var zero T
		return zero, err
	}
	pc.mu.Lock()
	pc.programs[source] = c
	pc.mu.Unlock()
	return c, nil
}
