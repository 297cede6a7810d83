// Package scheduler provides the default scheduler delegate for the
// study engine: a deterministic interval-growth scheduler with
// learning steps, lapse handling and per-rating multipliers.
//
// The engine treats the delegate as an opaque pure function, so this
// implementation is freely replaceable by a retention-model scheduler
// behind the same engine.Scheduler interface.
package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/mnemo-app/mnemo/internal/card"
	"github.com/mnemo-app/mnemo/internal/engine"
)

// Config configures a Basic scheduler.
// Zero values produce sensible defaults; see field comments.
type Config struct {
	LearningSteps   []time.Duration // nil → [1m, 10m]; empty → graduate immediately.
	RelearningSteps []time.Duration // nil → [10m]; empty → graduate immediately.
	GraduatingDays  int             // zero → 1: first review interval after learning.
	EasyDays        int             // zero → 4: review interval for an easy graduate.
	HardFactor      float64         // zero → 1.2
	GoodFactor      float64         // zero → 2.5
	EasyFactor      float64         // zero → 3.5
	MaximumDays     int             // zero → 36500
}

// Basic is a deterministic interval-growth scheduler.
type Basic struct {
	cfg Config
}

// Compile-time check that Basic satisfies the engine boundary.
var _ engine.Scheduler = (*Basic)(nil)

// New creates a Basic scheduler from the config, filling zero-value
// fields with defaults.
func New(cfg Config) *Basic {
	if cfg.LearningSteps == nil {
		cfg.LearningSteps = []time.Duration{time.Minute, 10 * time.Minute}
	}
	if cfg.RelearningSteps == nil {
		cfg.RelearningSteps = []time.Duration{10 * time.Minute}
	}
	if cfg.GraduatingDays == 0 {
		cfg.GraduatingDays = 1
	}
	if cfg.EasyDays == 0 {
		cfg.EasyDays = 4
	}
	if cfg.HardFactor == 0 {
		cfg.HardFactor = 1.2
	}
	if cfg.GoodFactor == 0 {
		cfg.GoodFactor = 2.5
	}
	if cfg.EasyFactor == 0 {
		cfg.EasyFactor = 3.5
	}
	if cfg.MaximumDays == 0 {
		cfg.MaximumDays = 36500
	}
	return &Basic{cfg: cfg}
}

// Grade computes the next scheduling state for one rated review.
// Pure and deterministic: the same prior state, rating and now always
// yield the same result, and the prior state is not mutated.
func (s *Basic) Grade(prior card.SchedulingState, rating card.Rating, now time.Time) (engine.SchedulerResult, error) {
	if !rating.IsRecall() {
		return engine.SchedulerResult{}, fmt.Errorf("scheduler: rating %s is not a recall grade", rating)
	}

	next := prior.Clone()
	next.Reps++
	next.BuriedUntil = nil

	switch {
	case prior.Stage == card.StageNew:
		s.gradeNew(&next, rating, now)
	case prior.Stage == card.StageLearning || prior.Stage == card.StageRelearning:
		s.gradeStep(&next, rating, now)
	default:
		// Review, plus unknown stages: the engine fails open on those
		// and we schedule them as review items.
		s.gradeReview(&next, rating, now)
	}

	return engine.SchedulerResult{
		Next:        next,
		PreviousDue: prior.Clone().Due,
		NextDue:     next.Clone().Due,
	}, nil
}

func (s *Basic) gradeNew(st *card.SchedulingState, rating card.Rating, now time.Time) {
	if rating == card.Easy {
		s.graduate(st, now, s.cfg.EasyDays)
		return
	}
	if len(s.cfg.LearningSteps) == 0 {
		s.graduate(st, now, s.cfg.GraduatingDays)
		return
	}
	st.Stage = card.StageLearning
	st.StepIndex = 0
	s.setDue(st, now, s.cfg.LearningSteps[0])
}

func (s *Basic) gradeStep(st *card.SchedulingState, rating card.Rating, now time.Time) {
	steps := s.cfg.LearningSteps
	graduationDays := s.cfg.GraduatingDays
	if st.Stage == card.StageRelearning {
		steps = s.cfg.RelearningSteps
		// A relearned item resumes at its last interval, floored at one day.
		if st.ScheduledDays > graduationDays {
			graduationDays = st.ScheduledDays
		}
	}

	switch rating {
	case card.Again:
		st.StepIndex = 0
		if len(steps) == 0 {
			s.graduate(st, now, graduationDays)
			return
		}
		s.setDue(st, now, steps[0])
	case card.Hard:
		// Repeat the current step.
		idx := st.StepIndex
		if idx >= len(steps) {
			idx = len(steps) - 1
		}
		if idx < 0 {
			s.graduate(st, now, graduationDays)
			return
		}
		st.StepIndex = idx
		s.setDue(st, now, steps[idx])
	case card.Good:
		idx := st.StepIndex + 1
		if idx >= len(steps) {
			s.graduate(st, now, graduationDays)
			return
		}
		st.StepIndex = idx
		s.setDue(st, now, steps[idx])
	case card.Easy:
		s.graduate(st, now, s.cfg.EasyDays)
	}
}

func (s *Basic) gradeReview(st *card.SchedulingState, rating card.Rating, now time.Time) {
	if rating == card.Again {
		st.Stage = card.StageRelearning
		st.Lapses++
		st.StepIndex = 0
		if len(s.cfg.RelearningSteps) == 0 {
			s.graduate(st, now, 1)
			return
		}
		s.setDue(st, now, s.cfg.RelearningSteps[0])
		return
	}

	factor := s.cfg.GoodFactor
	switch rating {
	case card.Hard:
		factor = s.cfg.HardFactor
	case card.Easy:
		factor = s.cfg.EasyFactor
	}
	days := int(math.Round(float64(st.ScheduledDays) * factor))
	if days <= st.ScheduledDays {
		days = st.ScheduledDays + 1
	}
	if days > s.cfg.MaximumDays {
		days = s.cfg.MaximumDays
	}
	s.graduate(st, now, days)
}

// graduate moves the item into the review stage with a day interval.
func (s *Basic) graduate(st *card.SchedulingState, now time.Time, days int) {
	if days > s.cfg.MaximumDays {
		days = s.cfg.MaximumDays
	}
	st.Stage = card.StageReview
	st.StepIndex = 0
	st.ScheduledDays = days
	due := now.AddDate(0, 0, days)
	st.Due = &due
}

// setDue keeps the item in its step stage with a sub-day delay.
func (s *Basic) setDue(st *card.SchedulingState, now time.Time, step time.Duration) {
	due := now.Add(step)
	st.Due = &due
}
