package ecs

import (
	"fmt"
	"strings"
)

// System is one stage of the fixed tick.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

type stage struct {
	name   string
	system System
}

// Scheduler runs its stages in the order they were added, then advances the
// world tick. Stage order is the tick order; nothing is reordered.
type Scheduler struct {
	stages []stage
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

// Add appends a stage named after the system's type.
func (s *Scheduler) Add(system System) {
	s.AddNamed(stageName(system), system)
}

func (s *Scheduler) AddNamed(name string, system System) {
	if system == nil {
		return
	}
	s.stages = append(s.stages, stage{name: name, system: system})
}

func (s *Scheduler) Update(w *World) {
	for _, st := range s.stages {
		st.system.Update(w)
	}
	w.advanceTick()
}

// Stages lists stage names in run order.
func (s *Scheduler) Stages() []string {
	names := make([]string, 0, len(s.stages))
	for _, st := range s.stages {
		names = append(names, st.name)
	}
	return names
}

func stageName(system System) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", system), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
