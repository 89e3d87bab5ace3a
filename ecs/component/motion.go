package component

import "github.com/milk9111/platformer/motion"

type VerticalMotion struct {
	Controller *motion.VerticalController
	Last       motion.VerticalOutput
}

var VerticalMotionComponent = NewComponent[VerticalMotion]()

type HorizontalMotion struct {
	Controller *motion.HorizontalController
	Last       motion.HorizontalOutput
}

var HorizontalMotionComponent = NewComponent[HorizontalMotion]()

// Tuning remembers the configuration an entity was built with and the prefab
// it came from, so edited prefabs can be re-applied.
type Tuning struct {
	Prefab string
	Config motion.Config
}

var TuningComponent = NewComponent[Tuning]()
