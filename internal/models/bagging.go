package models

// Bagging is an Ensemble of trees grown on bootstrap samples over every
// feature.
type Bagging struct {
	Ensemble
}

func (bg *Bagging) Name() string { return "Bagging" }
