package models

// DTNode is one node of a binary tree. Rows with x[Feature] <= Threshold
// descend Left.
type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	ProbaLeaf float64
}

// DecisionTree scores a vector with the probability of the leaf it reaches.
// An empty tree scores 0.5.
type DecisionTree struct {
	Root *DTNode
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Predict(X [][]float64) []int { return threshold(dt.PredictProba(X)) }

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.predictOne(X[i])
	}
	return out
}

func (dt *DecisionTree) predictOne(x []float64) float64 {
	n := dt.Root
	for n != nil && !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return 0.5
	}
	return n.ProbaLeaf
}

func (dt *DecisionTree) checkFeatures(width int) error { return checkNode(dt.Root, width) }

func checkNode(n *DTNode, width int) error {
	if n == nil || n.IsLeaf {
		return nil
	}
	if err := checkFeature(n.Feature, width); err != nil {
		return err
	}
	if err := checkNode(n.Left, width); err != nil {
		return err
	}
	return checkNode(n.Right, width)
}
