package model

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/labauto/pathovar/internal/table"
)

// CrossValidate reports the mean ROC AUC over stratified k-fold
// cross-validation. Folds are assigned round-robin within each class so every
// fold sees both labels.
func CrossValidate(t *table.Table, k int, opts TrainOptions) (float64, error) {
	if k < 2 {
		return 0, fmt.Errorf("cross-validation requires at least 2 folds, got %d", k)
	}
	if !t.Labeled {
		return 0, fmt.Errorf("feature table has no label column")
	}

	x := t.Matrix()
	y := t.Labels()

	folds := stratifiedFolds(y, k)

	var sum float64
	for fold := 0; fold < k; fold++ {
		var trainX, testX [][]float64
		var trainY, testY []int
		for i := range x {
			if folds[i] == fold {
				testX = append(testX, x[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}

		m, err := fit(t.Schema, trainX, trainY, opts)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", fold, err)
		}

		auc, err := rocAUC(m.PredictProba(testX), testY)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", fold, err)
		}
		sum += auc
	}

	return sum / float64(k), nil
}

// AUC computes the ROC AUC of the model over a labeled table.
func (m *LogisticModel) AUC(t *table.Table) (float64, error) {
	if !t.Labeled {
		return 0, fmt.Errorf("feature table has no label column")
	}
	return rocAUC(m.PredictProba(t.Matrix()), t.Labels())
}

func rocAUC(scores []float64, y []int) (float64, error) {
	classes := make([]bool, len(y))
	positives := 0
	for i, label := range y {
		classes[i] = label == 1
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(y) {
		return 0, &SingleClassLabelError{Distribution: labelDistribution(y)}
	}

	s := append([]float64(nil), scores...)
	stat.SortWeightedLabeled(s, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, s, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// stratifiedFolds assigns each row a fold index, round-robin within each
// observed label.
func stratifiedFolds(y []int, k int) []int {
	folds := make([]int, len(y))
	next := make(map[int]int)
	for i, label := range y {
		folds[i] = next[label] % k
		next[label]++
	}
	return folds
}
