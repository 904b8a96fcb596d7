package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/model"
	"github.com/labauto/pathovar/internal/table"
)

func runTrain(args []string) int {
	fs := flag.NewFlagSet("train", flag.ExitOnError)

	var (
		dataPath  string
		modelPath string
		folds     int
		epochs    int
		lr        float64
		l2        float64
		threshold float64
	)

	fs.StringVar(&dataPath, "data", "data/features.duckdb", "Feature table DuckDB file")
	fs.StringVar(&modelPath, "model", "data/model.json", "Output model artifact path")
	fs.IntVar(&folds, "folds", 5, "Stratified cross-validation folds (0 disables CV)")
	fs.IntVar(&epochs, "epochs", 300, "Gradient descent epochs")
	fs.Float64Var(&lr, "lr", 0.1, "Learning rate")
	fs.Float64Var(&l2, "l2", 0.001, "L2 regularization strength")
	fs.Float64Var(&threshold, "threshold", model.DefaultThreshold, "Pathogenic call probability threshold")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Train the pathogenicity classifier on a feature table.

Reads the labeled feature table back from DuckDB (verifying its schema
version), reports stratified cross-validation ROC AUC, fits on the full
table, and saves the model artifact with its schema version embedded.

Usage:
  pathovar train [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pathovar train --data data/features.duckdb --model data/model.json
  pathovar train --folds 10 --epochs 500
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	store, err := table.OpenStore(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening feature store: %v\n", err)
		return ExitError
	}
	defer store.Close()

	tbl, err := store.ReadTable(feature.SchemaV1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading feature table: %v\n", err)
		return ExitError
	}
	if !tbl.Labeled {
		fmt.Fprintf(os.Stderr, "Error: feature table has no label column\n")
		fmt.Fprintf(os.Stderr, "Hint: rebuild it without --no-labels\n")
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Loaded %d rows from %s (schema %s)\n",
		tbl.Stats.Rows, dataPath, tbl.Schema.Version)

	opts := model.TrainOptions{
		Epochs:       epochs,
		LearningRate: lr,
		L2:           l2,
		Threshold:    threshold,
	}

	if folds > 0 {
		auc, err := model.CrossValidate(tbl, folds, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error during cross-validation: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(os.Stderr, "Cross-validation ROC AUC (%d folds): %.4f\n", folds, auc)
	}

	m, err := model.Train(tbl, opts)
	if err != nil {
		var single *model.SingleClassLabelError
		if errors.As(err, &single) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Hint: the input VCF must contain both pathogenic and non-pathogenic records\n")
			return ExitError
		}
		fmt.Fprintf(os.Stderr, "Error training model: %v\n", err)
		return ExitError
	}

	if auc, err := m.AUC(tbl); err == nil {
		fmt.Fprintf(os.Stderr, "Training-set ROC AUC: %.4f\n", auc)
	}

	if err := model.Save(m, modelPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving model: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Saved model (schema %s) -> %s\n", m.SchemaVersion, modelPath)
	return ExitSuccess
}
