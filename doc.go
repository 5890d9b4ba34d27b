// Package solvereg fits difficulty models to sudoku solve statistics.
//
// A solves file is a CSV whose first column is the difficulty rating of a
// puzzle and whose remaining columns count how often each solving technique
// was needed. solvereg regresses the rating on those counts and exports the
// resulting weights so a puzzle generator can score new puzzles.
//
// # Quick Start
//
//	solves, err := dataset.Load("solves.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cv := linear.NewRidgeCV(linear.WithAlphas(0.1, 1, 10), linear.WithFolds(5))
//	if err := cv.Fit(solves.X(), solves.Y()); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("alpha:", cv.Alpha, "cv R2:", cv.BestScore)
//
// # Packages
//
//   - dataset: solves CSV loading
//   - linear: LinearRegression, Ridge and RidgeCV
//   - modelselection: KFold splitting and cross-validated scoring
//   - metrics: MSE, RMSE, MAE, R2 and explained variance
//   - preprocessing: StandardScaler used to centre and scale features
//   - weka: runs Weka SMOreg and scrapes its printed weights
//   - codegen: renders weights as a generated Go source file
//   - report: coefficient tables, fold scores and prediction plots
//   - core/model: estimator interfaces and serialisable weights
//   - core/parallel: row-parallel helpers
//
// The solvereg command in cmd/solvereg wires these together.
package solvereg
