package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type ("LinearRegression", "Ridge", "RidgeCV").
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed: fit, predict, score, cross_validate.
	OperationKey = "ml.operation"

	// ComponentKey is the package doing the work ("linear", "dataset", "weka").
	ComponentKey = "ml.component"

	// AlphaKey is the ridge regularisation strength.
	AlphaKey = "model.alpha"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	PathKey     = "data.path"
	LineKey     = "data.line"
)

// Cross-validation and scores.
const (
	FoldsKey  = "cv.folds"
	FoldKey   = "cv.fold"
	ScoreKey  = "metric.score"
	R2Key     = "metric.r2"
	StdDevKey = "metric.std"
)

// External tool invocation.
const (
	CommandKey    = "tool.command"
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	ErrorKey      = "error"
	StacktraceKey = "error.stacktrace"
)

// Standard values for OperationKey.
const (
	OperationFit           = "fit"
	OperationPredict       = "predict"
	OperationScore         = "score"
	OperationCrossValidate = "cross_validate"
	OperationParse         = "parse"
	OperationTrain         = "train"
)
