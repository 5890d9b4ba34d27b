package linear

// Option configures an estimator in this package.
type Option func(*config)

type config struct {
	fitIntercept bool
	normalize    bool
	alphas       []float64
	folds        int
	shuffle      bool
	seed         uint64
}

func defaultConfig() config {
	return config{
		fitIntercept: true,
		alphas:       DefaultAlphas(),
		folds:        5,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFitIntercept sets whether to fit a constant term. Without it the
// model passes through the origin.
func WithFitIntercept(fit bool) Option {
	return func(c *config) {
		c.fitIntercept = fit
	}
}

// WithNormalize standardises features before a ridge solve. Coefficients are
// reported on the original feature scale. Ignored by LinearRegression.
func WithNormalize(normalize bool) Option {
	return func(c *config) {
		c.normalize = normalize
	}
}

// WithAlphas sets the candidate penalties searched by RidgeCV.
func WithAlphas(alphas ...float64) Option {
	return func(c *config) {
		c.alphas = append([]float64(nil), alphas...)
	}
}

// WithFolds sets the number of cross-validation folds used by RidgeCV.
func WithFolds(k int) Option {
	return func(c *config) {
		c.folds = k
	}
}

// WithShuffle permutes rows with seed before RidgeCV splits them into folds.
func WithShuffle(shuffle bool, seed uint64) Option {
	return func(c *config) {
		c.shuffle = shuffle
		c.seed = seed
	}
}

// DefaultAlphas is the RidgeCV search grid when none is given.
func DefaultAlphas() []float64 {
	return []float64{0.01, 0.1, 1, 10, 100}
}
