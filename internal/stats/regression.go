package stats

import (
	"math"

	"github.com/tabula/tabula/internal/dataset"
	"github.com/tabula/tabula/internal/errors"
	"github.com/tabula/tabula/pkg/types"
)

// InterceptName labels the intercept coefficient in regression output.
const InterceptName = "_cons"

// RegressionResult holds OLS estimates, intercept first, then predictors
// in the order supplied. It is transient and never persisted on the
// dataset.
type RegressionResult struct {
	Variables    []string
	Coefficients []float64
	StdErrors    []float64
	TStats       []float64
	R2           float64
	N            int
}

// Regress fits response = β₀ + β₁·x₁ + … by ordinary least squares:
// β = (XᵗX)⁻¹Xᵗy with a leading all-ones column for the intercept.
// Standard errors come from the residual variance and the diagonal of
// (XᵗX)⁻¹; a zero standard error surfaces an infinite t-statistic rather
// than a failure.
func Regress(ds *dataset.Dataset, response string, predictors []string) (*RegressionResult, error) {
	n := ds.RowCount()
	p := len(predictors)
	df := n - p - 1
	if df <= 0 {
		return nil, errors.Newf(errors.ErrCategoryStats, errors.CodeInvalidArgument,
			"not enough observations for regression: %d rows, %d predictors", n, p)
	}

	yCol, err := columnAsFloats(ds, response)
	if err != nil {
		return nil, err
	}
	xCols := make([][]float64, p)
	for i, name := range predictors {
		xCols[i], err = columnAsFloats(ds, name)
		if err != nil {
			return nil, err
		}
	}

	// Design matrix: column 0 is the intercept.
	xData := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, p+1)
		row[0] = 1
		for j := 0; j < p; j++ {
			row[j+1] = xCols[j][i]
		}
		xData[i] = row
	}
	x := NewMatrix(xData)

	yData := make([][]float64, n)
	for i, v := range yCol {
		yData[i] = []float64{v}
	}
	y := NewMatrix(yData)

	xt := x.T()
	xtx, err := xt.Mul(x)
	if err != nil {
		return nil, err
	}
	xtxInv, err := xtx.Inverse()
	if err != nil {
		return nil, err
	}
	xty, err := xt.Mul(y)
	if err != nil {
		return nil, err
	}
	beta, err := xtxInv.Mul(xty)
	if err != nil {
		return nil, err
	}

	coefficients := beta.Col(0)

	ssr := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := range coefficients {
			fitted += coefficients[j] * x.At(i, j)
		}
		r := yCol[i] - fitted
		ssr += r * r
	}

	yMean := 0.0
	for _, v := range yCol {
		yMean += v
	}
	yMean /= float64(n)
	sst := 0.0
	for _, v := range yCol {
		sst += (v - yMean) * (v - yMean)
	}
	r2 := 0.0
	if sst != 0 {
		r2 = 1 - ssr/sst
	}

	sigma2 := ssr / float64(df)
	stdErrors := make([]float64, len(coefficients))
	tStats := make([]float64, len(coefficients))
	for i := range coefficients {
		stdErrors[i] = math.Sqrt(sigma2 * xtxInv.At(i, i))
		tStats[i] = coefficients[i] / stdErrors[i]
	}

	variables := make([]string, 0, p+1)
	variables = append(variables, InterceptName)
	variables = append(variables, predictors...)

	return &RegressionResult{
		Variables:    variables,
		Coefficients: coefficients,
		StdErrors:    stdErrors,
		TStats:       tStats,
		R2:           r2,
		N:            n,
	}, nil
}

// columnAsFloats reads a full column through the dataset's accessors,
// coercing every value to float64.
func columnAsFloats(ds *dataset.Dataset, name string) ([]float64, error) {
	col, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	values := col.Materialize()
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := types.AsFloat(v)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
