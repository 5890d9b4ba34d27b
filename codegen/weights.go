// Package codegen renders fitted weights as a Go source file that registers
// them with a loader function at init time.
package codegen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"go/format"
	"math"
	"os"
	"sort"
	"strconv"
	"text/template"

	"github.com/YuminosukeSato/solvereg/pkg/errors"
)

// Options controls the generated file.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// LoaderFunc is called from init with the weights map.
	LoaderFunc string
	// IDConst names the constant holding the model identifier. Empty omits it.
	IDConst string
	// Generator is named in the "Code generated" header.
	Generator string
	// R2 is written as a comment when HasR2 is set.
	R2    float64
	HasR2 bool
}

// DefaultOptions returns the options used by the weka gen command.
func DefaultOptions() Options {
	return Options{
		Package:    "sudoku",
		LoaderFunc: "LoadDifficultyModel",
		IDConst:    "DifficultyModelID",
		Generator:  "solvereg",
	}
}

type entry struct {
	Name  string
	Value string
}

type fileData struct {
	Options
	ID      string
	R2      string
	Entries []entry
}

var fileTemplate = template.Must(template.New("weights").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`// Code generated by {{.Generator}}. DO NOT EDIT.

package {{.Package}}
{{if .IDConst}}
// {{.IDConst}} identifies the weights registered below.
const {{.IDConst}} = {{quote .ID}}
{{end}}
func init() {
{{- if .HasR2}}
	// Model with R2 = {{.R2}}
{{- end}}
	{{.LoaderFunc}}(map[string]float64{
{{- range .Entries}}
		{{quote .Name}}: {{.Value}},
{{- end}}
	})
}
`))

// ModelID hashes the weights, independent of map order.
func ModelID(weights map[string]float64) string {
	h := sha256.New()
	for _, name := range sortedNames(weights) {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(weights[name], 'g', -1, 64)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// RenderWeights returns the gofmt'd source of a file registering weights.
// Names are emitted in sorted order so output is deterministic.
func RenderWeights(weights map[string]float64, opts Options) ([]byte, error) {
	if len(weights) == 0 {
		return nil, errors.NewValueError("RenderWeights", "no weights to render")
	}
	def := DefaultOptions()
	if opts.Package == "" {
		opts.Package = def.Package
	}
	if opts.LoaderFunc == "" {
		opts.LoaderFunc = def.LoaderFunc
	}
	if opts.Generator == "" {
		opts.Generator = def.Generator
	}

	data := fileData{
		Options: opts,
		ID:      ModelID(weights),
		R2:      strconv.FormatFloat(opts.R2, 'f', -1, 64),
	}
	for _, name := range sortedNames(weights) {
		v := weights[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewNumericalInstabilityError("RenderWeights", []float64{v}, 0)
		}
		data.Entries = append(data.Entries, entry{Name: name, Value: strconv.FormatFloat(v, 'f', -1, 64)})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "render weights")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "format generated weights")
	}
	return src, nil
}

// WriteWeights renders weights and writes them to path.
func WriteWeights(path string, weights map[string]float64, opts Options) error {
	src, err := RenderWeights(weights, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func sortedNames(weights map[string]float64) []string {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
