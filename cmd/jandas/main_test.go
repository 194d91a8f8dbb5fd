package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jandas "github.com/wally8673/Jandas-sub000"
)

const peopleCSV = `Nombre,Edad,Ciudad
Ana,34,Lima
Luis,NA,Cusco
Marta,28,Lima
Pedro,41,Arequipa
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runToCSV runs a command with -o and reads the written file back.
func runToCSV(t *testing.T, args ...string) *jandas.DataFrame {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := run(t, append(args, "-o", out)...)
	require.NoError(t, err)
	df, err := jandas.ReadCSV(out)
	require.NoError(t, err)
	return df
}

func TestShow(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	stdout, _, err := run(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "shape: (4, 3)")
	assert.Contains(t, stdout, "Marta")
	assert.Contains(t, stdout, "NA")
}

func TestShowElidesRows(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	stdout, _, err := run(t, "show", path, "--max-rows", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "… 2 more rows")
}

func TestHeadTail(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	head := runToCSV(t, "head", path, "-n", "2")
	names, err := head.ColumnByName("Nombre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Luis"}, names.Strings())

	tail := runToCSV(t, "tail", path, "-n", "1")
	names, err = tail.ColumnByName("Nombre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pedro"}, names.Strings())

	_, _, err = run(t, "head", path, "-n", "0")
	require.ErrorIs(t, err, jandas.ErrInvalidParameter)
}

func TestFilter(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	df := runToCSV(t, "filter", path, "--where", "Edad > 30", "--where", "Ciudad = Lima")
	names, err := df.ColumnByName("Nombre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, names.Strings())

	df = runToCSV(t, "filter", path, "--any", "--where", "Edad < 30", "--where", "Ciudad = Cusco")
	names, err = df.ColumnByName("Nombre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Luis", "Marta"}, names.Strings())
}

func TestFilterErrors(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, _, err := run(t, "filter", path)
	require.Error(t, err)

	_, _, err = run(t, "filter", path, "--where", "Edad ~ 3")
	require.ErrorIs(t, err, jandas.ErrInvalidParameter)

	_, _, err = run(t, "filter", path, "--where", "Salario > 3")
	require.ErrorIs(t, err, jandas.ErrLabelNotFound)
}

func TestSort(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	df := runToCSV(t, "sort", path, "--by", "Edad:desc")
	names, err := df.ColumnByName("Nombre")
	require.NoError(t, err)
	// missing ages sort last
	assert.Equal(t, []string{"Pedro", "Ana", "Marta", "Luis"}, names.Strings())

	df = runToCSV(t, "sort", path, "--by", "Ciudad", "--by", "Nombre:desc")
	names, err = df.ColumnByName("Nombre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pedro", "Luis", "Marta", "Ana"}, names.Strings())

	_, _, err = run(t, "sort", path)
	require.ErrorIs(t, err, jandas.ErrInvalidParameter)
}

func TestGroupBy(t *testing.T) {
	path := writeFile(t, "sales.csv", "Grupo,Valor\nA,10\nB,15\nA,12\n")

	df := runToCSV(t, "groupby", path, "--by", "Grupo", "--agg", "sum")
	keys, err := df.ColumnByName("Grupo")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, keys.Strings())

	totals, err := df.ColumnByName("Valor")
	require.NoError(t, err)
	assert.Equal(t, jandas.Float64, totals.DType())
	assert.Equal(t, []float64{22, 15}, totals.Float64())

	_, _, err = run(t, "groupby", path, "--by", "Grupo", "--agg", "median")
	require.ErrorIs(t, err, jandas.ErrInvalidParameter)
}

func TestSample(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	df := runToCSV(t, "sample", path, "--rows", "100", "--seed", "7")
	assert.Equal(t, 4, df.Height())

	df = runToCSV(t, "sample", path, "--percent", "50", "--seed", "7")
	assert.Equal(t, 2, df.Height())

	df = runToCSV(t, "sample", path, "--percent", "1", "--stratify", "Ciudad", "--seed", "7")
	assert.Equal(t, 3, df.Height())

	_, _, err := run(t, "sample", path)
	require.Error(t, err)

	_, _, err = run(t, "sample", path, "--percent", "150")
	require.ErrorIs(t, err, jandas.ErrInvalidParameter)
}

func TestConcat(t *testing.T) {
	a := writeFile(t, "a.csv", "Nombre,Edad\nAna,34\n")
	b := writeFile(t, "b.csv", "Nombre,Edad\nLuis,29.5\n")

	df := runToCSV(t, "concat", a, b)
	assert.Equal(t, 2, df.Height())
	edad, err := df.ColumnByName("Edad")
	require.NoError(t, err)
	assert.Equal(t, jandas.Float64, edad.DType())
	assert.Equal(t, []float64{34, 29.5}, edad.Float64())

	c := writeFile(t, "c.csv", "Nombre,Ciudad\nMarta,Lima\n")
	_, _, err = run(t, "concat", a, c)
	require.ErrorIs(t, err, jandas.ErrLabelNotFound)
}

func TestImpute(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	df := runToCSV(t, "impute", path, "--column", "Edad", "--value", "0")
	edad, err := df.ColumnByName("Edad")
	require.NoError(t, err)
	assert.Equal(t, []int64{34, 0, 28, 41}, edad.Int64())
	assert.False(t, edad.HasNulls())

	_, _, err = run(t, "impute", path, "--column", "Edad", "--value", "joven")
	require.ErrorIs(t, err, jandas.ErrTypeIncompatible)
}

func TestHeaderless(t *testing.T) {
	path := writeFile(t, "raw.csv", "b,2\na,1\n")

	out := filepath.Join(t.TempDir(), "out.csv")
	_, _, err := run(t, "sort", path, "--no-header", "--by", "1", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a,1\nb,2\n", string(data))
}

func TestInvalidFlags(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, _, err := run(t, "show", path, "--delimiter", "ab")
	require.Error(t, err)

	_, _, err = run(t, "show", path, "--log-level", "loud")
	require.Error(t, err)
}

func TestDebugLogging(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)
	t.Cleanup(func() { jandas.SetLogger(nil) })

	_, stderr, err := run(t, "show", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "read csv")
}
