package utterance

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/pandasteps/parser"
	"github.com/shibukawa/pandasteps/tcr"
)

func tree(t *testing.T, src string) tcr.Node {
	t.Helper()

	module, err := parser.Parse(src)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(module.Body))

	return tcr.Build(module.Body[0])
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name:     "column access",
			src:      "df['Winner']",
			expected: []string{"select column “Winner”"},
		},
		{
			name:     "column of filtered rows",
			src:      "df[df['Host City'] == 'New Orleans']['Winner']",
			expected: []string{"select rows where select column “Host City” is “New Orleans”", "select column “Winner”"},
		},
		{
			name:     "string",
			src:      "'abc'",
			expected: []string{"“abc”"},
		},
		{
			name:     "number",
			src:      "1.50",
			expected: []string{"1.5"},
		},
		{
			name: "variable renders nothing",
			src:  "df",
		},
		{
			name:     "attribute renders its base only",
			src:      "df['a'].str",
			expected: []string{"select column “a”"},
		},
		{
			name:     "shape",
			src:      "df.shape",
			expected: []string{rowCountStep},
		},
		{
			name:     "indexed shape of a table",
			src:      "df.shape[0]",
			expected: []string{rowCountStep},
		},
		{
			name:     "indexed shape of a column",
			src:      "df['a'].shape[0]",
			expected: []string{"select column “a”", rowCountStep},
		},
		{
			name:     "shape of a column",
			src:      "df['a'].shape",
			expected: []string{"select column “a”", rowCountStep},
		},
		{
			name:     "count rows where",
			src:      "df[df['Winner'] == 'New Orleans Saints'].shape[0]",
			expected: []string{"select rows where select column “Winner” is “New Orleans Saints”", rowCountStep},
		},
		{
			name:     "compare drops the verb",
			src:      "df['a'] >= 1970",
			expected: []string{" column “a” greater than or equal to 1970"},
		},
		{
			name:     "compare with unmapped operator",
			src:      "df['a'] in 'xyz'",
			expected: []string{" column “a” unknown operation “xyz”"},
		},
		{
			name:     "arithmetic drops the verb",
			src:      "df['a'] * df['b']",
			expected: []string{" column “a” multiplied by  column “b”"},
		},
		{
			name:     "arithmetic with unmapped operator",
			src:      "df['a'] // 2",
			expected: []string{" column “a” unknown operation 2"},
		},
		{
			name:     "bool op",
			src:      "df['a'] and df['b'] or df['c']",
			expected: []string{"select column “a” and select column “b” or select column “c”"},
		},
		{
			name: "row filter over an operator mask",
			src:  "df[(df['yr_built'] > 1970) & (df['yr_renovated'] != 0) & (df['sqft_basement'] != 0)]",
			expected: []string{
				"select rows where  column “yr_built” greater than 1970 and  column “yr_renovated” not equal to 0 and  column “sqft_basement” not equal to 0",
			},
		},
		{
			name:     "count with argument",
			src:      "df['Missions'].str.count('STS')",
			expected: []string{"count “STS” from select column “Missions”"},
		},
		{
			name:     "count without argument",
			src:      "df[df['Host City'] == 'New Orleans']['Winner'].count()",
			expected: []string{"select rows where select column “Host City” is “New Orleans”", "select column “Winner”", "count"},
		},
		{
			name:     "split then len",
			src:      "df['Missions'].str.split(',').str.len()",
			expected: []string{"select column “Missions”", "split the text on “,”", "get length"},
		},
		{
			name: "unregistered method drops the whole call",
			src:  "df['a'].mean()",
		},
		{
			name:     "assignment",
			src:      "df['Mission Length'] = df['Space Flight (hr)'] / df['Missions'].str.count('STS')",
			expected: []string{"create column “Mission Length”", " column “Space Flight (hr)” divided by count “STS” from  column “Missions”"},
		},
		{
			name:     "assignment of a method chain keeps every value step",
			src:      "df['mission_count'] = df['Missions'].str.split(',').str.len()",
			expected: []string{"create column “mission_count”", "select column “Missions”", "split the text on “,”", "get length"},
		},
		{
			name:     "assignment to filtered rows creates every verb",
			src:      "df[df['a'] == 1]['b'] = 0",
			expected: []string{"create rows where create column “a” is 1", "0"},
		},
		{
			name: "unknown renders nothing",
			src:  "import pandas as pd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := Render(tree(t, tt.src))
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, steps)
		})
	}
}

func TestEndToEnd(t *testing.T) {
	steps, err := Render(tree(t, `df['Average Mission Time'] = df['Space Flight (hr)'] / df['Missions'].str.count('\(')`))
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"create column “Average Mission Time”",
		" column “Space Flight (hr)” divided by count “\\(” from  column “Missions”",
	}, steps)

	steps, err = Render(tree(t, `df['Average Mission Time'] = df['Space Flight (hr)'] / df['Missions'].str.count('(')`))
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"create column “Average Mission Time”",
		" column “Space Flight (hr)” divided by count “(” from  column “Missions”",
	}, steps)
}

// A child that renders several steps contributes only its first one to a
// composite phrase.
func TestHeadlineTruncation(t *testing.T) {
	child := tree(t, "df['Missions'].str.split(',').str.len()")

	childSteps, err := Render(child)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(childSteps))

	steps, err := Render(&tcr.ArithmeticOp{Op: "added to", Left: child, Right: &tcr.Number{Value: "1"}})
	assert.NoError(t, err)
	assert.Equal(t, []string{" column “Missions” added to 1"}, steps)

	steps, err = Render(&tcr.Shape{Base: child})
	assert.NoError(t, err)
	assert.Equal(t, []string{"select column “Missions”", rowCountStep}, steps)

	steps, err = Render(&tcr.Assign{
		Target: &tcr.ColumnAccess{Base: &tcr.Variable{Name: "df"}, Column: &tcr.String{Value: "n"}},
		Value:  child,
	})
	assert.NoError(t, err)
	assert.Equal(t, append([]string{"create column “n”"}, childSteps...), steps)
}

func TestRenderProperties(t *testing.T) {
	base := tree(t, "df[df['a'] == 1]")
	baseSteps, err := Render(base)
	assert.NoError(t, err)

	t.Run("column access appends the column", func(t *testing.T) {
		steps, err := Render(&tcr.ColumnAccess{Base: base, Column: &tcr.String{Value: "col"}})
		assert.NoError(t, err)
		assert.Equal(t, append(baseSteps, "select column “col”"), steps)
	})

	t.Run("shape ends with row count with or without index", func(t *testing.T) {
		for _, node := range []tcr.Node{
			&tcr.Shape{Base: base},
			&tcr.Shape{Base: base, Index: &tcr.Number{Value: "1"}},
			&tcr.Shape{Base: &tcr.Variable{Name: "df"}},
			&tcr.Shape{Base: &tcr.Shape{Base: &tcr.Variable{Name: "df"}}, Index: &tcr.Number{Value: "0"}},
		} {
			steps, err := Render(node)
			assert.NoError(t, err)
			assert.Equal(t, rowCountStep, steps[len(steps)-1])
			assert.Equal(t, 1, strings.Count(strings.Join(steps, "\n"), rowCountStep), "got %q", steps)
		}
	})

	t.Run("compare never shows the symbol", func(t *testing.T) {
		for symbol, text := range comparePhrases {
			steps, err := Render(&tcr.Compare{Left: &tcr.Number{Value: "1"}, Op: symbol, Right: &tcr.Number{Value: "2"}})
			assert.NoError(t, err)
			assert.Equal(t, []string{"1 " + text + " 2"}, steps)
		}
	})

	t.Run("count without argument keeps callee steps", func(t *testing.T) {
		callee := &tcr.Attribute{Base: base, Name: "count"}
		steps, err := Render(&tcr.FunctionCall{Callee: callee})
		assert.NoError(t, err)
		assert.Equal(t, append(baseSteps, "count"), steps)
	})

	t.Run("count with argument is a single step", func(t *testing.T) {
		callee := &tcr.Attribute{Base: base, Name: "count"}
		steps, err := Render(&tcr.FunctionCall{Callee: callee, Args: []tcr.Node{&tcr.String{Value: "x"}, &tcr.String{Value: "ignored"}}})
		assert.NoError(t, err)
		assert.Equal(t, []string{"count “x” from " + baseSteps[0]}, steps)
	})

	t.Run("assignment only swaps the verb of the target", func(t *testing.T) {
		target := &tcr.ColumnAccess{Base: &tcr.Variable{Name: "df"}, Column: &tcr.String{Value: "select me"}}
		targetSteps, err := Render(target)
		assert.NoError(t, err)

		steps, err := Render(&tcr.Assign{Target: target, Value: base})
		assert.NoError(t, err)
		assert.Equal(t, strings.Replace(targetSteps[0], "select", "create", 1), steps[0])
		assert.Equal(t, baseSteps, steps[1:])
	})
}

func TestRenderMalformed(t *testing.T) {
	df := &tcr.Variable{Name: "df"}

	tests := []struct {
		name string
		node tcr.Node
	}{
		{"assignment target without steps", &tcr.Assign{Target: df, Value: &tcr.Number{Value: "1"}}},
		{"callee is not an attribute", &tcr.FunctionCall{Callee: &tcr.Variable{Name: "len"}, Args: []tcr.Node{df}}},
		{"split without argument", &tcr.FunctionCall{Callee: &tcr.Attribute{Base: df, Name: "split"}}},
		{"headline of unknown", &tcr.ArithmeticOp{Op: "added to", Left: &tcr.Unknown{}, Right: &tcr.Number{Value: "1"}}},
		{"row filter over a bare variable", &tcr.SelectRows{Base: df, Op: "is", Condition: &tcr.Number{Value: "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.node)
			assert.IsError(t, err, ErrMalformedTree)
		})
	}
}

func TestFinalize(t *testing.T) {
	assert.Equal(t, []string{"a", "get length", "lens"}, finalize([]string{"a", "str", "len", "lens"}))
	assert.Equal(t, 0, len(finalize(nil)))
}

func TestRegistry(t *testing.T) {
	registry := DefaultRegistry()
	assert.Equal(t, []string{"count", "len", "split"}, registry.Names())

	clone := registry.Clone()
	clone.Register("mean", func(call *MethodCall) ([]string, error) {
		steps, err := call.CalleeSteps()
		if err != nil {
			return nil, err
		}

		return append(steps, "calculate the average"), nil
	})

	assert.Equal(t, []string{"count", "len", "split"}, registry.Names())
	assert.Equal(t, []string{"count", "len", "mean", "split"}, clone.Names())

	node := tree(t, "df['Score'].mean()")

	steps, err := NewGenerator(clone).Render(node)
	assert.NoError(t, err)
	assert.Equal(t, []string{"select column “Score”", "calculate the average"}, steps)

	steps, err = NewGenerator(registry).Render(node)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(steps))
}

func TestMethodCallArgs(t *testing.T) {
	call := &MethodCall{
		Method: "replace",
		Callee: &tcr.Attribute{Base: &tcr.Variable{Name: "df"}, Name: "replace"},
		Args: []tcr.Node{
			&tcr.String{Value: "a"},
			&tcr.Number{Value: "2"},
			&tcr.Variable{Name: "x"},
			&tcr.ColumnAccess{Base: &tcr.Variable{Name: "df"}, Column: &tcr.String{Value: "c"}},
		},
		generator: defaultGenerator,
	}

	texts, err := call.ArgTexts()
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "2", "x", "select column “c”"}, texts)

	_, err = call.Arg(4)
	assert.IsError(t, err, ErrMalformedTree)
}
