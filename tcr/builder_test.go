package tcr

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/pandasteps/parser"
)

func build(t *testing.T, src string) Node {
	t.Helper()

	module, err := parser.Parse(src)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(module.Body))

	return Build(module.Body[0])
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"variable", "df", "variable(df)"},
		{"string", "'abc'", `string("abc")`},
		{"integer", "1_000", "number(1000)"},
		{"hex integer", "0xff", "number(255)"},
		{"float", "2.50", "number(2.5)"},
		{"boolean is a number", "True", "number(True)"},
		{"negative number", "-3", "number(-3)"},
		{"negative float", "-2.50", "number(-2.5)"},
		{"unary plus", "+7", "number(7)"},
		{"negative zero", "-0", "number(0)"},
		{"negated variable", "-x", "unknown(UnaryOp)"},
		{"negated boolean", "-True", "unknown(UnaryOp)"},
		{"inverted number", "~1", "unknown(UnaryOp)"},
		{"none", "None", "unknown(Constant(None))"},
		{"bytes", "b'x'", "unknown(Constant(bytes))"},
		{"column access", "df['Winner']", `column_access(variable(df), string("Winner"))`},
		{"numeric column", "df[0]", "column_access(variable(df), number(0))"},
		{"non literal column", "df[col]", "unknown(Subscript)"},
		{"column list", "df[['a', 'b']]", "unknown(Subscript)"},
		{"attribute", "df.columns", "attribute(variable(df), columns)"},
		{"shape", "df.shape", "shape(variable(df))"},
		{"shape index", "df.shape[0]", "shape(shape(variable(df)), number(0))"},
		{"shape with non literal index", "df.shape[i]", "unknown(Subscript)"},
		{
			"comparison mask",
			"df[df['Winner'] == 'New Orleans Saints']",
			`select_rows(column_access(variable(df), string("Winner")), "is", string("New Orleans Saints"))`,
		},
		{
			"comparison mask with unmapped operator",
			"df[df['a'] > 1]",
			`select_rows(column_access(variable(df), string("a")), "unknown operation", number(1))`,
		},
		{
			"operator mask",
			"df[(df['a'] > 1) & (df['b'] != 0)]",
			`select_rows(compare(column_access(variable(df), string("a")), ">", number(1)), "and", compare(column_access(variable(df), string("b")), "!=", number(0)))`,
		},
		{
			"operator mask keeps arithmetic symbols",
			"df[df['a'] - df['b']]",
			`select_rows(column_access(variable(df), string("a")), "-", column_access(variable(df), string("b")))`,
		},
		{
			"operator mask with unmapped operator",
			"df[df['a'] % 2]",
			`select_rows(column_access(variable(df), string("a")), "unknown operation", number(2))`,
		},
		{
			"shape of filtered rows",
			"df[df['Winner'] == 'New Orleans Saints'].shape[0]",
			`shape(shape(select_rows(column_access(variable(df), string("Winner")), "is", string("New Orleans Saints"))), number(0))`,
		},
		{"compare", "a >= 1", `compare(variable(a), ">=", number(1))`},
		{"compare unmapped", "a in b", `compare(variable(a), "unknown operation", variable(b))`},
		{"chained compare uses first link", "0 < a < 10", `compare(number(0), "<", variable(a))`},
		{"bool op", "a and b and c", `bool_op("and", [variable(a), variable(b), variable(c)])`},
		{"arithmetic", "a / b", `arithmetic_op("divided by", variable(a), variable(b))`},
		{"power", "a ** 2", `arithmetic_op("to the power of", variable(a), number(2))`},
		{"bitwise or", "a | b", `arithmetic_op("or", variable(a), variable(b))`},
		{"unmapped arithmetic", "a // b", `arithmetic_op("unknown operation", variable(a), variable(b))`},
		{
			"method call",
			"df['Missions'].str.count('(')",
			`function_call(attribute(attribute(column_access(variable(df), string("Missions")), str), count), [string("(")])`,
		},
		{"keyword arguments are ignored", "f(1, sep=',')", "function_call(variable(f), [number(1)])"},
		{
			"assignment",
			"df['x'] = df['a'] + 1",
			`assign(column_access(variable(df), string("x")), arithmetic_op("added to", column_access(variable(df), string("a")), number(1)))`,
		},
		{"multi target assignment uses the first target", "a = b = 1", "assign(variable(a), number(1))"},
		{"augmented assignment", "a += 1", "unknown(AugAssign)"},
		{"import", "import pandas as pd", "unknown(Import)"},
		{"conditional", "a if b else c", "unknown(IfExp)"},
		{"unary not", "not a", "unknown(UnaryOp)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, build(t, tt.src).String())
		})
	}
}

func TestBuildKinds(t *testing.T) {
	node := build(t, "df[df['a'] == 1]")
	assert.Equal(t, KindSelectRows, node.Kind())
	assert.Equal(t, "select_rows", node.Kind().String())

	rows := node.(*SelectRows)
	assert.Equal(t, KindColumnAccess, rows.Base.Kind())
	assert.Equal(t, KindNumber, rows.Condition.Kind())
}

func TestBuildNil(t *testing.T) {
	assert.Equal(t, KindUnknown, Build(nil).Kind())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"1970", "1970"},
		{"1_000_000", "1000000"},
		{"0x1F", "31"},
		{"0o17", "15"},
		{"0b1010", "10"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
		{"1.5", "1.5"},
		{"1.50", "1.5"},
		{"2.", "2.0"},
		{".5", "0.5"},
		{"2.0", "2.0"},
		{"1e3", "1000.0"},
		{"1E-3", "0.001"},
		{"0.0001", "0.0001"},
		{"0.00001", "1e-05"},
		{"1e16", "1e+16"},
		{"123456789.0", "123456789.0"},
		{"1e999", "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual, err := FormatNumber(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestFormatNumberErrors(t *testing.T) {
	for _, input := range []string{"2j", "abc", "0xZZ"} {
		t.Run(input, func(t *testing.T) {
			_, err := FormatNumber(input)
			assert.IsError(t, err, ErrInvalidNumber)
		})
	}
}
