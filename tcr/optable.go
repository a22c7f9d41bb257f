package tcr

import "github.com/shibukawa/pandasteps/parser"

// UnknownOperation is spliced into the text wherever an operator has no entry
const UnknownOperation = "unknown operation"

// rowFilterOperators serves both subscript shapes that filter rows: a
// comparison mask (df[df.a == 1]) and an operator mask (df[(..) & (..)]).
var rowFilterOperators = map[string]string{
	string(parser.Eq):     "is",
	string(parser.Add):    "+",
	string(parser.Sub):    "-",
	string(parser.Mult):   "*",
	string(parser.Div):    "/",
	string(parser.BitAnd): "and",
	string(parser.BitOr):  "or",
}

var compareOperators = map[parser.CompareOperator]string{
	parser.Gt:    ">",
	parser.GtE:   ">=",
	parser.Lt:    "<",
	parser.LtE:   "<=",
	parser.Eq:    "==",
	parser.NotEq: "!=",
}

var arithmeticPhrases = map[parser.BinaryOperator]string{
	parser.Add:    "added to",
	parser.Sub:    "subtracted from",
	parser.Mult:   "multiplied by",
	parser.Div:    "divided by",
	parser.Mod:    "mod",
	parser.Pow:    "to the power of",
	parser.BitAnd: "and",
	parser.BitOr:  "or",
}

var boolOperators = map[parser.BoolOperator]string{
	parser.And: "and",
	parser.Or:  "or",
}

func lookup[K comparable](table map[K]string, key K) string {
	if value, ok := table[key]; ok {
		return value
	}

	return UnknownOperation
}
