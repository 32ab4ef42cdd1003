package schema

import (
	"strconv"

	"github.com/viant/sqlite-vec0/vector"
)

// MaxDimension bounds the declared dimension of a vector column.
const MaxDimension = 8192

type shape int

const (
	shapeUnrecognized shape = iota
	shapeOption
	shapeVector
	shapeKey
	shapeAuxiliary
	shapeColumn
)

func isKeyKeyword(t *token) bool {
	return t.keyword("primary") || t.keyword("partition") || t.keyword("key")
}

func isOptionKey(name string) bool {
	switch name {
	case OptionChunkSize, OptionPartitionScan, "distance_metric":
		return true
	}
	return false
}

// classify decides the clause kind from its leading tokens only; each kind
// then has its own parse function that reports what is missing.
func classify(ts tokens) shape {
	first := ts.at(0)
	switch {
	case first == nil:
		return shapeUnrecognized
	case first.symbol("+"):
		return shapeAuxiliary
	case first.symbol("="):
		return shapeOption
	case !first.is(tokenIdent):
		return shapeUnrecognized
	case ts.at(1).symbol("="):
		return shapeOption
	case ts.indexOf(func(t *token) bool { return t.symbol("[") }) >= 0:
		return shapeVector
	case ts[1:].indexOf(isKeyKeyword) >= 0:
		return shapeKey
	default:
		return shapeColumn
	}
}

// ParseClause parses a single clause text.
func ParseClause(text string) (Clause, error) {
	ts := lex(text)
	switch classify(ts) {
	case shapeOption:
		return parseOption(text, ts)
	case shapeVector:
		return parseVector(text, ts)
	case shapeKey:
		return parseKey(text, ts)
	case shapeAuxiliary:
		return parseAuxiliary(text, ts)
	case shapeColumn:
		return parseColumn(text, ts)
	}
	return nil, clauseErr(text, ErrUnrecognizedClause, "")
}

func isValue(t *token) bool {
	return t.is(tokenIdent) || t.is(tokenNumber) || t.is(tokenString)
}

func parseOption(text string, ts tokens) (Clause, error) {
	key, eq, value := ts.at(0), ts.at(1), ts.at(2)
	switch {
	case !key.is(tokenIdent):
		return nil, clauseErr(text, ErrMissingKey, "expected identifier before '='")
	case !eq.symbol("="):
		return nil, clauseErr(text, ErrMissingEquals, "")
	case !isValue(value):
		return nil, clauseErr(text, ErrMissingValue, "expected value after '='")
	case len(ts) > 3:
		return nil, clauseErr(text, ErrExtraTokens, "%q", text[ts[3].pos:])
	}
	return TableOption{Key: key.folded, Value: value.text}, nil
}

func parseVector(text string, ts tokens) (Clause, error) {
	name, typ, open := ts.at(0), ts.at(1), ts.at(2)
	if !typ.is(tokenIdent) {
		return nil, clauseErr(text, ErrMissingType, "expected element type before '['")
	}
	elemType, ok := vector.ParseType(typ.text)
	if !ok {
		return nil, clauseErr(text, ErrInvalidType, "%q is not a vector element type", typ.text)
	}
	if !open.symbol("[") {
		return nil, clauseErr(text, ErrMissingDimension, "")
	}
	dim, closing := ts.at(3), ts.at(4)
	switch {
	case dim == nil || dim.symbol("]"):
		return nil, clauseErr(text, ErrMissingDimension, "")
	case !dim.is(tokenNumber):
		return nil, clauseErr(text, ErrInvalidDimension, "%q is not an integer", dim.text)
	case !closing.symbol("]"):
		return nil, clauseErr(text, ErrInvalidDimension, "expected ']'")
	}
	n, err := strconv.Atoi(dim.text)
	switch {
	case err != nil:
		return nil, clauseErr(text, ErrInvalidDimension, "%q is not an integer", dim.text)
	case n <= 0:
		return nil, clauseErr(text, ErrInvalidDimension, "dimension must be greater than 0, got %d", n)
	case n > MaxDimension:
		return nil, clauseErr(text, ErrInvalidDimension, "dimension %d exceeds %d", n, MaxDimension)
	case elemType == vector.Bit && n%8 != 0:
		return nil, clauseErr(text, ErrInvalidDimension, "bit dimension must be divisible by 8, got %d", n)
	}
	ret := VectorColumn{Name: name.text, Type: elemType, Dimension: n, Metric: vector.DefaultMetric(elemType)}
	if rest := ts[5:]; len(rest) > 0 {
		metric, err := parseMetric(text, rest)
		if err != nil {
			return nil, err
		}
		if elemType == vector.Bit {
			return nil, clauseErr(text, ErrInvalidMetric, "bit vectors always use hamming distance")
		}
		ret.Metric = metric
	}
	return ret, nil
}

// parseMetric parses the trailing distance_metric=value of a vector column.
func parseMetric(text string, rest tokens) (vector.Metric, error) {
	key, eq, value := rest.at(0), rest.at(1), rest.at(2)
	switch {
	case key.symbol("="):
		return 0, clauseErr(text, ErrMissingKey, "expected distance_metric before '='")
	case !key.is(tokenIdent):
		return 0, clauseErr(text, ErrExtraTokens, "%q", text[key.pos:])
	case !eq.symbol("=") && !key.keyword("distance_metric"):
		return 0, clauseErr(text, ErrExtraTokens, "%q", text[key.pos:])
	case !eq.symbol("="):
		return 0, clauseErr(text, ErrMissingEquals, "expected distance_metric=<value>")
	case !isValue(value):
		return 0, clauseErr(text, ErrMissingValue, "expected distance_metric value")
	case len(rest) > 3:
		return 0, clauseErr(text, ErrExtraTokens, "%q", text[rest[3].pos:])
	case !key.keyword("distance_metric"):
		return 0, clauseErr(text, ErrUnknownOption, "%q is not a column option", key.text)
	}
	metric, ok := vector.ParseMetric(value.text)
	if !ok {
		return 0, clauseErr(text, ErrInvalidMetric, "%q, expected l2, cosine or l1", value.text)
	}
	return metric, nil
}

func parseKey(text string, ts tokens) (Clause, error) {
	name, typ, keyword, key := ts.at(0), ts.at(1), ts.at(2), ts.at(3)
	switch {
	case typ == nil || isKeyKeyword(typ):
		return nil, clauseErr(text, ErrMissingType, "expected type after %q", name.text)
	case !keyword.keyword("primary") && !keyword.keyword("partition"):
		return nil, clauseErr(text, ErrMissingKeyword, "expected \"primary\" or \"partition\" before \"key\"")
	case !key.keyword("key"):
		return nil, clauseErr(text, ErrMissingKeyword, "expected \"key\" after %q", keyword.text)
	case len(ts) > 4:
		return nil, clauseErr(text, ErrExtraTokens, "%q", text[ts[4].pos:])
	}
	valueType, ok := keyType(typ.folded)
	if !ok {
		return nil, clauseErr(text, ErrInvalidType, "%q, expected int, integer or text", typ.text)
	}
	if keyword.keyword("primary") {
		return PrimaryKey{Name: name.text, Type: valueType}, nil
	}
	return PartitionKey{Name: name.text, Type: valueType}, nil
}

func parseAuxiliary(text string, ts tokens) (Clause, error) {
	plus, name, typ := ts.at(0), ts.at(1), ts.at(2)
	switch {
	case !name.is(tokenIdent) || name.pos != plus.end:
		return nil, clauseErr(text, ErrMissingName, "expected name immediately after '+'")
	case typ == nil:
		return nil, clauseErr(text, ErrMissingType, "expected type after %q", name.text)
	case len(ts) > 3:
		return nil, clauseErr(text, ErrExtraTokens, "%q", text[ts[3].pos:])
	}
	valueType, ok := auxiliaryType(typ)
	if !ok {
		return nil, clauseErr(text, ErrInvalidType, "%q, expected text, integer, float or blob", typ.text)
	}
	return Auxiliary{Name: name.text, Type: valueType}, nil
}

func parseColumn(text string, ts tokens) (Clause, error) {
	name, typ := ts.at(0), ts.at(1)
	switch {
	case typ == nil && isOptionKey(name.folded):
		return nil, clauseErr(text, ErrMissingEquals, "expected %s=<value>", name.text)
	case typ == nil:
		return nil, clauseErr(text, ErrMissingType, "expected type after %q", name.text)
	case typ.is(tokenNumber) || typ.is(tokenString):
		return nil, clauseErr(text, ErrMissingEquals, "expected %s=%s", name.text, typ.text)
	case !typ.is(tokenIdent):
		return nil, clauseErr(text, ErrInvalidType, "%q", typ.text)
	case isOptionKey(name.folded):
		return nil, clauseErr(text, ErrMissingEquals, "expected %s=%s", name.text, typ.text)
	}
	if _, ok := vector.ParseType(typ.text); ok && !typ.keyword("float") {
		return nil, clauseErr(text, ErrMissingDimension, "%s requires [dimension]", typ.text)
	}
	valueType, ok := metadataType(typ.folded)
	if !ok {
		return nil, clauseErr(text, ErrInvalidType, "%q, expected boolean, integer, float or text", typ.text)
	}
	if len(ts) > 2 {
		return nil, clauseErr(text, ErrExtraTokens, "%q", text[ts[2].pos:])
	}
	return Metadata{Name: name.text, Type: valueType}, nil
}

func keyType(word string) (ValueType, bool) {
	switch word {
	case "int", "integer":
		return Integer, true
	case "text":
		return Text, true
	}
	return 0, false
}

func auxiliaryType(t *token) (ValueType, bool) {
	if !t.is(tokenIdent) {
		return 0, false
	}
	switch t.folded {
	case "text":
		return Text, true
	case "integer":
		return Integer, true
	case "float":
		return Float, true
	case "blob":
		return Blob, true
	}
	return 0, false
}

func metadataType(word string) (ValueType, bool) {
	switch word {
	case "boolean", "bool":
		return Boolean, true
	case "integer", "int":
		return Integer, true
	case "float", "double":
		return Float, true
	case "text":
		return Text, true
	}
	return 0, false
}
