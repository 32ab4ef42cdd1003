package vec0

import (
	"fmt"
	"strings"

	"github.com/viant/sqlite-vec0/knn"
	"github.com/viant/sqlite-vec0/schema"
	"modernc.org/sqlite/vtab"
)

// Query plans selected by BestIndex and handed back to Filter as idxNum.
const (
	planScan = iota
	planLookup
	planKNN
)

const (
	costKNN     = 10.0
	costLookup  = 1.0
	costScan    = 1e6
	costNoMatch = 1e12
)

type argKind byte

const (
	argMatch  argKind = 'm'
	argK      argKind = 'k'
	argLimit  argKind = 'l'
	argRowid  argKind = 'r'
	argFilter argKind = 'f'
)

// planArg describes one Filter argument. Arguments keep the order in
// which BestIndex assigned them.
type planArg struct {
	kind argKind
	col  int
	op   knn.Op
}

func (a planArg) String() string {
	return fmt.Sprintf("%c%d:%d", a.kind, a.col, a.op)
}

// plan is the decoded form of idxNum and idxStr.
type plan struct {
	kind int
	args []planArg
}

func (p *plan) add(c *vtab.Constraint, arg planArg) {
	c.ArgIndex = len(p.args)
	c.Omit = true
	p.args = append(p.args, arg)
}

func (p *plan) encode() string {
	parts := make([]string, len(p.args))
	for i, arg := range p.args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, ",")
}

func decodePlan(idxNum int, idxStr string) (*plan, error) {
	ret := &plan{kind: idxNum}
	if idxStr == "" {
		return ret, nil
	}
	for _, part := range strings.Split(idxStr, ",") {
		var (
			kind byte
			col  int
			op   uint8
		)
		if _, err := fmt.Sscanf(part, "%c%d:%d", &kind, &col, &op); err != nil {
			return nil, fmt.Errorf("vec0: invalid plan argument %q: %w", part, err)
		}
		ret.args = append(ret.args, planArg{kind: argKind(kind), col: col, op: knn.Op(op)})
	}
	return ret, nil
}

func constraintOp(op vtab.ConstraintOp) (knn.Op, bool) {
	switch op {
	case vtab.OpEQ:
		return knn.EQ, true
	case vtab.OpNE:
		return knn.NE, true
	case vtab.OpLT:
		return knn.LT, true
	case vtab.OpLE:
		return knn.LE, true
	case vtab.OpGT:
		return knn.GT, true
	case vtab.OpGE:
		return knn.GE, true
	}
	return 0, false
}

// bestIndex chooses between a knn scan, a rowid lookup and a full scan.
//
// A knn plan consumes MATCH on a vector column, k (or LIMIT when k is
// absent) and every comparison the executor can pre-filter. It never
// consumes rowid constraints: those usually come from joins and stay with
// the host, which applies them after the k rows are chosen.
func bestIndex(def *schema.Table, e *knn.Executor, info *vtab.IndexInfo) {
	distanceCol := def.Len()
	kCol := def.Len() + 1
	var (
		match, k, limit, rowid *vtab.Constraint
		matchPending           bool
		filters                []int
	)
	for i := range info.Constraints {
		c := &info.Constraints[i]
		isMatch := c.Op == vtab.OpMATCH && c.Column >= 0 && c.Column < def.Len() && def.Column(c.Column).Kind == schema.VectorKind
		if isMatch && !c.Usable {
			matchPending = true
		}
		if !c.Usable {
			continue
		}
		switch {
		case isMatch:
			if match == nil {
				match = c
			}
		case c.Column == kCol && c.Op == vtab.OpEQ:
			if k == nil {
				k = c
			}
		case c.Op == vtab.OpLIMIT:
			limit = c
		case c.Column == -1 && c.Op == vtab.OpEQ:
			if rowid == nil {
				rowid = c
			}
		case c.Column >= 0 && c.Column < def.Len():
			if op, ok := constraintOp(c.Op); ok && e.Pushdown(def.Column(c.Column).Name, op) {
				filters = append(filters, i)
			}
		}
	}

	p := &plan{}
	switch {
	case match != nil:
		p.kind = planKNN
		p.add(match, planArg{kind: argMatch, col: match.Column})
		switch {
		case k != nil:
			p.add(k, planArg{kind: argK, col: kCol})
		case limit != nil:
			// LIMIT stays with the host as well.
			limit.ArgIndex = len(p.args)
			p.args = append(p.args, planArg{kind: argLimit, col: -1})
		}
		info.EstimatedCost = costKNN
		if len(info.OrderBy) == 1 && info.OrderBy[0].Column == distanceCol && !info.OrderBy[0].Desc {
			info.OrderByConsumed = true
		}
	case rowid != nil:
		p.kind = planLookup
		p.add(rowid, planArg{kind: argRowid, col: -1})
		info.EstimatedCost = costLookup
		info.EstimatedRows = 1
		info.IdxFlags |= vtab.IndexScanUnique
	default:
		p.kind = planScan
		info.EstimatedCost = costScan
		if matchPending {
			info.EstimatedCost = costNoMatch
		}
	}
	for _, i := range filters {
		c := &info.Constraints[i]
		op, _ := constraintOp(c.Op)
		p.add(c, planArg{kind: argFilter, col: c.Column, op: op})
	}
	info.IdxNum = int64(p.kind)
	info.IdxStr = p.encode()
}
