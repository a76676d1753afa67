package cabs

// Equal reports whether a and b are the same tree, ignoring spans.
// Grouping parentheses are significant.
func Equal(a, b Expr) bool {
	return equal(a, b, false)
}

// EqualIgnoringParens is Equal with every Paren node unwrapped first
func EqualIgnoringParens(a, b Expr) bool {
	return equal(a, b, true)
}

func equal(a, b Expr, unparen bool) bool {
	if unparen {
		if a != nil {
			a = Unparen(a)
		}
		if b != nil {
			b = Unparen(b)
		}
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case IntConst:
		y, ok := b.(IntConst)
		return ok && x.Raw == y.Raw && x.Radix == y.Radix
	case FloatConst:
		y, ok := b.(FloatConst)
		return ok && x.Raw == y.Raw
	case CharConst:
		y, ok := b.(CharConst)
		return ok && x.Raw == y.Raw
	case StringConst:
		y, ok := b.(StringConst)
		return ok && x.Value == y.Value
	case Variable:
		y, ok := b.(Variable)
		return ok && x.Name == y.Name
	case Unary:
		y, ok := b.(Unary)
		return ok && x.Op == y.Op && equal(x.Expr, y.Expr, unparen)
	case Postfix:
		y, ok := b.(Postfix)
		return ok && x.Op == y.Op && equal(x.Expr, y.Expr, unparen)
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op && equal(x.Left, y.Left, unparen) && equal(x.Right, y.Right, unparen)
	case Paren:
		y, ok := b.(Paren)
		return ok && equal(x.Expr, y.Expr, unparen)
	case Conditional:
		y, ok := b.(Conditional)
		return ok && equal(x.Cond, y.Cond, unparen) && equal(x.Then, y.Then, unparen) &&
			equal(x.Else, y.Else, unparen)
	case Assign:
		y, ok := b.(Assign)
		return ok && equal(x.Left, y.Left, unparen) && equal(x.Right, y.Right, unparen)
	case Call:
		y, ok := b.(Call)
		if !ok || x.Func.Name != y.Func.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !equal(x.Args[i], y.Args[i], unparen) {
				return false
			}
		}
		return true
	case Index:
		y, ok := b.(Index)
		return ok && equal(x.Array, y.Array, unparen) && equal(x.Index, y.Index, unparen)
	case Cast:
		y, ok := b.(Cast)
		return ok && x.Type.Text == y.Type.Text && equal(x.Expr, y.Expr, unparen)
	}
	return false
}
