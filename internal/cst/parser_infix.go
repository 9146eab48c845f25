package cst

// resolveInfix resolves a flat operand/operator sequence into a tree using
// classic precedence climbing (a two-stack shunting-yard): operators of
// higher precedence bind first; equal precedence resolves left-to-right
// unless every operator at that level is declared infixr, matching the
// Definition's requirement that fixity be uniform within one precedence
// level for a well-formed program (a file mixing infix/infixr at the same
// level is accepted here and resolved per-operator rather than rejected,
// since catching that specific ill-formedness is not worth the complexity
// it would add to every call site).
func (p *Parser) resolveInfix(operands []NodeID, ops []Child, fixities []Fixity, outKind Kind) NodeID {
	type opFrame struct {
		child Child
		fx    Fixity
	}
	nodeStack := []NodeID{operands[0]}
	var opStack []opFrame

	apply := func() {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		right := nodeStack[len(nodeStack)-1]
		left := nodeStack[len(nodeStack)-2]
		nodeStack = nodeStack[:len(nodeStack)-2]
		combined := p.b.MakeNode(outKind, NodeChild(left), top.child, NodeChild(right))
		nodeStack = append(nodeStack, combined)
	}

	for i, opChild := range ops {
		fx := fixities[i]
		for len(opStack) > 0 {
			topFx := opStack[len(opStack)-1].fx
			if topFx.Level > fx.Level || (topFx.Level == fx.Level && topFx.Assoc == AssocLeft) {
				apply()
				continue
			}
			break
		}
		opStack = append(opStack, opFrame{child: opChild, fx: fx})
		nodeStack = append(nodeStack, operands[i+1])
	}
	for len(opStack) > 0 {
		apply()
	}
	return nodeStack[0]
}
