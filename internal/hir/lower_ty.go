package hir

import "smlcheck/internal/cst"

// lowerTy converts one surface type expression. KTyParen is transparent
// (the parenthesized type, not a multi-argument constructor's argument
// list) except when it is itself the argument-list child of a KTyCon,
// which lowerTyConArgs unwraps directly.
func (lw *lowerer) lowerTy(n cst.Node) TyIdx {
	if !n.Valid() {
		return NoTyIdx
	}
	switch n.Kind() {
	case cst.KTyVar:
		return lw.newTy(n, TyVar{Name: Name(n.Text())})
	case cst.KTyCon:
		return lw.lowerTyCon(n)
	case cst.KTyRecord:
		return lw.lowerTyRecord(n)
	case cst.KTyFn:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.holeTy(n)
		}
		arg := lw.lowerTy(kids[0])
		res := lw.lowerTy(kids[1])
		return lw.newTy(n, TyFn{Arg: arg, Res: res})
	case cst.KTyTuple:
		return lw.lowerTyTuple(n)
	case cst.KTyParen:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.holeTy(n)
		}
		return lw.lowerTy(kids[0])
	default:
		return lw.holeTy(n)
	}
}

func (lw *lowerer) holeTy(n cst.Node) TyIdx { return lw.newTy(n, TyNone{}) }

// lowerTyCon handles both the nullary form (KTyCon wrapping just a Path)
// and the applied form (KTyCon wrapping an argument type/KTyParen group
// plus a Path), matching how the parser folds "ty con" and "(ty,...) con"
// into the same node shape.
func (lw *lowerer) lowerTyCon(n cst.Node) TyIdx {
	kids := n.ChildNodes()
	switch len(kids) {
	case 1:
		return lw.newTy(n, TyCon{Path: lowerPath(kids[0])})
	case 2:
		argNode, pathNode := kids[0], kids[1]
		var args []TyIdx
		if argNode.Kind() == cst.KTyParen {
			for _, a := range argNode.ChildNodes() {
				args = append(args, lw.lowerTy(a))
			}
		} else {
			args = []TyIdx{lw.lowerTy(argNode)}
		}
		return lw.newTy(n, TyCon{Path: lowerPath(pathNode), Args: args})
	default:
		return lw.holeTy(n)
	}
}

func (lw *lowerer) lowerTyRecord(n cst.Node) TyIdx {
	var fields []TyRecordField
	for _, row := range n.ChildrenOfKind(cst.KTyRecordRow) {
		rowKids := row.ChildNodes()
		if len(rowKids) != 2 {
			continue
		}
		fields = append(fields, TyRecordField{Label: lowerLabel(rowKids[0], lw), Ty: lw.lowerTy(rowKids[1])})
	}
	return lw.newTy(n, TyRecord{Fields: fields})
}

// lowerTyTuple rewrites "ty1 * ty2 * ... * tyN" into a record type with
// numeric labels 1..n, the same convention tuple expressions/patterns use.
func (lw *lowerer) lowerTyTuple(n cst.Node) TyIdx {
	var fields []TyRecordField
	for i, elem := range n.ChildNodes() {
		fields = append(fields, TyRecordField{Label: NumericLabel(uint32(i + 1)), Ty: lw.lowerTy(elem)})
	}
	return lw.newTy(n, TyRecord{Fields: fields})
}
