package hir

import (
	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// lowerFileRoot lowers the KFile node - a flat sequence of top-level
// structure-declaration-level items - into the module's root StrDec.
func (lw *lowerer) lowerFileRoot(n cst.Node) StrDecIdx {
	items := n.ChildNodes()
	if len(items) == 0 {
		return lw.newStrDec(n, StrDecEmpty{})
	}
	if len(items) == 1 {
		return lw.lowerStrDec(items[0])
	}
	var decs []StrDecIdx
	for _, it := range items {
		decs = append(decs, lw.lowerStrDec(it))
	}
	return lw.newStrDec(n, StrDecSeq{Decs: decs})
}

func (lw *lowerer) lowerStrDec(n cst.Node) StrDecIdx {
	if !n.Valid() {
		return NoStrDecIdx
	}
	switch n.Kind() {
	case cst.KStrDecDec:
		return lw.lowerStrDecDec(n)
	case cst.KStrDecStructure:
		var binds []StrBind
		for _, sb := range n.ChildrenOfKind(cst.KStrBind) {
			binds = append(binds, lw.lowerStrBind(sb))
		}
		return lw.newStrDec(n, StrDecStructure{Binds: binds})
	case cst.KStrDecLocal:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.newStrDec(n, StrDecEmpty{})
		}
		return lw.newStrDec(n, StrDecLocal{First: lw.lowerStrDec(kids[0]), Body: lw.lowerStrDec(kids[1])})
	case cst.KStrDecSeq:
		var decs []StrDecIdx
		for _, d := range n.ChildNodes() {
			decs = append(decs, lw.lowerStrDec(d))
		}
		return lw.newStrDec(n, StrDecSeq{Decs: decs})
	case cst.KStrDecEmpty:
		return lw.newStrDec(n, StrDecEmpty{})
	case cst.KDecSignature:
		var binds []SigBind
		for _, sb := range n.ChildrenOfKind(cst.KSigBind) {
			binds = append(binds, lw.lowerSigBind(sb))
		}
		return lw.newStrDec(n, StrDecSignature{Binds: binds})
	case cst.KDecFunctor:
		var binds []FunctorBind
		for _, fb := range n.ChildrenOfKind(cst.KFunctorBind) {
			binds = append(binds, lw.lowerFunctorBind(fb))
		}
		return lw.newStrDec(n, StrDecFunctor{Binds: binds})
	case cst.KError:
		return lw.newStrDec(n, StrDecEmpty{})
	default:
		lw.report(diag.LowUnsupportedConstruct, n, "unsupported top-level declaration form")
		return lw.newStrDec(n, StrDecEmpty{})
	}
}

// lowerStrDecDec unwraps a KStrDecDec, which wraps either an ordinary core
// declaration or - at top level, REPL-style - a bare expression, sugar for
// "val it = exp".
func (lw *lowerer) lowerStrDecDec(n cst.Node) StrDecIdx {
	kids := n.ChildNodes()
	if len(kids) != 1 {
		return lw.newStrDec(n, StrDecEmpty{})
	}
	inner := kids[0]
	if inner.Kind().IsDec() {
		return lw.newStrDec(n, StrDecDec{Dec: lw.lowerDec(inner)})
	}
	e := lw.lowerExp(inner)
	itPat := lw.newPat(n, PatCon{Path: PathOf("it")})
	dec := lw.newDec(n, DecVal{Binds: []ValBind{{Pat: itPat, Rhs: e}}})
	return lw.newStrDec(n, StrDecDec{Dec: dec})
}

// lowerStrBind folds a structure-binding ascription ("structure S : SIG = E"
// or "structure S :> SIG = E") into an explicit StrExpAscription around the
// right-hand side, rather than giving StrBind its own opacity flag.
func (lw *lowerer) lowerStrBind(sb cst.Node) StrBind {
	kids := sb.ChildNodes()
	name := firstIdentText(sb.Tokens())
	if len(kids) == 2 {
		opaque := false
		if _, ok := sb.TokenOfKind(token.ColonGt); ok {
			opaque = true
		}
		sigIdx := lw.lowerSigExp(kids[0])
		bodyIdx := lw.lowerStrExp(kids[1])
		ascribed := lw.newStrExp(sb, StrExpAscription{Exp: bodyIdx, Sig: sigIdx, Opaque: opaque})
		return StrBind{Name: name, Rhs: ascribed}
	}
	if len(kids) == 1 {
		return StrBind{Name: name, Rhs: lw.lowerStrExp(kids[0])}
	}
	return StrBind{Name: name}
}

func (lw *lowerer) lowerStrExp(n cst.Node) StrExpIdx {
	if !n.Valid() {
		return NoStrExpIdx
	}
	switch n.Kind() {
	case cst.KStrExpStruct:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.newStrExp(n, StrExpPath{})
		}
		return lw.newStrExp(n, StrExpStruct{Body: lw.lowerStrDec(kids[0])})
	case cst.KStrExpPath:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.newStrExp(n, StrExpPath{})
		}
		return lw.newStrExp(n, StrExpPath{Path: lowerPath(kids[0])})
	case cst.KStrExpAscription:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.newStrExp(n, StrExpPath{})
		}
		opaque := false
		if _, ok := n.TokenOfKind(token.ColonGt); ok {
			opaque = true
		}
		return lw.newStrExp(n, StrExpAscription{Exp: lw.lowerStrExp(kids[0]), Sig: lw.lowerSigExp(kids[1]), Opaque: opaque})
	case cst.KStrExpApp:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.newStrExp(n, StrExpPath{})
		}
		return lw.newStrExp(n, StrExpApp{Functor: lowerPath(kids[0]), Arg: lw.lowerStrExp(kids[1])})
	case cst.KStrExpLet:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.newStrExp(n, StrExpPath{})
		}
		return lw.newStrExp(n, StrExpLet{Dec: lw.lowerStrDec(kids[0]), Body: lw.lowerStrExp(kids[1])})
	case cst.KError:
		return lw.newStrExp(n, StrExpPath{})
	default:
		lw.report(diag.LowUnsupportedConstruct, n, "unsupported structure expression form")
		return lw.newStrExp(n, StrExpPath{})
	}
}

func (lw *lowerer) lowerSigExp(n cst.Node) SigExpIdx {
	if !n.Valid() {
		return NoSigExpIdx
	}
	switch n.Kind() {
	case cst.KSigExpSpec:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.newSigExp(n, SigExpSpec{})
		}
		return lw.newSigExp(n, SigExpSpec{Spec: lw.lowerSpec(kids[0])})
	case cst.KSigExpName:
		return lw.newSigExp(n, SigExpName{Name: Name(n.Text())})
	case cst.KSigExpWhereType:
		return lw.lowerSigExpWhereType(n)
	case cst.KError:
		return lw.newSigExp(n, SigExpSpec{})
	default:
		lw.report(diag.LowUnsupportedConstruct, n, "unsupported signature expression form")
		return lw.newSigExp(n, SigExpSpec{})
	}
}

func (lw *lowerer) lowerSigExpWhereType(n cst.Node) SigExpIdx {
	all := n.ChildNodes()
	if len(all) < 2 {
		return lw.newSigExp(n, SigExpSpec{})
	}
	base := all[0]
	rest := all[1:]
	tyVars, rest2 := lw.splitOptionalTyVarSeq(rest)
	if len(rest2) != 2 {
		return lw.lowerSigExp(base)
	}
	return lw.newSigExp(n, SigExpWhereType{
		Sig:    lw.lowerSigExp(base),
		TyVars: tyVars,
		Path:   lowerPath(rest2[0]),
		Ty:     lw.lowerTy(rest2[1]),
	})
}

func (lw *lowerer) lowerValDesc(d cst.Node) ValDesc {
	kids := d.ChildNodes()
	var tyNode cst.Node
	if len(kids) == 1 {
		tyNode = kids[0]
	}
	return ValDesc{Name: firstIdentText(d.Tokens()), Ty: lw.lowerTy(tyNode)}
}

func (lw *lowerer) lowerStrDesc(d cst.Node) StrDesc {
	kids := d.ChildNodes()
	var sigNode cst.Node
	if len(kids) == 1 {
		sigNode = kids[0]
	}
	return StrDesc{Name: firstIdentText(d.Tokens()), Sig: lw.lowerSigExp(sigNode)}
}

func (lw *lowerer) lowerSpec(n cst.Node) SpecIdx {
	if !n.Valid() {
		return NoSpecIdx
	}
	switch n.Kind() {
	case cst.KSpecVal:
		var descs []ValDesc
		for _, d := range n.ChildrenOfKind(cst.KValDesc) {
			descs = append(descs, lw.lowerValDesc(d))
		}
		return lw.newSpec(n, SpecVal{Descs: descs})
	case cst.KSpecType:
		var binds []TypBind
		for _, tb := range n.ChildrenOfKind(cst.KTypBind) {
			binds = append(binds, lw.lowerTypBind(tb))
		}
		return lw.newSpec(n, SpecType{Binds: binds})
	case cst.KSpecEqtype:
		var binds []TypBind
		for _, tb := range n.ChildrenOfKind(cst.KTypBind) {
			binds = append(binds, lw.lowerTypBind(tb))
		}
		return lw.newSpec(n, SpecEqtype{Binds: binds})
	case cst.KSpecDatatype:
		var binds []DatBind
		for _, db := range n.ChildrenOfKind(cst.KDatBind) {
			binds = append(binds, lw.lowerDatBind(db))
		}
		return lw.newSpec(n, SpecDatatype{Binds: binds})
	case cst.KSpecException:
		var binds []ExBind
		for _, eb := range n.ChildNodes() {
			if eb.Kind() == cst.KExBind || eb.Kind() == cst.KExBindRepl {
				binds = append(binds, lw.lowerExBind(eb))
			}
		}
		return lw.newSpec(n, SpecException{Binds: binds})
	case cst.KSpecStructure:
		var descs []StrDesc
		for _, sd := range n.ChildrenOfKind(cst.KStrDesc) {
			descs = append(descs, lw.lowerStrDesc(sd))
		}
		return lw.newSpec(n, SpecStructure{Descs: descs})
	case cst.KSpecInclude:
		kids := n.ChildNodes()
		var sigNode cst.Node
		if len(kids) == 1 {
			sigNode = kids[0]
		}
		return lw.newSpec(n, SpecInclude{Sig: lw.lowerSigExp(sigNode)})
	case cst.KSpecSharing:
		var paths []Path
		for _, p := range n.ChildNodes() {
			paths = append(paths, lowerPath(p))
		}
		kind := SharingStructure
		if _, ok := n.TokenOfKind(token.KwType); ok {
			kind = SharingType
		}
		return lw.newSpec(n, SpecSharing{Kind: kind, Paths: paths})
	case cst.KSpecSeq:
		var specs []SpecIdx
		for _, s := range n.ChildNodes() {
			specs = append(specs, lw.lowerSpec(s))
		}
		return lw.newSpec(n, SpecSeq{Specs: specs})
	case cst.KSpecEmpty, cst.KError:
		return lw.newSpec(n, SpecEmpty{})
	default:
		lw.report(diag.LowUnsupportedConstruct, n, "unsupported specification form")
		return lw.newSpec(n, SpecEmpty{})
	}
}

func (lw *lowerer) lowerSigBind(sb cst.Node) SigBind {
	kids := sb.ChildNodes()
	var sigNode cst.Node
	if len(kids) == 1 {
		sigNode = kids[0]
	}
	return SigBind{Name: firstIdentText(sb.Tokens()), Sig: lw.lowerSigExp(sigNode)}
}

// lowerFunctorBind reads the single parameter form the parser accepts:
// "funid ( strid : sigexp ) [: sigexp | :> sigexp] = strexp".
func (lw *lowerer) lowerFunctorBind(fb cst.Node) FunctorBind {
	var idents []token.Token
	for _, t := range fb.Tokens() {
		if t.Kind == token.Ident {
			idents = append(idents, t)
		}
	}
	var name, argName Name
	if len(idents) > 0 {
		name = Name(idents[0].Text)
	}
	if len(idents) > 1 {
		argName = Name(idents[1].Text)
	}
	kids := fb.ChildNodes()
	if len(kids) == 0 {
		return FunctorBind{Name: name, ParamName: argName}
	}
	argSig := kids[0]
	body := kids[len(kids)-1]
	resultSig := NoSigExpIdx
	if len(kids) == 3 {
		resultSig = lw.lowerSigExp(kids[1])
	}
	return FunctorBind{
		Name:      name,
		ParamName: argName,
		ParamSig:  lw.lowerSigExp(argSig),
		ResultSig: resultSig,
		Body:      lw.lowerStrExp(body),
	}
}
