package hir

// Each HIR arena is indexed by its own typed, zero-sentinel ID, the same
// convention the teacher's HIR arena used (see DESIGN.md): index 0 never
// names a real element, so a zero-valued ID reads as "absent" instead of
// "the first element" by accident.

type ExpIdx uint32

const NoExpIdx ExpIdx = 0

func (id ExpIdx) IsValid() bool { return id != NoExpIdx }

type PatIdx uint32

const NoPatIdx PatIdx = 0

func (id PatIdx) IsValid() bool { return id != NoPatIdx }

type TyIdx uint32

const NoTyIdx TyIdx = 0

func (id TyIdx) IsValid() bool { return id != NoTyIdx }

type DecIdx uint32

const NoDecIdx DecIdx = 0

func (id DecIdx) IsValid() bool { return id != NoDecIdx }

type StrDecIdx uint32

const NoStrDecIdx StrDecIdx = 0

func (id StrDecIdx) IsValid() bool { return id != NoStrDecIdx }

type StrExpIdx uint32

const NoStrExpIdx StrExpIdx = 0

func (id StrExpIdx) IsValid() bool { return id != NoStrExpIdx }

type SigExpIdx uint32

const NoSigExpIdx SigExpIdx = 0

func (id SigExpIdx) IsValid() bool { return id != NoSigExpIdx }

type SpecIdx uint32

const NoSpecIdx SpecIdx = 0

func (id SpecIdx) IsValid() bool { return id != NoSpecIdx }
