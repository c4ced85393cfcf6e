package ty

import (
	"fmt"
	"strings"

	"github.com/cottand/tyck/hir"
)

// AdtID identifies an algebraic data type definition registered in a DB
type AdtID uint32

type AdtDef struct {
	Name hir.IdentID
	// Params are the generic parameters of the ADT, as TyParam or ConstTy(ConstTyParam) types
	Params []TyID
	Fields []AdtField
}

type AdtField struct {
	Name hir.IdentID
	Ty   TyID
}

// FuncDefID identifies a lowered function signature registered in a DB
type FuncDefID uint32

type FuncDef struct {
	Name hir.IdentID
	Hir  *hir.Func
	// Params are the generic parameters of the function, including the ones of its parent
	Params []TyID
	ArgTys []TyID
	RetTy  TyID
}

// TraitID identifies a trait definition registered in a DB
type TraitID uint32

type TraitDef struct {
	Name hir.IdentID
	// Self is the implicit Self parameter of the trait
	Self   TyID
	Params []TyID
}

// TraitInstID is an interned trait applied to arguments, like `Add<u8>`
type TraitInstID uint32

type TraitInst struct {
	Def  TraitID
	Args []TyID
}

// Implementor is an implementation of a trait instance for a type
type Implementor struct {
	Trait  TraitInstID
	Ty     TyID
	Params []TyID
}

// NewAdt registers def. Every call returns a distinct ADT, even for equal definitions.
// The fields of def may be filled in after registration through SetAdtFields,
// so that ADTs can refer to themselves
func (db *DB) NewAdt(def AdtDef) AdtID {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.adts = append(db.adts, def)
	return AdtID(len(db.adts) - 1)
}

func (db *DB) SetAdtFields(id AdtID, fields []AdtField) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.adts[id].Fields = fields
}

func (db *DB) Adt(id AdtID) AdtDef {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.adts[id]
}

func (db *DB) NewFuncDef(def FuncDef) FuncDefID {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.funcs = append(db.funcs, def)
	return FuncDefID(len(db.funcs) - 1)
}

func (db *DB) FuncDef(id FuncDefID) FuncDef {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.funcs[id]
}

func (db *DB) NewTrait(def TraitDef) TraitID {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.traits = append(db.traits, def)
	return TraitID(len(db.traits) - 1)
}

func (db *DB) Trait(id TraitID) TraitDef {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.traits[id]
}

func traitInstKey(inst TraitInst) string {
	sb := &strings.Builder{}
	fmt.Fprint(sb, inst.Def)
	for _, arg := range inst.Args {
		fmt.Fprint(sb, ",", arg)
	}
	return sb.String()
}

// TraitInst interns a trait instance
func (db *DB) TraitInst(inst TraitInst) TraitInstID {
	key := traitInstKey(inst)
	db.mu.RLock()
	id, ok := db.traitInstIndex[key]
	db.mu.RUnlock()
	if ok {
		return id
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if id, ok := db.traitInstIndex[key]; ok {
		return id
	}
	id = TraitInstID(len(db.traitInsts))
	db.traitInsts = append(db.traitInsts, TraitInst{Def: inst.Def, Args: append([]TyID(nil), inst.Args...)})
	db.traitInstIndex[key] = id
	return id
}

func (db *DB) TraitInstData(id TraitInstID) TraitInst {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.traitInsts[id]
}

// Args returns the arguments of the trait instance, starting with Self
func (id TraitInstID) Args(db *DB) []TyID {
	return db.TraitInstData(id).Args
}
