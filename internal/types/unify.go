// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// UnifyError reports two types with incompatible structure.
type UnifyError struct {
	A Mono
	B Mono
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify types: %s with %s", e.A, e.B)
}

// InfiniteTypeError reports an occurs-check failure: binding V to T
// would require an infinite type.
type InfiniteTypeError struct {
	V Var
	T Mono
}

func (e *InfiniteTypeError) Error() string {
	return fmt.Sprintf("cannot construct an infinite type: %s ~ %s", e.V, e.T)
}

// MismatchError reports two type sequences of different shape.
type MismatchError struct {
	As []Mono
	Bs []Mono
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot unify types: [%s] with [%s]; different structure",
		joinTypes(e.As), joinTypes(e.Bs))
}

func joinTypes(ts []Mono) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Unify returns the most general substitution S with S(a) = S(b).
func Unify(a, b Mono) (Subst, error) {
	if Equal(a, b) {
		return Subst{}, nil
	}
	if v, ok := a.(TVar); ok {
		return bind(v.V, b)
	}
	if v, ok := b.(TVar); ok {
		return bind(v.V, a)
	}
	switch x := a.(type) {
	case Fun:
		if y, ok := b.(Fun); ok {
			return unifyVec([]Mono{x.In, x.Out}, []Mono{y.In, y.Out})
		}
	case Tuple:
		if y, ok := b.(Tuple); ok {
			return unifyVec(x.Items, y.Items)
		}
	case Pointer:
		if y, ok := b.(Pointer); ok {
			return Unify(x.Elem, y.Elem)
		}
	}
	return nil, &UnifyError{A: a, B: b}
}

func bind(v Var, t Mono) (Subst, error) {
	if tv, ok := t.(TVar); ok && tv.V == v {
		return Subst{}, nil
	}
	if FreeVars(t)[v] {
		return nil, &InfiniteTypeError{V: v, T: t}
	}
	return Single(v, t), nil
}

func unifyVec(as, bs []Mono) (Subst, error) {
	if len(as) != len(bs) {
		return nil, &MismatchError{As: as, Bs: bs}
	}
	if len(as) == 0 {
		return Subst{}, nil
	}
	s1, err := Unify(as[0], bs[0])
	if err != nil {
		return nil, err
	}
	restA := applyAll(as[1:], s1)
	restB := applyAll(bs[1:], s1)
	s2, err := unifyVec(restA, restB)
	if err != nil {
		return nil, err
	}
	// the later substitution composes over the earlier one, so the
	// combined map resolves chains like v2 ↦ (v1 -> τ), v1 ↦ σ
	return s2.Compose(s1), nil
}

func applyAll(ts []Mono, s Subst) []Mono {
	out := make([]Mono, len(ts))
	for i, t := range ts {
		out[i] = t.Apply(s)
	}
	return out
}
