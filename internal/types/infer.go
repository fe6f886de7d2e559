// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package types

import "fmt"

// UnknownVarError reports a reference to a name with no assumption.
// Origin carries the EVar's opaque origin for diagnostics.
type UnknownVarError struct {
	Name   string
	Origin any
}

func (e *UnknownVarError) Error() string {
	return fmt.Sprintf("`%s` is not defined", e.Name)
}

// Assumptions is the environment Γ: bindings from names to type
// schemes.
type Assumptions map[string]Scheme

// Clone returns a copy that can be extended independently.
func (a Assumptions) Clone() Assumptions {
	out := make(Assumptions, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Apply substitutes every scheme in the environment.
func (a Assumptions) Apply(s Subst) Assumptions {
	out := make(Assumptions, len(a))
	for k, v := range a {
		out[k] = v.Apply(s)
	}
	return out
}

// FreeVars is the union of the free variables of all schemes.
func (a Assumptions) FreeVars() map[Var]bool {
	set := make(map[Var]bool)
	for _, scheme := range a {
		for v := range scheme.FreeVars() {
			set[v] = true
		}
	}
	return set
}

// Generalize closes τ over the variables free in τ but not in Γ.
func (a Assumptions) Generalize(t Mono) Scheme {
	envFree := a.FreeVars()
	free := FreeVars(t)
	var vars []Var
	for v := range free {
		if !envFree[v] {
			vars = append(vars, v)
		}
	}
	sortVars(vars)
	return Scheme{Vars: vars, Body: t}
}

func sortVars(vars []Var) {
	for i := 1; i < len(vars); i++ {
		for j := i; j > 0 && vars[j] < vars[j-1]; j-- {
			vars[j], vars[j-1] = vars[j-1], vars[j]
		}
	}
}

// Infer runs algorithm W: it returns the most general substitution and
// type for expr under the assumptions.
func Infer(expr Expr, ctx Assumptions, env *Environment) (Subst, Mono, error) {
	switch e := expr.(type) {
	case EVar:
		scheme, ok := ctx[e.Name]
		if !ok {
			return nil, nil, &UnknownVarError{Name: e.Name, Origin: e.Origin}
		}
		return Subst{}, scheme.Instantiate(env), nil

	case ELam:
		beta := TVar{V: env.Fresh()}
		inner := ctx.Clone()
		inner[e.Bind] = MonoScheme(beta)
		s, t, err := Infer(e.Expr, inner, env)
		if err != nil {
			return nil, nil, err
		}
		return s, Fun{In: beta.Apply(s), Out: t}, nil

	case EApp:
		beta := TVar{V: env.Fresh()}
		s1, t1, err := Infer(e.Fn, ctx, env)
		if err != nil {
			return nil, nil, err
		}
		s2, t2, err := Infer(e.Arg, ctx.Apply(s1), env)
		if err != nil {
			return nil, nil, err
		}
		s3, err := Unify(t1.Apply(s2), Fun{In: t2, Out: beta})
		if err != nil {
			return nil, nil, err
		}
		return s3.Compose(s2).Compose(s1), beta.Apply(s3), nil

	case ELet:
		s1, t1, err := Infer(e.Value, ctx, env)
		if err != nil {
			return nil, nil, err
		}
		applied := ctx.Apply(s1)
		scheme := applied.Generalize(t1)
		inner := applied.Clone()
		inner[e.Bind] = scheme
		s2, t2, err := Infer(e.Body, inner, env)
		if err != nil {
			return nil, nil, err
		}
		return s2.Compose(s1), t2, nil

	case EIf:
		s1, tc, err := Infer(e.Cond, ctx, env)
		if err != nil {
			return nil, nil, err
		}
		s2, err := Unify(tc, Boolean)
		if err != nil {
			return nil, nil, err
		}
		s21 := s2.Compose(s1)
		s3, tt, err := Infer(e.Then, ctx.Apply(s21), env)
		if err != nil {
			return nil, nil, err
		}
		s321 := s3.Compose(s21)
		s4, tf, err := Infer(e.Else, ctx.Apply(s321), env)
		if err != nil {
			return nil, nil, err
		}
		s5, err := Unify(tt.Apply(s4), tf)
		if err != nil {
			return nil, nil, err
		}
		return s5.Compose(s4).Compose(s321), tt.Apply(s5.Compose(s4)), nil

	case ELit:
		return Subst{}, e.Type(), nil

	case ETuple:
		s := Subst{}
		items := make([]Mono, 0, len(e.Items))
		current := ctx
		for _, item := range e.Items {
			current = current.Apply(s)
			si, ti, err := Infer(item, current, env)
			if err != nil {
				return nil, nil, err
			}
			s = si.Compose(s)
			items = append(items, ti)
		}
		for i := range items {
			items[i] = items[i].Apply(s)
		}
		return s, Tuple{Items: items}, nil

	default:
		return nil, nil, fmt.Errorf("types: unhandled expression %T", expr)
	}
}

// InferScheme infers expr in ctx and generalizes the result over the
// type variables that are not free in the substituted ctx.
func InferScheme(expr Expr, ctx Assumptions, env *Environment) (Scheme, error) {
	s, t, err := Infer(expr, ctx, env)
	if err != nil {
		return Scheme{}, err
	}
	t = t.Apply(s)
	return ctx.Apply(s).Generalize(t), nil
}
