package tycheck

import (
	"context"
	"runtime"

	"github.com/cottand/tyck/hir"
	"github.com/cottand/tyck/ty"
	"github.com/cottand/tyck/ty/unify"
	"github.com/cottand/tyck/tyerr"
	"golang.org/x/sync/errgroup"
)

// CheckFunc infers the types of the body of fn.
//
// Problems in the program are returned as tyerr.Errors, next to a TypedBody
// that has Invalid types where they occurred. A non-nil error means fn
// could not be checked at all: either it has no body, or the checker hit a tyerr.Failure
func CheckFunc(db *ty.DB, fn *hir.Func, deps Deps) (typed *TypedBody, errs *tyerr.Errors, err error) {
	defer tyerr.RecoverFailure(&err)

	env, err := NewEnvWithFunc(db, fn, deps)
	if err != nil {
		return nil, nil, err
	}
	table := unify.NewTable(db)
	c := newChecker(env, table)
	c.checkBody()
	typed = env.Finish(table)

	if c.errs.HasError() {
		logger.Info("checked function with errors", "func", fn.Name, "errors", c.errs)
	}
	return typed, c.errs, nil
}

// Result is the outcome of checking one function with CheckAll
type Result struct {
	Func   *hir.Func
	Body   *TypedBody
	Errors *tyerr.Errors
	// Err is set when the function could not be checked, see CheckFunc
	Err error
}

// CheckAll checks the bodies of fns concurrently, with at most parallel bodies at a time,
// or GOMAXPROCS if parallel is not positive. Results are in the same order as fns.
//
// A function that cannot be checked does not stop the others. The returned
// error is only set when ctx is done before every function was checked
func CheckAll(ctx context.Context, db *ty.DB, fns []*hir.Func, deps Deps, parallel int) ([]Result, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	results := make([]Result, len(fns))
	for i, fn := range fns {
		if groupCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			typed, errs, err := CheckFunc(db, fn, deps)
			if err != nil {
				logger.Warn("could not check function", "func", fn.Name, "err", err)
			}
			results[i] = Result{Func: fn, Body: typed, Errors: errs, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	// the group's context is always done once Wait returns
	return results, ctx.Err()
}
