package forms

import (
	"context"
	"reflect"
	"sync"
)

// ValidatorFunc checks a control synchronously. A nil result means the
// control's own value is acceptable; a non-empty map records one entry per
// failed rule.
type ValidatorFunc func(c Control) Errors

// AsyncValidatorFunc checks a value asynchronously. The engine passes a
// snapshot of the control's value taken when the run starts, so the
// function shares no state with the tree it validates. The context is
// canceled when the run is superseded or the control is disabled; a
// canceled run's result is never observed. A non-nil error is folded into
// the merged error map by ComposeAsync rather than propagated, since a
// failing validator is an expected data-level outcome.
type AsyncValidatorFunc func(ctx context.Context, value any) (Errors, error)

// asyncFailureKey records an async validator that failed outright.
const asyncFailureKey = "async"

// Compose merges validators into a single callable. Validators run in the
// order provided and their error maps are merged; when two emit the same
// key, the later one wins. Nil entries are skipped. Compose returns nil
// when no validators remain.
func Compose(validators []ValidatorFunc) ValidatorFunc {
	present := make([]ValidatorFunc, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			present = append(present, v)
		}
	}
	switch len(present) {
	case 0:
		return nil
	case 1:
		return present[0]
	}
	return func(c Control) Errors {
		var merged Errors
		for _, v := range present {
			merged = mergeErrors(merged, v(c))
		}
		return merged
	}
}

// ComposeAsync merges async validators into a single callable. All
// validators run concurrently and the composed call settles only once
// every contributor has settled; a failure in one does not stop the
// others. Results merge in the order the validators were provided.
func ComposeAsync(validators []AsyncValidatorFunc) AsyncValidatorFunc {
	present := make([]AsyncValidatorFunc, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return func(ctx context.Context, value any) (Errors, error) {
		results := make([]Errors, len(present))
		var wg sync.WaitGroup
		wg.Add(len(present))
		for i, v := range present {
			go func(i int, v AsyncValidatorFunc) {
				defer wg.Done()
				errs, err := v(ctx, value)
				if err != nil {
					errs = mergeErrors(errs, Errors{asyncFailureKey: err.Error()})
				}
				results[i] = errs
			}(i, v)
		}
		wg.Wait()
		var merged Errors
		for _, r := range results {
			merged = mergeErrors(merged, r)
		}
		return merged, nil
	}
}

// mergeErrors folds src into dst, allocating dst on first use. Later keys
// overwrite earlier ones.
func mergeErrors(dst, src Errors) Errors {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = Errors{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// sameFunc compares validators by function identity. Parameterized rules
// built from the same constructor (for example Min(3) and Min(5)) share an
// identity; hold on to the returned ValidatorFunc when you need to remove
// a specific instance later.
func sameFunc(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
