/*
Package forms provides a reactive state engine for hierarchical form
data: a tree of leaf fields, keyed groups, and indexed arrays whose
values, validity, and interaction state stay consistent under mutation.

Every mutation recomputes exactly what it affects and propagates both
ways: setting a child's value re-derives every ancestor's value and
status, and disabling a parent disables the whole subtree. Status is
always derived, never assigned; a control is VALID, INVALID, PENDING, or
DISABLED depending on its own errors, its children, and outstanding
async validation.

# Basic Usage

Build a tree, mutate it, observe it:

	form := forms.NewGroup(map[string]forms.Control{
	    "name":  forms.NewField("", forms.WithValidators(forms.Required)),
	    "email": forms.NewField("", forms.WithValidators(forms.Required, forms.Email)),
	})

	sub := form.StatusChanges().Subscribe(func(s forms.Status) {
	    render(s)
	})
	defer sub.Unsubscribe()

	form.Get("email").SetValue("a@b.co")
	fmt.Println(form.Valid())

# Validation

Synchronous validators run on every recompute; asynchronous validators
run only after the synchronous ones pass, holding the control PENDING
until they settle. A superseded async run is canceled through its
context and its result discarded:

	user := forms.NewField("",
	    forms.WithValidators(forms.Required, forms.MinLength(3)),
	    forms.WithAsyncValidators(checkNameFree),
	)

Rule builds validators from go-playground/validator tag syntax:

	age := forms.NewField(nil, forms.WithValidators(forms.Rule("required,gte=18")))

# Update Strategies

Fields apply view-side interaction on change by default; WithUpdateOn
defers application to blur or submit, buffering the typed value until
the flush point:

	code := forms.NewField("", forms.WithUpdateOn(forms.UpdateOnBlur))
	code.Input("4")
	code.Input("42")
	code.Blur() // value becomes "42" here

# Loading External Data

A Loader feeds a tree from a watched source, debouncing rapid changes
and tracking the apply lifecycle for the binding layer:

	loader := forms.NewLoader(forms.NewFileWatcher("draft.yaml"), form,
	    forms.WithRetry[[]byte, any](3))
	if err := loader.Start(ctx); err != nil {
	    log.Fatal(err)
	}

# Concurrency

The tree is single-writer: all reads and mutations happen on one owning
goroutine. Async validators run on their own goroutines but never touch
the tree; each receives a snapshot of the value under validation and
hands its result back through the control's run handle. The owning
goroutine applies handed-off results at the start of its next call on
any control in the tree. The force-update hook signals that a result is
waiting and may fire from a validator goroutine, so it must be safe to
invoke from any goroutine. Stream subscribers run synchronously on the
owning goroutine; bridge to a channel with Stream.Channel or a Feed when
the consumer is slow or lives on another goroutine.
*/
package forms
