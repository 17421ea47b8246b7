package forms

import (
	"errors"
	"testing"
)

func newLoginForm() *Group {
	return NewGroup(map[string]Control{
		"user": NewField("", WithValidators(Required)),
		"pass": NewField("", WithValidators(Required)),
	})
}

func TestGroup_ValueAggregation(t *testing.T) {
	form := NewGroup(map[string]Control{
		"a": NewField(1),
		"b": NewField(2),
	})

	v := form.Value().(map[string]any)
	if v["a"] != 1 || v["b"] != 2 {
		t.Errorf("unexpected aggregate %v", v)
	}
}

func TestGroup_SetValueStrict(t *testing.T) {
	form := newLoginForm()

	err := form.SetValue(map[string]any{"user": "ada", "pass": "s3cret"})
	if err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if !form.Valid() {
		t.Errorf("expected valid, got %s", form.Status())
	}

	v := form.Value().(map[string]any)
	if v["user"] != "ada" || v["pass"] != "s3cret" {
		t.Errorf("unexpected value %v", v)
	}
}

func TestGroup_SetValueUnknownKey(t *testing.T) {
	form := newLoginForm()

	err := form.SetValue(map[string]any{"user": "a", "pass": "b", "extra": 1})

	var missing *MissingControlError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingControlError, got %v", err)
	}
	if missing.Key != "extra" {
		t.Errorf("expected key extra, got %s", missing.Key)
	}
}

func TestGroup_SetValueMissingKey(t *testing.T) {
	form := newLoginForm()

	err := form.SetValue(map[string]any{"user": "a"})

	var missing *MissingValueError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingValueError, got %v", err)
	}
}

func TestGroup_SetValueWrongShape(t *testing.T) {
	form := newLoginForm()

	err := form.SetValue("not a map")

	var shape *ValueShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ValueShapeError, got %v", err)
	}
}

func TestGroup_PatchValuePartial(t *testing.T) {
	form := newLoginForm()
	form.SetValue(map[string]any{"user": "ada", "pass": "old"})

	if err := form.PatchValue(map[string]any{"pass": "new", "unknown": 1}); err != nil {
		t.Fatalf("PatchValue failed: %v", err)
	}

	v := form.Value().(map[string]any)
	if v["user"] != "ada" || v["pass"] != "new" {
		t.Errorf("unexpected value %v", v)
	}
}

func TestGroup_PatchValueSingleRecompute(t *testing.T) {
	form := newLoginForm()

	emissions := 0
	form.ValueChanges().Subscribe(func(any) { emissions++ })

	form.PatchValue(map[string]any{"user": "a", "pass": "b"})

	if emissions != 1 {
		t.Errorf("patch must recompute the group once, got %d emissions", emissions)
	}
}

func TestGroup_ResetChildren(t *testing.T) {
	user := NewField("anon", InitialAsDefault())
	form := NewGroup(map[string]Control{"user": user})

	user.SetValue("ada")
	user.MarkAsDirty()
	form.Reset(nil)

	if user.Value() != "anon" {
		t.Errorf("expected anon, got %v", user.Value())
	}
	if form.Dirty() {
		t.Error("reset must leave the tree pristine")
	}
}

func TestGroup_ResetWithValues(t *testing.T) {
	form := newLoginForm()

	form.Reset(map[string]any{"user": "guest", "pass": nil})

	v := form.Value().(map[string]any)
	if v["user"] != "guest" {
		t.Errorf("expected guest, got %v", v["user"])
	}
}

func TestGroup_AddRemoveControl(t *testing.T) {
	form := NewGroup(nil)

	form.AddControl("a", NewField(1))
	if !form.Contains("a") {
		t.Error("expected a registered")
	}

	form.RemoveControl("a")
	if form.Contains("a") {
		t.Error("expected a removed")
	}
	if form.Len() != 0 {
		t.Errorf("expected empty group, got %d", form.Len())
	}
}

func TestGroup_AddInvalidControlFlipsStatus(t *testing.T) {
	form := NewGroup(map[string]Control{"ok": NewField("x")})

	form.AddControl("bad", NewField("", WithValidators(Required)))
	if !form.Invalid() {
		t.Errorf("expected invalid, got %s", form.Status())
	}

	form.RemoveControl("bad")
	if !form.Valid() {
		t.Errorf("expected valid after removal, got %s", form.Status())
	}
}

func TestGroup_SetControlReplaces(t *testing.T) {
	old := NewField("", WithValidators(Required))
	form := NewGroup(map[string]Control{"f": old})

	form.SetControl("f", NewField("fine"))

	if !form.Valid() {
		t.Errorf("expected valid after replacement, got %s", form.Status())
	}
	if old.Parent() != nil {
		t.Error("replaced control must be detached")
	}
}

func TestGroup_ContainsExcludesDisabled(t *testing.T) {
	f := NewField("x")
	form := NewGroup(map[string]Control{"f": f})

	f.Disable()

	if form.Contains("f") {
		t.Error("Contains must exclude disabled children")
	}
}

func TestGroup_DisabledChildExcludedFromValue(t *testing.T) {
	a := NewField(1)
	b := NewField(2)
	form := NewGroup(map[string]Control{"a": a, "b": b})

	b.Disable()

	v := form.Value().(map[string]any)
	if _, ok := v["b"]; ok {
		t.Errorf("disabled child must vanish from Value, got %v", v)
	}
	raw := form.RawValue().(map[string]any)
	if raw["b"] != 2 {
		t.Errorf("RawValue must keep disabled children, got %v", raw)
	}
}

func TestGroup_AllChildrenDisabledDisablesParent(t *testing.T) {
	a := NewField(1)
	b := NewField(2)
	form := NewGroup(map[string]Control{"a": a, "b": b})

	a.Disable()
	if form.Disabled() {
		t.Error("one enabled child must keep the group enabled")
	}

	b.Disable()
	if !form.Disabled() {
		t.Errorf("all children disabled must disable the group, got %s", form.Status())
	}

	a.Enable()
	if !form.Enabled() {
		t.Error("re-enabling a child must re-enable the group")
	}
}

func TestGroup_AllChildrenDisabledClearsGroupErrors(t *testing.T) {
	a := NewField(1)
	b := NewField(2)
	form := NewGroup(map[string]Control{"a": a, "b": b},
		WithValidators(func(c Control) Errors { return Errors{"group": true} }),
	)

	if !form.Invalid() {
		t.Fatalf("expected invalid group, got %s", form.Status())
	}

	a.Disable()
	b.Disable()

	if !form.Disabled() {
		t.Fatalf("all children disabled must disable the group, got %s", form.Status())
	}
	if form.Errors() != nil {
		t.Errorf("a disabled group must carry no errors, got %v", form.Errors())
	}
}

func TestGroup_DisableCascadesDown(t *testing.T) {
	leaf := NewField("", WithValidators(Required))
	inner := NewGroup(map[string]Control{"leaf": leaf})
	form := NewGroup(map[string]Control{"inner": inner})

	form.Disable()

	if !leaf.Disabled() || !inner.Disabled() {
		t.Error("disable must cascade to every descendant")
	}

	form.Enable()

	if !leaf.Enabled() {
		t.Error("enable must cascade to every descendant")
	}
	if !form.Invalid() {
		t.Errorf("validation must resume after enable, got %s", form.Status())
	}
}

func TestGroup_DisabledGroupValueIncludesChildren(t *testing.T) {
	form := NewGroup(map[string]Control{"a": NewField(1)})

	form.Disable()

	v := form.Value().(map[string]any)
	if v["a"] != 1 {
		t.Errorf("a disabled group reports all children, got %v", v)
	}
}

func TestGroup_EmptyGroupIsValid(t *testing.T) {
	form := NewGroup(nil)

	if !form.Valid() {
		t.Errorf("an empty group is valid, got %s", form.Status())
	}
}

func TestGroup_NestedSetValue(t *testing.T) {
	form := NewGroup(map[string]Control{
		"name": NewField(""),
		"address": NewGroup(map[string]Control{
			"city": NewField(""),
		}),
	})

	err := form.SetValue(map[string]any{
		"name":    "ada",
		"address": map[string]any{"city": "london"},
	})
	if err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	if form.Get("address.city").Value() != "london" {
		t.Errorf("nested value not applied: %v", form.Value())
	}
}
