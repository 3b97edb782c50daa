package suggest

import (
	"reflect"
	"testing"
)

var names = []string{"Luke Skywalker", "Leia Organa", "Lando Calrissian", "Han Solo"}

func TestSuggestEmptyQuery(t *testing.T) {
	ix := New(names, ModePrefix)
	if got := ix.Suggest(""); got != nil {
		t.Errorf("empty query = %v, want nil", got)
	}
	if got := ix.Suggest("   "); got != nil {
		t.Errorf("blank query = %v, want nil", got)
	}
}

func TestSuggestPrefix(t *testing.T) {
	ix := New(names, ModePrefix)
	if got := ix.Suggest("lu"); !reflect.DeepEqual(got, []string{"Luke Skywalker"}) {
		t.Errorf("prefix lu = %v", got)
	}
	// Prefix mode must not match mid-name.
	if got := ix.Suggest("sky"); got != nil {
		t.Errorf("prefix sky = %v, want nil", got)
	}
}

func TestSuggestSubstring(t *testing.T) {
	ix := New(names, ModeSubstring)
	got := ix.Suggest("an")
	want := []string{"Leia Organa", "Lando Calrissian", "Han Solo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("substring an = %v, want %v (original list order)", got, want)
	}
}

func TestSuggestCaseInsensitive(t *testing.T) {
	ix := New(names, ModePrefix)
	if got := ix.Suggest("LUKE"); !reflect.DeepEqual(got, []string{"Luke Skywalker"}) {
		t.Errorf("uppercase query = %v", got)
	}
}

func TestIndexCopiesInput(t *testing.T) {
	src := []string{"Yoda"}
	ix := New(src, ModePrefix)
	src[0] = "Jabba"
	if got := ix.Suggest("yo"); !reflect.DeepEqual(got, []string{"Yoda"}) {
		t.Errorf("index shares caller slice: %v", got)
	}
}

func TestModeValid(t *testing.T) {
	if !ModePrefix.Valid() || !ModeSubstring.Valid() {
		t.Error("built-in modes must be valid")
	}
	if Mode("fuzzy").Valid() {
		t.Error("unknown mode must be invalid")
	}
}
