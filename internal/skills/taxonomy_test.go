package skills

import (
	"reflect"
	"testing"
)

func TestParseTaxonomy(t *testing.T) {
	raw := `{"foundation":["Math"],"core":["Python","SQL"],"advanced":["MLOps"]}`
	got := ParseTaxonomy(raw)

	want := Taxonomy{
		Foundation: []string{"Math"},
		Core:       []string{"Python", "SQL"},
		Advanced:   []string{"MLOps"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTaxonomy = %+v, want %+v", got, want)
	}
}

func TestParseTaxonomy_Fenced(t *testing.T) {
	raw := "```json\n{\"foundation\":[\"Math\"],\"core\":[],\"advanced\":[]}\n```"
	got := ParseTaxonomy(raw)

	if len(got.Foundation) != 1 || got.Foundation[0] != "Math" {
		t.Errorf("Foundation = %v, want [Math]", got.Foundation)
	}
}

func TestParseTaxonomy_Malformed(t *testing.T) {
	got := ParseTaxonomy("Here are some great skills you should learn!")

	want := EmptyTaxonomy()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTaxonomy(prose) = %+v, want empty taxonomy", got)
	}
	if got.Foundation == nil || got.Core == nil || got.Advanced == nil {
		t.Error("fallback taxonomy must have non-nil categories")
	}
}

func TestParseTaxonomy_MissingCategories(t *testing.T) {
	got := ParseTaxonomy(`{"foundation":["Math"]}`)

	if got.Core == nil || got.Advanced == nil {
		t.Error("missing categories must come back as empty, not nil")
	}
}

func TestMerge_Union(t *testing.T) {
	a := Taxonomy{Foundation: []string{"a", "b"}, Core: []string{}, Advanced: []string{"x"}}
	b := Taxonomy{Foundation: []string{"b", "c"}, Core: []string{"y"}, Advanced: []string{"x"}}

	got := Merge(a, b)

	want := Taxonomy{
		Foundation: []string{"a", "b", "c"},
		Core:       []string{"y"},
		Advanced:   []string{"x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestMerge_CaseSensitive(t *testing.T) {
	a := Taxonomy{Foundation: []string{"SQL"}}
	b := Taxonomy{Foundation: []string{"sql"}}

	got := Merge(a, b)
	if len(got.Foundation) != 2 {
		t.Errorf("Foundation = %v, want both SQL and sql (exact-string identity)", got.Foundation)
	}
}

func TestMerge_Empty(t *testing.T) {
	got := Merge(EmptyTaxonomy(), EmptyTaxonomy())
	if !reflect.DeepEqual(got, EmptyTaxonomy()) {
		t.Errorf("Merge(empty, empty) = %+v", got)
	}
}
