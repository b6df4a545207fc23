package catalog

import (
	"reflect"
	"testing"

	"github.com/scribe-bot/scribe/internal/models"
)

func TestCategoriesFirstSeenOrder(t *testing.T) {
	defs := []*models.TemplateDefinition{
		{ID: "t1", Category: "Заявление"},
		{ID: "t2", Category: "Справка"},
		{ID: "t3", Category: "Заявление"},
		{ID: "t4", Category: ""},
	}

	got := Categories(defs)
	want := []string{"Заявление", "Справка"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
}

func TestInCategory(t *testing.T) {
	defs := []*models.TemplateDefinition{
		{ID: "t1", Category: "Заявление"},
		{ID: "t2", Category: "Справка"},
		{ID: "t3", Category: "Заявление"},
	}

	got := InCategory(defs, "Заявление")
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t3" {
		t.Fatalf("unexpected filter result: %+v", got)
	}

	if empty := InCategory(defs, "Протокол"); len(empty) != 0 {
		t.Fatalf("expected empty result, got %+v", empty)
	}
}

func TestSplitFieldList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"ФИО", []string{"ФИО"}},
		{"ФИО, Дата", []string{"ФИО", "Дата"}},
		{"ФИО,Дата , Адрес", []string{"ФИО", "Дата", "Адрес"}},
		{"a, , b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		if got := SplitFieldList(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitFieldList(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
