package models

import "testing"

func TestSessionAcceptValue(t *testing.T) {
	sess := NewSession("user-1")
	sess.State = SessionStateAwaitingFieldValue
	sess.PendingFields = []string{"ФИО", "Дата"}

	field, ok := sess.CurrentField()
	if !ok || field != "ФИО" {
		t.Fatalf("expected ФИО at queue head, got %q", field)
	}

	if !sess.AcceptValue("Иванов") {
		t.Fatal("expected value to be accepted")
	}
	if sess.Values["ФИО"] != "Иванов" {
		t.Fatalf("unexpected values: %v", sess.Values)
	}

	field, ok = sess.CurrentField()
	if !ok || field != "Дата" {
		t.Fatalf("expected Дата at queue head, got %q", field)
	}

	if !sess.AcceptValue("01.01.2025") {
		t.Fatal("expected value to be accepted")
	}
	if _, ok := sess.CurrentField(); ok {
		t.Fatal("expected empty queue after all values accepted")
	}
	if len(sess.Values) != 2 {
		t.Fatalf("expected exactly 2 collected values, got %d", len(sess.Values))
	}
}

func TestSessionAcceptValueEmptyQueue(t *testing.T) {
	sess := NewSession("user-1")
	if sess.AcceptValue("text") {
		t.Fatal("expected rejection with empty queue")
	}
	if len(sess.Values) != 0 {
		t.Fatalf("unexpected values: %v", sess.Values)
	}
}

func TestSessionReset(t *testing.T) {
	sess := NewSession("user-1")
	sess.State = SessionStateAwaitingFieldValue
	sess.Category = "Заявление"
	sess.TemplateID = "t1"
	sess.Template = &TemplateDefinition{ID: "t1"}
	sess.PendingFields = []string{"Дата"}
	sess.Values["ФИО"] = "Иванов"

	sess.Reset()

	if sess.State != SessionStateIdle {
		t.Fatalf("expected idle, got %q", sess.State)
	}
	if sess.Category != "" || sess.TemplateID != "" || sess.Template != nil {
		t.Fatalf("expected selection cleared, got %+v", sess)
	}
	if len(sess.PendingFields) != 0 || len(sess.Values) != 0 {
		t.Fatalf("expected progress cleared, got %+v", sess)
	}
	if sess.UserID != "user-1" {
		t.Fatalf("reset must keep identity, got %q", sess.UserID)
	}
}

func TestTemplateDefinitionValidate(t *testing.T) {
	def := &TemplateDefinition{ID: "t1", Category: "Заявление", RequiredFields: []string{"ФИО", "ФИО"}}
	if err := def.Validate(); err == nil {
		t.Fatal("expected error for duplicate fields")
	}

	def = &TemplateDefinition{ID: "t1", Category: "Заявление", RequiredFields: []string{"ФИО", "Дата"}}
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
