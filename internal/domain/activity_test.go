package domain

import "testing"

func TestApplyDefaults_FillsMissingFields(t *testing.T) {
	a := Activity{Description: "a walk"}
	a.ApplyDefaults()

	if a.Title != DefaultTitle {
		t.Errorf("expected title %q, got %q", DefaultTitle, a.Title)
	}
	if a.Price != DefaultPrice {
		t.Errorf("expected price %q, got %q", DefaultPrice, a.Price)
	}
	if a.Description != "a walk" {
		t.Errorf("description changed: %q", a.Description)
	}
}

func TestApplyDefaults_KeepsPresentFields(t *testing.T) {
	a := Activity{Title: "Teide Tour", Price: "€50"}
	a.ApplyDefaults()

	if a.Title != "Teide Tour" {
		t.Errorf("title overwritten: %q", a.Title)
	}
	if a.Price != "€50" {
		t.Errorf("price overwritten: %q", a.Price)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	a := Activity{}
	a.ApplyDefaults()
	first := a
	a.ApplyDefaults()
	if a != first {
		t.Errorf("second application changed the activity: %+v vs %+v", a, first)
	}
}

func TestNewOffTopicResponse(t *testing.T) {
	resp := NewOffTopicResponse("not here")
	if !resp.OffTopic {
		t.Error("expected off_topic")
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", resp.Results)
	}
	if resp.Message == "" {
		t.Error("expected a message")
	}
}

func TestNewQuery_DefaultLanguage(t *testing.T) {
	q := NewQuery("beaches", "", false)
	if q.Language != DefaultLanguage {
		t.Errorf("expected %q, got %q", DefaultLanguage, q.Language)
	}
	q = NewQuery("beaches", "it", true)
	if q.Language != "it" || !q.IsSuggestion {
		t.Errorf("unexpected query: %+v", q)
	}
}
