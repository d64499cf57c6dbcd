package app

import (
	"context"
	"errors"
	"testing"

	"georag/internal/config"
	"georag/internal/ner"
)

type staticNames struct {
	names []string
	err   error
}

func (s staticNames) EntityNames(context.Context) ([]string, error) {
	return s.names, s.err
}

func TestBuildRecognizer(t *testing.T) {
	ctx := context.Background()

	t.Run("http provider", func(t *testing.T) {
		cfg := &config.Config{NERProvider: config.NERProviderHTTP, NERBaseURL: "http://ner:5000"}
		rec, svc := buildRecognizer(ctx, cfg, staticNames{})
		if svc == nil || rec == nil {
			t.Fatal("buildRecognizer() should return the HTTP recognizer")
		}
		if svc.BaseURL != "http://ner:5000" {
			t.Errorf("BaseURL = %q", svc.BaseURL)
		}
	})

	t.Run("gazetteer from graph names", func(t *testing.T) {
		cfg := &config.Config{NERProvider: config.NERProviderGazetteer}
		rec, svc := buildRecognizer(ctx, cfg, staticNames{names: []string{"Germany", "Rhine"}})
		if svc != nil {
			t.Error("gazetteer provider should not expose an HTTP recognizer")
		}
		gaz, ok := rec.(*ner.Gazetteer)
		if !ok {
			t.Fatalf("recognizer = %T, want *ner.Gazetteer", rec)
		}
		got, _ := gaz.ExtractEntities(ctx, "Does the Rhine flow through Germany?")
		if len(got) != 2 || got[0] != "Rhine" || got[1] != "Germany" {
			t.Errorf("ExtractEntities() = %v, want [Rhine Germany]", got)
		}
	})

	t.Run("unreachable graph yields no recognizer", func(t *testing.T) {
		cfg := &config.Config{NERProvider: config.NERProviderGazetteer}
		rec, svc := buildRecognizer(ctx, cfg, staticNames{err: errors.New("connection refused")})
		if rec != nil || svc != nil {
			t.Errorf("buildRecognizer() = %v, %v, want nil", rec, svc)
		}
	})
}
