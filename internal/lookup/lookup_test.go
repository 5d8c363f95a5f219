package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDatamuse_Rhymes(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("rel_rhy")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"word":"light","score":3000,"numSyllables":1},{"word":" ","score":1},{"word":"delight","score":2000,"numSyllables":2}]`))
	}))
	defer server.Close()

	client := NewDatamuseClient(server.URL+"/", time.Second, nil)
	words, err := client.RhymeWords(context.Background(), "night sky")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotPath != "/words" || gotQuery != "night sky" {
		t.Errorf("Unexpected request %s?rel_rhy=%s", gotPath, gotQuery)
	}

	if diff := cmp.Diff([]string{"light", "delight"}, words); diff != "" {
		t.Errorf("Rhymes mismatch (-want +got):\n%s", diff)
	}
}

func TestDatamuse_EmptyIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	words, err := NewDatamuseClient(server.URL, time.Second, nil).RhymeWords(context.Background(), "orange")
	if err != nil {
		t.Fatalf("Expected empty result without error, got %v", err)
	}
	if len(words) != 0 {
		t.Errorf("Expected no words, got %v", words)
	}
}

func TestDatamuse_Suggestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sug" || r.URL.Query().Get("s") != "rhy" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"word":"rhyme","score":100},{"word":"rhythm","score":90}]`))
	}))
	defer server.Close()

	sug, err := NewDatamuseClient(server.URL, time.Second, nil).Suggestions(context.Background(), "rhy")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(sug) != 2 || sug[0].Word != "rhyme" || sug[1].Score != 90 {
		t.Errorf("Unexpected suggestions %+v", sug)
	}
}

func TestDatamuse_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewDatamuseClient(server.URL, time.Second, nil).Rhymes(context.Background(), "day")

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", netErr.StatusCode)
	}
	if errors.Is(err, ErrNoResults) || errors.Is(err, ErrTimedOut) {
		t.Error("Expected transport failure not to be conflated with other errors")
	}
}

func TestDatamuse_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewDatamuseClient(url, time.Second, nil).Rhymes(context.Background(), "day")

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != 0 || netErr.Unwrap() == nil {
		t.Errorf("Expected transport cause without status, got %+v", netErr)
	}
}

func TestDatamuse_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	if _, err := NewDatamuseClient(server.URL, time.Second, nil).Rhymes(context.Background(), "day"); err == nil {
		t.Error("Expected parse error")
	}
}

func TestFetch_TimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := NewDatamuseClient(server.URL, 50*time.Millisecond, nil).Rhymes(context.Background(), "day")
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("Expected ErrTimedOut, got %v", err)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		t.Error("Expected timeout not to be reported as NetworkError")
	}
}

const wiktionaryBody = `{
  "en": [
    {
      "partOfSpeech": "Noun",
      "language": "English",
      "definitions": [
        {
          "definition": "The <b>time</b> when the sun is below the <a href=\"/wiki/horizon\" onclick=\"x()\">horizon</a>.",
          "examples": ["We walked all <i>night</i>.", "  "]
        },
        {"definition": ""}
      ]
    },
    {
      "partOfSpeech": "Verb",
      "language": "English",
      "definitions": [{"definition": "<script>alert(1)</script>To spend the night."}]
    }
  ],
  "fr": [
    {"partOfSpeech": "Noun", "definitions": [{"definition": "nuit"}]}
  ]
}`

func TestWiktionary_Definitions(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(wiktionaryBody))
	}))
	defer server.Close()

	client := NewWiktionaryClient(server.URL, time.Second, nil)
	defs, err := client.Definitions(context.Background(), "night")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if gotPath != "/definition/night" {
		t.Errorf("Unexpected path %q", gotPath)
	}

	if len(defs) != 2 {
		t.Fatalf("Expected 2 English definitions, got %d: %+v", len(defs), defs)
	}

	first := defs[0]
	if first.PartOfSpeech != "Noun" {
		t.Errorf("Expected part of speech 'Noun', got %q", first.PartOfSpeech)
	}
	if !strings.Contains(first.Text, "<b>time</b>") {
		t.Errorf("Expected bold markup kept, got %q", first.Text)
	}
	if strings.Contains(first.Text, "<a") || strings.Contains(first.Text, "onclick") {
		t.Errorf("Expected link stripped, got %q", first.Text)
	}
	if !strings.Contains(first.Text, "horizon") {
		t.Errorf("Expected link text kept, got %q", first.Text)
	}
	if len(first.Examples) != 1 || first.Examples[0] != "We walked all <i>night</i>." {
		t.Errorf("Unexpected examples %q", first.Examples)
	}

	if strings.Contains(defs[1].Text, "script") || strings.Contains(defs[1].Text, "alert") {
		t.Errorf("Expected script removed, got %q", defs[1].Text)
	}

	fragments, err := client.Fragments(context.Background(), "night")
	if err != nil || len(fragments) != 2 {
		t.Errorf("Expected 2 fragments, got %v (err %v)", fragments, err)
	}
}

func TestWiktionary_NoResults(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"Missing page", http.StatusNotFound, `{"title":"Not found."}`},
		{"No English section", http.StatusOK, `{"fr":[{"definitions":[{"definition":"nuit"}]}]}`},
		{"Empty definitions", http.StatusOK, `{"en":[{"definitions":[{"definition":"  "}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewWiktionaryClient(server.URL, time.Second, nil).Definitions(context.Background(), "xyzzy")
			if !errors.Is(err, ErrNoResults) {
				t.Errorf("Expected ErrNoResults, got %v", err)
			}
		})
	}
}

func TestWiktionary_EscapesWord(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(wiktionaryBody))
	}))
	defer server.Close()

	if _, err := NewWiktionaryClient(server.URL, time.Second, nil).Definitions(context.Background(), "ice cream"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotPath != "/definition/ice%20cream" {
		t.Errorf("Expected escaped path, got %q", gotPath)
	}
}
