package omdb

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractRating(t *testing.T) {
	ratings := []Rating{
		{Source: SourceImdb, Value: "9.2/10"},
		{Source: SourceMetacritic, Value: "100/100"},
	}

	imdbRating := ExtractRating(ratings, SourceImdb, NumericPart)
	if imdbRating == nil || *imdbRating != "9.2" {
		t.Errorf("imdb rating = %v, want 9.2", imdbRating)
	}

	meta := ExtractRating(ratings, SourceMetacritic, NumericPart)
	if meta == nil || *meta != "100" {
		t.Errorf("metascore = %v, want 100", meta)
	}

	// Rotten Tomatoes is absent: the extracted rating must be nil, not a
	// placeholder string.
	if rotten := ExtractRating(ratings, SourceRottenTomatoes, nil); rotten != nil {
		t.Errorf("rotten rating = %v, want nil", *rotten)
	}
}

func TestExtractRatingPlaceholderSentinel(t *testing.T) {
	ratings := []Rating{
		{Source: SourceRottenTomatoes, Value: "N/A"},
	}
	if got := ExtractRating(ratings, SourceRottenTomatoes, nil); got != nil {
		t.Errorf("rating = %v, want nil for N/A sentinel", *got)
	}
}

func TestNumericPart(t *testing.T) {
	cases := map[string]string{
		"9.2/10":  "9.2",
		"100/100": "100",
		"98%":     "98%",
	}
	for input, want := range cases {
		if got := NumericPart(input); got != want {
			t.Errorf("NumericPart(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGetByImdbID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "tt0068646" {
			fmt.Fprint(w, `{"Response":"False","Error":"Incorrect IMDb ID."}`)
			return
		}
		fmt.Fprint(w, `{
			"Title":"The Godfather","Year":"1972","Genre":"Crime, Drama",
			"Director":"Francis Ford Coppola","imdbID":"tt0068646",
			"Ratings":[{"Source":"Internet Movie Database","Value":"9.2/10"}],
			"Response":"True"
		}`)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.SetBaseURL(server.URL)

	details, raw, err := client.GetByImdbID("tt0068646")
	if err != nil {
		t.Fatalf("GetByImdbID failed: %v", err)
	}
	if details.NoData() {
		t.Fatal("expected data for tt0068646")
	}
	if details.Title != "The Godfather" || details.Year != "1972" {
		t.Errorf("unexpected details: %+v", details)
	}
	if raw == "" {
		t.Error("expected the raw payload to be returned for audit")
	}
}

func TestGetByImdbIDNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Response":"False","Error":"Error getting data."}`)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.SetBaseURL(server.URL)

	details, _, err := client.GetByImdbID("tt9999999")
	if err != nil {
		t.Fatalf("GetByImdbID failed: %v", err)
	}
	if !details.NoData() {
		t.Error("expected NoData for Response False")
	}
}

func TestGetByImdbIDErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"Response":"False","Error":"Invalid API key!"}`)
	}))
	defer server.Close()

	client := NewClient("bad-key")
	client.SetBaseURL(server.URL)

	if _, _, err := client.GetByImdbID("tt0068646"); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}
