package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProblemWritesProblemJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Problem(rec, http.StatusUnprocessableEntity, "Validation Failed", "amount required")

	if got := rec.Header().Get("Content-Type"); got != "application/problem+json" {
		t.Fatalf("content type = %q, want application/problem+json", got)
	}
	var pd ProblemDetail
	if err := json.NewDecoder(rec.Body).Decode(&pd); err != nil {
		t.Fatal(err)
	}
	if pd.Status != http.StatusUnprocessableEntity || pd.Title != "Validation Failed" {
		t.Errorf("unexpected problem body: %+v", pd)
	}
	if want := problemTypeBase + "422"; pd.Type != want {
		t.Errorf("type = %q, want %q", pd.Type, want)
	}
}

func TestJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"status": "ok"})

	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q, want application/json", got)
	}
}
