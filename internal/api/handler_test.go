package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]string{"course": "intro-to-go"})

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["course"] != "intro-to-go" {
		t.Errorf("course = %q", got["course"])
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type body struct {
		Message string `json:"message"`
	}

	tests := []struct {
		name    string
		payload string
		max     int64
		want    string
		wantErr bool
	}{
		{name: "single value", payload: `{"message":"hi"}`, max: 64, want: "hi"},
		{name: "trailing value", payload: `{"message":"hi"} {"message":"again"}`, max: 64, wantErr: true},
		{name: "malformed", payload: `{"message":`, max: 64, wantErr: true},
		{name: "too large", payload: `{"message":"` + strings.Repeat("x", 100) + `"}`, max: 16, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))
			var got body
			err := DecodeJSON(httptest.NewRecorder(), r, tt.max, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Message != tt.want {
				t.Fatalf("message = %q", got.Message)
			}
		})
	}
}

func TestDecodeErrorStatus(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"`+strings.Repeat("a", 64)+`"}`))
	var v map[string]any
	err := DecodeJSON(httptest.NewRecorder(), r, 8, &v)

	w := httptest.NewRecorder()
	DecodeError(w, err)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body: status = %d, want 413", w.Code)
	}

	w = httptest.NewRecorder()
	DecodeError(w, errors.New("boom"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad body: status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid request body") {
		t.Fatalf("body = %q", w.Body.String())
	}
}
