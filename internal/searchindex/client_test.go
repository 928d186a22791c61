package searchindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicgrid/complaint-service/internal/model"
)

func TestIndexComplaint(t *testing.T) {
	var got IndexComplaintPayload
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.IndexComplaint(context.Background(), &model.Complaint{
		ID:          "c-1",
		Description: "water pipe burst",
		Category:    "Water Issues",
		Department:  "Water Dept",
		Status:      model.StatusInReview,
	})

	if path != "/search/index/complaint" {
		t.Errorf("path = %q", path)
	}
	if got.ComplaintID != "c-1" || got.Category != "Water Issues" || got.Status != "in_review" {
		t.Errorf("payload = %+v", got)
	}
}

func TestIndexComplaintNoBaseURL(t *testing.T) {
	// Must be a no-op, not a panic or a dial attempt.
	c := NewClient("")
	c.IndexComplaint(context.Background(), &model.Complaint{ID: "c-1"})
	c.IndexComplaintAsync(&model.Complaint{ID: "c-1"})
}
