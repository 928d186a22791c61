package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/civicgrid/complaint-service/internal/errs"
	"github.com/civicgrid/complaint-service/internal/kafka"
	"github.com/civicgrid/complaint-service/internal/model"
	"github.com/civicgrid/complaint-service/internal/routing"
	"github.com/civicgrid/complaint-service/internal/searchindex"
	"github.com/civicgrid/complaint-service/internal/service"
	"github.com/gin-gonic/gin"
)

// mockComplaintService records calls and returns canned results.
type mockComplaintService struct {
	complaint *model.Complaint
	err       error

	createdInput   service.CreateComplaintInput
	votedVoter     string
	transitionedTo model.ComplaintStatus
	actor          string
}

func (m *mockComplaintService) Create(_ context.Context, in service.CreateComplaintInput) (*model.Complaint, error) {
	m.createdInput = in
	return m.complaint, m.err
}

func (m *mockComplaintService) GetByID(context.Context, string) (*model.Complaint, error) {
	return m.complaint, m.err
}

func (m *mockComplaintService) List(context.Context, map[string]interface{}, int, int) ([]model.Complaint, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []model.Complaint{*m.complaint}, 1, nil
}

func (m *mockComplaintService) Transition(_ context.Context, _ string, to model.ComplaintStatus, actor string) (*model.Complaint, error) {
	m.transitionedTo = to
	m.actor = actor
	return m.complaint, m.err
}

func (m *mockComplaintService) Assign(_ context.Context, _, _, actor string) (*model.Complaint, error) {
	m.actor = actor
	return m.complaint, m.err
}

func (m *mockComplaintService) RegisterVote(_ context.Context, _, voterID string) (*model.Complaint, error) {
	m.votedVoter = voterID
	return m.complaint, m.err
}

func (m *mockComplaintService) AddComment(context.Context, string, string, string) (*model.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Comment{ID: "comment-1"}, nil
}

func (m *mockComplaintService) AddNote(context.Context, string, string, string) (*model.ActivityRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.ActivityRecord{Kind: model.ActivityNoteAdded}, nil
}

func (m *mockComplaintService) Analytics(context.Context) (*service.AnalyticsSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &service.AnalyticsSummary{Total: 1}, nil
}

type mockActivityService struct {
	records []model.ActivityRecord
	err     error
}

func (m *mockActivityService) Recent(context.Context, int) ([]model.ActivityRecord, error) {
	return m.records, m.err
}

func (m *mockActivityService) ForComplaint(context.Context, string) ([]model.ActivityRecord, error) {
	return m.records, m.err
}

func newTestRouter(svc service.ComplaintServicer, activity service.ActivityServicer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewComplaintHandler(svc, activity, routing.NewEngine(nil, 0), kafka.NewProducer(nil, ""), searchindex.NewClient(""))
	r := gin.New()
	r.POST("/complaints", h.Create)
	r.GET("/complaints/:id", h.Get)
	r.POST("/complaints/:id/vote", h.Vote)
	r.POST("/complaints/:id/status", h.UpdateStatus)
	r.POST("/complaints/:id/notes", h.Note)
	r.POST("/classify", h.Classify)
	return r
}

func doRequest(r *gin.Engine, method, path, body, actor string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateComplaint(t *testing.T) {
	mock := &mockComplaintService{complaint: &model.Complaint{ID: "c-1", Status: model.StatusInReview}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints",
		`{"description":"water pipe burst on main street","severity":3}`, "alice@example.com")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body)
	}
	if mock.createdInput.SubmittedBy != "alice@example.com" {
		t.Errorf("submitted_by = %q, want header actor", mock.createdInput.SubmittedBy)
	}
	if mock.createdInput.Severity != 3 {
		t.Errorf("severity = %d, want 3", mock.createdInput.Severity)
	}
}

func TestCreateComplaintShortDescription(t *testing.T) {
	mock := &mockComplaintService{complaint: &model.Complaint{}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints", `{"description":"short"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetComplaintNotFound(t *testing.T) {
	mock := &mockComplaintService{err: errs.ErrComplaintNotFound}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodGet, "/complaints/nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestVote(t *testing.T) {
	mock := &mockComplaintService{complaint: &model.Complaint{ID: "c-1", VoteCount: 4, PriorityScore: 5.6}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints/c-1/vote", "", "voter-9")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if mock.votedVoter != "voter-9" {
		t.Errorf("voter = %q, want header actor", mock.votedVoter)
	}
	var resp struct {
		Votes    int     `json:"votes"`
		Priority float64 `json:"priority_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Votes != 4 || resp.Priority != 5.6 {
		t.Errorf("response = %+v", resp)
	}
}

func TestVoteWithoutIdentity(t *testing.T) {
	mock := &mockComplaintService{complaint: &model.Complaint{}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints/c-1/vote", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVoteConflictMapping(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  error
	}{
		{"duplicate vote", errs.ErrDuplicateVote},
		{"closed complaint", fmt.Errorf("%w: cannot vote on a resolved complaint", errs.ErrComplaintClosed)},
		{"lost race", errs.ErrConflict},
	} {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockComplaintService{err: tt.err}
			r := newTestRouter(mock, &mockActivityService{})
			w := doRequest(r, http.MethodPost, "/complaints/c-1/vote", "", "voter-9")
			if w.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409", w.Code)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	mock := &mockComplaintService{complaint: &model.Complaint{ID: "c-1", Status: model.StatusAssigned}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints/c-1/status", `{"status":"assigned"}`, "admin-1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if mock.transitionedTo != model.StatusAssigned || mock.actor != "admin-1" {
		t.Errorf("transition call = (%s, %s)", mock.transitionedTo, mock.actor)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		actor string
		want  int
	}{
		{name: "missing actor", body: `{"status":"assigned"}`, want: http.StatusBadRequest},
		{name: "unknown status", body: `{"status":"vanished"}`, actor: "admin-1", want: http.StatusBadRequest},
		{name: "missing status", body: `{}`, actor: "admin-1", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockComplaintService{complaint: &model.Complaint{}}
			r := newTestRouter(mock, &mockActivityService{})
			w := doRequest(r, http.MethodPost, "/complaints/c-1/status", tt.body, tt.actor)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	mock := &mockComplaintService{err: fmt.Errorf("%w: resolved -> new", errs.ErrInvalidTransition)}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints/c-1/status", `{"status":"new"}`, "admin-1")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestNote(t *testing.T) {
	mock := &mockComplaintService{complaint: &model.Complaint{}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/complaints/c-1/notes", `{"text":"crew dispatched"}`, "admin-1")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body)
	}
	var record model.ActivityRecord
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record.Kind != model.ActivityNoteAdded {
		t.Errorf("kind = %q, want note_added", record.Kind)
	}
}

func TestClassifyPreviewDegraded(t *testing.T) {
	// The test router carries a nil-artifact engine, so preview classification
	// must answer with the fallback pairing instead of an error.
	mock := &mockComplaintService{complaint: &model.Complaint{}}
	r := newTestRouter(mock, &mockActivityService{})

	w := doRequest(r, http.MethodPost, "/classify", `{"description":"deep pothole near the school"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	var result routing.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Source != routing.SourceFallback || !result.NeedsReview {
		t.Errorf("result = %+v, want fallback needing review", result)
	}
}
