package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/civicgrid/complaint-service/internal/model"
)

// Client pushes complaints into the search service for full-text lookup.
// Best-effort: never blocks the API and never fails a request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client. With an empty baseURL every call is a no-op.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// IndexComplaintPayload is the body of POST /search/index/complaint.
type IndexComplaintPayload struct {
	ComplaintID string  `json:"complaint_id"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Department  string  `json:"department"`
	Status      string  `json:"status"`
	Priority    float64 `json:"priority_score"`
}

// IndexComplaint sends one complaint to the search service.
func (c *Client) IndexComplaint(ctx context.Context, cm *model.Complaint) {
	if c.baseURL == "" {
		return
	}
	payload := IndexComplaintPayload{
		ComplaintID: cm.ID,
		Description: cm.Description,
		Location:    cm.Location,
		Category:    cm.Category,
		Department:  cm.Department,
		Status:      string(cm.Status),
		Priority:    cm.PriorityScore,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("searchindex: marshal: %v", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search/index/complaint", bytes.NewReader(body))
	if err != nil {
		log.Printf("searchindex: new request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("searchindex: request: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("searchindex: status %d for complaint %s", resp.StatusCode, cm.ID)
		return
	}
}

// IndexComplaintAsync indexes in a goroutine so the API response is not
// delayed by the search service.
func (c *Client) IndexComplaintAsync(cm *model.Complaint) {
	if c.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.IndexComplaint(ctx, cm)
	}()
}
