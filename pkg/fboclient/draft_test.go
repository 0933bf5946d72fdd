package fboclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receiptServer is a minimal in-memory stand-in for the receipts API. It
// records every request so tests can assert on coalescing behavior.
type receiptServer struct {
	mu        sync.Mutex
	receipt   Receipt
	requests  []recordedRequest
	failNext  bool
	delayNext time.Duration
}

type recordedRequest struct {
	method string
	path   string
	body   map[string]interface{}
}

func (s *receiptServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, recordedRequest{method: r.Method, path: r.URL.Path, body: body})
		delay := s.delayNext
		s.delayNext = 0
		s.mu.Unlock()

		// Holds the request open so tests can act while a save is in flight.
		if delay > 0 {
			time.Sleep(delay)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failNext {
			s.failNext = false
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Internal server error",
			})
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/receipts":
			s.receipt = Receipt{ID: uuid.New(), Status: StatusDraft}
			s.applyFields(body)
		case r.Method == http.MethodPatch:
			s.applyFields(body)
		case strings.HasSuffix(r.URL.Path, "/generate"):
			receiptNo := "R-2026-0001"
			s.receipt.Status = StatusGenerated
			s.receipt.ReceiptNo = &receiptNo
		case strings.HasSuffix(r.URL.Path, "/mark-paid"):
			s.receipt.Status = StatusPaid
		case strings.HasSuffix(r.URL.Path, "/void"):
			s.receipt.Status = StatusVoid
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "OK",
			"data":    s.receipt,
		})
	}
}

func (s *receiptServer) applyFields(fields map[string]interface{}) {
	if v, ok := fields["tail_number"].(string); ok {
		s.receipt.TailNumber = v
	}
	if v, ok := fields["notes"].(string); ok {
		s.receipt.Notes = v
	}
	if v, ok := fields["is_caa_member"].(bool); ok {
		s.receipt.IsCAAMember = v
	}
	if v, ok := fields["fuel_quantity"].(string); ok {
		s.receipt.FuelQuantity = decimal.RequireFromString(v)
	}
}

func (s *receiptServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *receiptServer) request(i int) recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[i]
}

func newTestEditor(t *testing.T, opts ...DraftOption) (*DraftEditor, *receiptServer) {
	t.Helper()
	server := &receiptServer{}
	ts := httptest.NewServer(server.handler())
	t.Cleanup(ts.Close)

	client := New(Config{BaseURL: ts.URL, Token: "test-token"})
	opts = append([]DraftOption{WithDebounce(20 * time.Millisecond)}, opts...)
	return NewDraftEditor(client, opts...), server
}

func TestDraftEditor_CoalescesRapidEdits(t *testing.T) {
	editor, server := newTestEditor(t)
	require.NoError(t, editor.Load(context.Background(), nil))

	// Rapid edits, as a CSR typing into the form.
	require.NoError(t, editor.SetTailNumber("N1"))
	require.NoError(t, editor.SetTailNumber("N12"))
	require.NoError(t, editor.SetTailNumber("N123AB"))
	require.NoError(t, editor.SetCAAMember(true))
	require.NoError(t, editor.SetNotes("overnight stay"))
	assert.Equal(t, AutoSavePending, editor.AutoSaveState())

	require.Eventually(t, func() bool {
		return editor.AutoSaveState() == AutoSaveIdle
	}, time.Second, 5*time.Millisecond)

	// All five edits landed in a single create.
	require.Equal(t, 1, server.requestCount())
	req := server.request(0)
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/v1/receipts", req.path)
	assert.Equal(t, "N123AB", req.body["tail_number"])
	assert.Equal(t, true, req.body["is_caa_member"])

	receipt := editor.Receipt()
	assert.Equal(t, "N123AB", receipt.TailNumber)
}

func TestDraftEditor_FirstSaveCreatesAndReportsID(t *testing.T) {
	var persistedID uuid.UUID
	var fired int
	editor, server := newTestEditor(t, WithOnPersisted(func(id uuid.UUID) {
		persistedID = id
		fired++
	}))
	require.NoError(t, editor.Load(context.Background(), nil))
	assert.Nil(t, editor.ID())

	require.NoError(t, editor.SetTailNumber("N100XX"))
	require.NoError(t, editor.Flush(context.Background()))

	require.Equal(t, 1, fired)
	require.NotNil(t, editor.ID())
	assert.Equal(t, *editor.ID(), persistedID)

	// Subsequent saves patch the existing draft and do not re-fire.
	require.NoError(t, editor.SetNotes("parked at A4"))
	require.NoError(t, editor.Flush(context.Background()))
	assert.Equal(t, 1, fired)

	req := server.request(1)
	assert.Equal(t, http.MethodPatch, req.method)
	assert.Equal(t, "/api/v1/receipts/"+persistedID.String(), req.path)
	assert.Equal(t, map[string]interface{}{"notes": "parked at A4"}, req.body)
}

func TestDraftEditor_FailedSaveKeepsEdits(t *testing.T) {
	editor, server := newTestEditor(t)
	require.NoError(t, editor.Load(context.Background(), nil))

	server.mu.Lock()
	server.failNext = true
	server.mu.Unlock()

	require.NoError(t, editor.SetTailNumber("N500ZZ"))
	err := editor.Flush(context.Background())
	require.Error(t, err)
	assert.Equal(t, AutoSaveError, editor.AutoSaveState())
	assert.Error(t, editor.Err())

	// The local view keeps the optimistic value.
	assert.Equal(t, "N500ZZ", editor.Receipt().TailNumber)

	// No automatic retry; an explicit flush resubmits the queued edit.
	assert.Equal(t, 1, server.requestCount())
	require.NoError(t, editor.Flush(context.Background()))
	assert.Equal(t, 2, server.requestCount())
	assert.Equal(t, "N500ZZ", server.request(1).body["tail_number"])
	assert.Equal(t, AutoSaveIdle, editor.AutoSaveState())
	assert.NoError(t, editor.Err())
}

func TestDraftEditor_GenerateFreezesEdits(t *testing.T) {
	editor, _ := newTestEditor(t)
	require.NoError(t, editor.Load(context.Background(), nil))
	require.NoError(t, editor.SetTailNumber("N42"))

	require.NoError(t, editor.Generate(context.Background()))

	receipt := editor.Receipt()
	assert.Equal(t, StatusGenerated, receipt.Status)
	require.NotNil(t, receipt.ReceiptNo)
	assert.True(t, editor.IsReadOnly())

	assert.ErrorIs(t, editor.SetTailNumber("N43"), ErrReadOnly)
	assert.ErrorIs(t, editor.SetNotes("nope"), ErrReadOnly)

	// Lifecycle actions still work past DRAFT.
	require.NoError(t, editor.MarkPaid(context.Background(), "card"))
	assert.Equal(t, StatusPaid, editor.Receipt().Status)
}

func TestDraftEditor_LoadExistingReceipt(t *testing.T) {
	server := &receiptServer{}
	id := uuid.New()
	server.receipt = Receipt{ID: id, Status: StatusDraft, TailNumber: "N777LG"}
	ts := httptest.NewServer(server.handler())
	t.Cleanup(ts.Close)

	editor := NewDraftEditor(New(Config{BaseURL: ts.URL}), WithDebounce(20*time.Millisecond))
	require.NoError(t, editor.Load(context.Background(), &id))

	require.NotNil(t, editor.ID())
	assert.Equal(t, id, *editor.ID())
	assert.Equal(t, "N777LG", editor.Receipt().TailNumber)
	assert.Equal(t, http.MethodGet, server.request(0).method)
}

func TestDraftEditor_GenerateWaitsForInFlightSave(t *testing.T) {
	editor, server := newTestEditor(t)
	require.NoError(t, editor.Load(context.Background(), nil))

	require.NoError(t, editor.SetTailNumber("N88MD"))
	require.NoError(t, editor.Flush(context.Background()))

	// Slow down the next auto-save so an edit lands while it is in flight.
	server.mu.Lock()
	server.delayNext = 150 * time.Millisecond
	server.mu.Unlock()

	require.NoError(t, editor.SetNotes("interim"))
	require.Eventually(t, func() bool {
		return server.requestCount() == 2
	}, time.Second, time.Millisecond)

	require.NoError(t, editor.SetNotes("fuel ticket 4471 attached"))
	require.NoError(t, editor.Generate(context.Background()))

	// The edit queued during the in-flight save reached the server before
	// the receipt was frozen.
	receipt := editor.Receipt()
	assert.Equal(t, StatusGenerated, receipt.Status)
	assert.Equal(t, "fuel ticket 4471 attached", receipt.Notes)

	last := server.request(server.requestCount() - 1)
	require.True(t, strings.HasSuffix(last.path, "/generate"))
	var followUpNotes string
	for i := 0; i < server.requestCount(); i++ {
		req := server.request(i)
		if req.method == http.MethodPatch {
			if v, ok := req.body["notes"].(string); ok {
				followUpNotes = v
			}
		}
	}
	assert.Equal(t, "fuel ticket 4471 attached", followUpNotes)
}

func TestDraftEditor_PatchCoalescesAfterPersist(t *testing.T) {
	editor, server := newTestEditor(t)
	require.NoError(t, editor.Load(context.Background(), nil))

	require.NoError(t, editor.SetTailNumber("N1"))
	require.NoError(t, editor.Flush(context.Background()))

	// Queue two more edits and let the debounce fire once.
	require.NoError(t, editor.SetNotes("first"))
	require.NoError(t, editor.SetNotes("second"))

	require.Eventually(t, func() bool {
		return editor.AutoSaveState() == AutoSaveIdle && server.requestCount() == 2
	}, time.Second, 5*time.Millisecond)

	req := server.request(1)
	assert.Equal(t, http.MethodPatch, req.method)
	assert.Equal(t, "second", req.body["notes"])
}
