package zotero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// recordedRequest captures what the client sent, for assertions after the
// call returns.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Body   []byte
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()
	var recorded []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		query := make(map[string]string)
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		recorded = append(recorded, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  query,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL, UserID: "12345", APIKey: "secret"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return client, &recorded
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{APIKey: "k"}); err == nil {
		t.Error("New() accepted a config without a user ID")
	}
	if _, err := New(Config{UserID: "1"}); err == nil {
		t.Error("New() accepted a config without an API key")
	}
}

func TestItemsByTag_Pagination(t *testing.T) {
	// Two pages: a full one, then a short one.
	page := 0
	client, recorded := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := pageSize
		if page > 0 {
			n = 30
		}
		items := make([]Item, n)
		for i := range items {
			items[i] = Item{Key: fmt.Sprintf("K%d-%d", page, i), Version: 1}
		}
		page++
		writeJSON(t, w, items)
	})

	items, err := client.ItemsByTag(context.Background(), "reading list", true)
	if err != nil {
		t.Fatalf("ItemsByTag() failed: %v", err)
	}
	if len(items) != pageSize+30 {
		t.Errorf("got %d items, want %d", len(items), pageSize+30)
	}

	reqs := *recorded
	if len(reqs) != 2 {
		t.Fatalf("made %d requests, want 2", len(reqs))
	}
	first := reqs[0]
	if first.Path != "/users/12345/items" {
		t.Errorf("path = %q", first.Path)
	}
	if first.Query["tag"] != "reading list" || first.Query["limit"] != "100" || first.Query["start"] != "0" {
		t.Errorf("first page query = %v", first.Query)
	}
	if first.Query["itemType"] != "-note" {
		t.Errorf("itemType filter = %q, want -note", first.Query["itemType"])
	}
	if reqs[1].Query["start"] != "100" {
		t.Errorf("second page start = %q, want 100", reqs[1].Query["start"])
	}
	if got := first.Header.Get("Zotero-API-Key"); got != "secret" {
		t.Errorf("API key header = %q", got)
	}
	if got := first.Header.Get("Zotero-API-Version"); got != "3" {
		t.Errorf("API version header = %q", got)
	}
}

func TestItem(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, Item{Key: "AB12", Version: 9, Data: ItemData{Title: "Foo Bar"}})
	})

	item, err := client.Item(context.Background(), "AB12")
	if err != nil {
		t.Fatalf("Item() failed: %v", err)
	}
	if item.Key != "AB12" || item.Version != 9 || item.Data.Title != "Foo Bar" {
		t.Errorf("Item() = %+v", item)
	}
	if got := (*recorded)[0].Path; got != "/users/12345/items/AB12" {
		t.Errorf("path = %q", got)
	}
}

func TestUpdateItem(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	data := ItemData{Title: "New Title", Tags: []Tag{{Tag: "nlp"}}}
	if err := client.UpdateItem(context.Background(), "AB12", 9, data); err != nil {
		t.Fatalf("UpdateItem() failed: %v", err)
	}

	req := (*recorded)[0]
	if req.Method != http.MethodPut || req.Path != "/users/12345/items/AB12" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if got := req.Header.Get("If-Unmodified-Since-Version"); got != "9" {
		t.Errorf("version precondition = %q, want 9", got)
	}

	var sent ItemData
	if err := json.Unmarshal(req.Body, &sent); err != nil {
		t.Fatalf("request body not valid JSON: %v", err)
	}
	if sent.Title != "New Title" || len(sent.Tags) != 1 {
		t.Errorf("sent data = %+v", sent)
	}
}

func TestUpdateItem_Conflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})

	err := client.UpdateItem(context.Background(), "AB12", 9, ItemData{})
	var conflict *RemoteConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want RemoteConflictError", err)
	}
	if conflict.Key != "AB12" || conflict.Version != 9 {
		t.Errorf("conflict = %+v", conflict)
	}
}

func TestUpdateItem_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	})

	err := client.UpdateItem(context.Background(), "AB12", 9, ItemData{})
	var rerr *RemoteRequestError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want RemoteRequestError", err)
	}
	if rerr.StatusCode != http.StatusInternalServerError || rerr.Body != "boom" {
		t.Errorf("request error = %+v", rerr)
	}
}

func TestDeleteItem_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	err := client.DeleteItem(context.Background(), "GONE", 4)
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestChildNotes(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []Item{{Key: "N1", Data: ItemData{ItemType: "note", Note: "<p>x</p>"}}})
	})

	notes, err := client.ChildNotes(context.Background(), "AB12")
	if err != nil {
		t.Fatalf("ChildNotes() failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Key != "N1" {
		t.Errorf("ChildNotes() = %+v", notes)
	}

	req := (*recorded)[0]
	if req.Path != "/users/12345/items/AB12/children" {
		t.Errorf("path = %q", req.Path)
	}
	if req.Query["itemType"] != "note" {
		t.Errorf("itemType = %q, want note", req.Query["itemType"])
	}
}

func TestCreateItems_PartialFailure(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"successful": map[string]any{},
			"failed": map[string]any{
				"0": map[string]any{"code": 400, "message": "Invalid value for itemType"},
			},
		})
	})

	err := client.CreateItems(context.Background(), []ItemData{{ItemType: "bogus"}})
	if err == nil {
		t.Fatal("CreateItems() returned nil despite a rejected entry")
	}
	if got := err.Error(); got == "" || !jsonArrayBody((*recorded)[0].Body) {
		t.Errorf("err = %q, body = %s", got, (*recorded)[0].Body)
	}
}

func TestCreateNote(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"successful": map[string]any{}, "failed": map[string]any{}})
	})

	data := ItemData{ItemType: "note", ParentItem: "AB12", Note: "<p>hi</p>"}
	if err := client.CreateNote(context.Background(), data); err != nil {
		t.Fatalf("CreateNote() failed: %v", err)
	}

	req := (*recorded)[0]
	if req.Method != http.MethodPost || req.Path != "/users/12345/items" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	var sent []ItemData
	if err := json.Unmarshal(req.Body, &sent); err != nil {
		t.Fatalf("body not a JSON array: %v", err)
	}
	if len(sent) != 1 || sent[0].ParentItem != "AB12" {
		t.Errorf("sent = %+v", sent)
	}
}

func TestTags(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []Tag{{Tag: "nlp"}, {Tag: "reading list"}})
	})

	tags, err := client.Tags(context.Background())
	if err != nil {
		t.Fatalf("Tags() failed: %v", err)
	}
	if len(tags) != 2 || tags[0].Tag != "nlp" {
		t.Errorf("Tags() = %+v", tags)
	}
}

func jsonArrayBody(b []byte) bool {
	var arr []json.RawMessage
	return json.Unmarshal(b, &arr) == nil
}
