package zotero

import "encoding/json"

// Item is one library object as returned by the API: the identifying key,
// the server's version counter, and the editable data payload.
type Item struct {
	Key     string   `json:"key"`
	Version int64    `json:"version"`
	Data    ItemData `json:"data"`
}

// Creator is one author entry. Personal creators carry first/last names;
// institutional creators carry a single name.
type Creator struct {
	CreatorType string `json:"creatorType,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Tag is one tag entry on an item, or one entry of the library tag listing.
type Tag struct {
	Tag  string `json:"tag"`
	Type int    `json:"type,omitempty"`
}

// ItemData is the editable payload of an item. The API replaces the whole
// object on write, so fields this client does not model are captured on read
// and emitted back unchanged on write.
type ItemData struct {
	Key        string    `json:"key,omitempty"`
	Version    int64     `json:"version,omitempty"`
	ItemType   string    `json:"itemType,omitempty"`
	Title      string    `json:"title,omitempty"`
	Creators   []Creator `json:"creators,omitempty"`
	Date       string    `json:"date,omitempty"`
	URL        string    `json:"url,omitempty"`
	DOI        string    `json:"DOI,omitempty"`
	Extra      string    `json:"extra,omitempty"`
	Note       string    `json:"note,omitempty"`
	ParentItem string    `json:"parentItem,omitempty"`
	Tags       []Tag     `json:"tags"`

	// rest holds fields outside the modeled set, keyed by their JSON name.
	rest map[string]json.RawMessage
}

var itemDataKeys = map[string]bool{
	"key": true, "version": true, "itemType": true, "title": true,
	"creators": true, "date": true, "url": true, "DOI": true,
	"extra": true, "note": true, "parentItem": true, "tags": true,
}

// UnmarshalJSON decodes the modeled fields and stashes everything else so a
// later full-replace write round-trips the item losslessly.
func (d *ItemData) UnmarshalJSON(b []byte) error {
	type bare ItemData
	var known bare
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k := range raw {
		if itemDataKeys[k] {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		raw = nil
	}
	*d = ItemData(known)
	d.rest = raw
	return nil
}

// MarshalJSON emits the modeled fields merged with any stashed unmodeled
// ones. A nil tag slice is emitted as an empty array, which the API requires.
func (d ItemData) MarshalJSON() ([]byte, error) {
	if d.Tags == nil {
		d.Tags = []Tag{}
	}
	type bare ItemData
	b, err := json.Marshal(bare(d))
	if err != nil {
		return nil, err
	}
	if len(d.rest) == 0 {
		return b, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.rest {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
