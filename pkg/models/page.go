package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section is one labeled block of a crawled page.
type Section struct {
	Title string
	Text  string
}

// Sections is an ordered mapping of section heading to section text.
// It encodes as a JSON object whose keys keep insertion order.
type Sections []Section

// Set stores text under title. An existing title keeps its position.
func (s *Sections) Set(title, text string) {
	for i := range *s {
		if (*s)[i].Title == title {
			(*s)[i].Text = text
			return
		}
	}
	*s = append(*s, Section{Title: title, Text: text})
}

// Get returns the text stored under title.
func (s Sections) Get(title string) (string, bool) {
	for _, sec := range s {
		if sec.Title == title {
			return sec.Text, true
		}
	}
	return "", false
}

// Len returns the number of sections.
func (s Sections) Len() int {
	return len(s)
}

// MarshalJSON encodes the sections as an ordered JSON object.
func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, sec.Title, sec.Text); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an ordered JSON object into sections.
func (s *Sections) UnmarshalJSON(data []byte) error {
	var out Sections
	err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("section %q: %w", key, err)
		}
		out.Set(key, text)
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// PageRecord is the structured content extracted from one crawled page.
type PageRecord struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Links    []string `json:"links"`
	Sections Sections `json:"sections"`
	Markdown string   `json:"markdown,omitempty"` // main content region as Markdown
}

// pageBody is the snapshot encoding of a PageRecord; the URL is the object key.
type pageBody struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Links    []string `json:"links"`
	Sections Sections `json:"sections"`
	Markdown string   `json:"markdown,omitempty"`
}

// Snapshot is the ordered result of one crawl run, keyed by URL.
type Snapshot struct {
	pages []PageRecord
	index map[string]int
}

// NewSnapshot creates a snapshot holding the given records in order.
func NewSnapshot(records ...PageRecord) *Snapshot {
	s := &Snapshot{}
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Add appends a record, or replaces the record with the same URL in place.
func (s *Snapshot) Add(r PageRecord) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[r.URL]; ok {
		s.pages[i] = r
		return
	}
	s.index[r.URL] = len(s.pages)
	s.pages = append(s.pages, r)
}

// Get returns the record for url.
func (s *Snapshot) Get(url string) (PageRecord, bool) {
	i, ok := s.index[url]
	if !ok {
		return PageRecord{}, false
	}
	return s.pages[i], true
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.pages)
}

// Pages returns the records in crawl order.
func (s *Snapshot) Pages() []PageRecord {
	out := make([]PageRecord, len(s.pages))
	copy(out, s.pages)
	return out
}

// URLs returns the record URLs in crawl order.
func (s *Snapshot) URLs() []string {
	out := make([]string, len(s.pages))
	for i, p := range s.pages {
		out[i] = p.URL
	}
	return out
}

// MarshalJSON encodes the snapshot as a JSON object of URL to page body.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range s.pages {
		if i > 0 {
			buf.WriteByte(',')
		}
		links := p.Links
		if links == nil {
			links = []string{}
		}
		body := pageBody{
			Title:    p.Title,
			Text:     p.Text,
			Links:    links,
			Sections: p.Sections,
			Markdown: p.Markdown,
		}
		if err := writeKeyValue(&buf, p.URL, body); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a snapshot, keeping the object key order.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	out := Snapshot{}
	err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var body pageBody
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("page %q: %w", key, err)
		}
		if len(body.Links) == 0 {
			body.Links = nil
		}
		if len(body.Sections) == 0 {
			body.Sections = nil
		}
		out.Add(PageRecord{
			URL:      key,
			Title:    body.Title,
			Text:     body.Text,
			Links:    body.Links,
			Sections: body.Sections,
			Markdown: body.Markdown,
		})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// marshalNoEscape encodes v without HTML escaping so snapshots stay readable.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeKeyValue(buf *bytes.Buffer, key string, value any) error {
	k, err := marshalNoEscape(key)
	if err != nil {
		return err
	}
	v, err := marshalNoEscape(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// decodeObject walks the members of a JSON object in document order.
func decodeObject(data []byte, member func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := member(key, dec); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
