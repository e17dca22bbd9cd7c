package main

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/gubarz/stepnotes/internal/paste"
	"github.com/gubarz/stepnotes/internal/render"
	"github.com/gubarz/stepnotes/internal/textedit"
)

// request is the buffer, selection and optional paste payload a command
// operates on.
type request struct {
	Buffer string
	Start  int
	End    int
	HTML   string
	Text   string
}

// Validate rejects offsets outside the buffer.
func (r request) Validate() error {
	n := textedit.RuneLen(r.Buffer)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Start, validation.Min(0), validation.Max(n)),
		validation.Field(&r.End, validation.Min(0), validation.Max(n)),
	)
}

func (r request) selection() textedit.Selection {
	return textedit.Selection{Start: r.Start, End: r.End}
}

func (r request) payload() paste.Payload {
	return paste.Payload{HTML: r.HTML, Text: r.Text}
}

// parseRequest reads a JSON request:
//
//	{"buffer": "...", "selectionStart": 0, "selectionEnd": 0, "html": "...", "text": "..."}
//
// A missing selectionEnd collapses the selection at selectionStart.
func parseRequest(data []byte) (request, error) {
	if !gjson.ValidBytes(data) {
		return request{}, fmt.Errorf("request is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return request{}, fmt.Errorf("request must be a JSON object")
	}

	r := request{
		Buffer: doc.Get("buffer").String(),
		Start:  int(doc.Get("selectionStart").Int()),
		HTML:   doc.Get("html").String(),
		Text:   doc.Get("text").String(),
	}
	if end := doc.Get("selectionEnd"); end.Exists() {
		r.End = int(end.Int())
	} else {
		r.End = r.Start
	}
	return r, nil
}

// encodeEdit renders an edit as {"buffer", "selectionStart", "selectionEnd"}
// plus any extra top-level fields.
func encodeEdit(e textedit.Edit, extra map[string]any) (string, error) {
	out, err := sjson.Set("", "buffer", e.Text)
	if err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "selectionStart", e.Selection.Start); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "selectionEnd", e.Selection.End); err != nil {
		return "", err
	}
	for _, k := range sortedKeys(extra) {
		if out, err = sjson.Set(out, k, extra[k]); err != nil {
			return "", err
		}
	}
	return out, nil
}

// encodeBlocks renders blocks as {"blocks": [...]} plus extra fields.
func encodeBlocks(blocks []render.Block, extra map[string]any) (string, error) {
	out, err := sjson.SetRaw("", "blocks", "[]")
	if err != nil {
		return "", err
	}
	for _, b := range blocks {
		if out, err = sjson.Set(out, "blocks.-1", b); err != nil {
			return "", err
		}
	}
	for _, k := range sortedKeys(extra) {
		if out, err = sjson.Set(out, k, extra[k]); err != nil {
			return "", err
		}
	}
	return out, nil
}
