// Package notefile stores a note on disk as YAML front matter followed by
// the note text.
package notefile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

const delimiter = "---"

// Meta is the front matter of a note file.
type Meta struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title,omitempty"`
	// Step is the position of the owning process step, 1-based.
	Step int `yaml:"step,omitempty"`
}

// Validate checks the id is a UUID and the step is not negative.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ID, validation.Required, validation.By(func(value any) error {
			if _, err := uuid.Parse(value.(string)); err != nil {
				return validation.NewError("notefile.id_invalid", "id must be a UUID")
			}
			return nil
		})),
		validation.Field(&m.Step, validation.Min(0)),
	)
}

// Note is a parsed note file.
type Note struct {
	Meta Meta
	Body string
}

// New returns a note with a fresh id.
func New(title, body string) Note {
	return Note{Meta: Meta{ID: uuid.NewString(), Title: title}, Body: body}
}

// Parse reads a note. Files without front matter are accepted and get a
// fresh id. Line endings in the body are normalized to "\n".
func Parse(r io.Reader) (Note, error) {
	var meta Meta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return Note{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if err := meta.Validate(); err != nil {
		return Note{}, fmt.Errorf("note metadata: %w", err)
	}

	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	return Note{Meta: meta, Body: text}, nil
}

// Load reads the note file at path.
func Load(path string) (Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return Note{}, fmt.Errorf("open note: %w", err)
	}
	defer f.Close()

	note, err := Parse(f)
	if err != nil {
		return Note{}, fmt.Errorf("%s: %w", path, err)
	}
	return note, nil
}

// Encode writes n with its front matter.
func (n Note) Encode(w io.Writer) error {
	if err := n.Meta.Validate(); err != nil {
		return fmt.Errorf("note metadata: %w", err)
	}
	header, err := yaml.Marshal(n.Meta)
	if err != nil {
		return fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(header)
	buf.WriteString(delimiter + "\n")
	buf.WriteString(n.Body)
	_, err = w.Write(buf.Bytes())
	return err
}

// Save writes n to path, replacing any existing file.
func Save(path string, n Note) error {
	var buf bytes.Buffer
	if err := n.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write note: %w", err)
	}
	return nil
}
