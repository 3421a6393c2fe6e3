package syllabus

import (
	"bytes"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnclosedFrontMatter = errors.New("front matter start found but closing '---' not found")
	ErrNotMapping          = errors.New("front matter is not a YAML mapping")

	fenceRegex = regexp.MustCompile(`^---\s*$`)
)

// Split separates the YAML front matter of a Markdown text from its body.
// ok is false when the text does not start with a `---` line.
func Split(text string) (front, body string, ok bool, err error) {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || !isFence(lines[0]) {
		return "", text, false, nil
	}
	for i := 1; i < len(lines); i++ {
		if isFence(lines[i]) {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true, nil
		}
	}
	return "", text, false, ErrUnclosedFrontMatter
}

func isFence(line string) bool {
	return fenceRegex.MatchString(strings.TrimRight(line, "\r\n"))
}

// Document is a syllabus file: either Markdown with YAML front matter or a plain YAML file.
// It keeps the parsed node tree so that saving only rewrites the keys that were Set.
type Document struct {
	root        *yaml.Node
	body        string
	frontMatter bool
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading syllabus")
	}
	doc, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return doc, nil
}

// Parse reads front matter Markdown, or the whole text as YAML when it has no `---` start marker.
func Parse(text string) (*Document, error) {
	front, body, ok, err := Split(text)
	if err != nil {
		return nil, err
	}
	if !ok {
		front, body = text, ""
	}
	root, err := parseMapping(front)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, body: body, frontMatter: ok}, nil
}

func parseMapping(text string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return root, nil
}

// FrontMatter reports whether the document was read as Markdown with front matter.
func (d *Document) FrontMatter() bool { return d.frontMatter }

func (d *Document) Body() string { return d.body }

func (d *Document) lookup(key string) *yaml.Node {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			return d.root.Content[i+1]
		}
	}
	return nil
}

func (d *Document) Has(key string) bool { return d.lookup(key) != nil }

// Decode decodes the value under the top-level key into out. A missing key leaves out untouched.
func (d *Document) Decode(key string, out interface{}) error {
	node := d.lookup(key)
	if node == nil {
		return nil
	}
	return errors.Wrapf(node.Decode(out), "decoding %q", key)
}

// Set replaces the value under key, appending the key when it does not exist yet.
func (d *Document) Set(key string, v interface{}) error {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == key {
			d.root.Content[i+1] = &node
			return nil
		}
	}
	d.root.Content = append(d.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&node,
	)
	return nil
}

// Bytes renders the document the way it was read: fenced front matter plus body, or plain YAML.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if d.frontMatter {
		buf.WriteString("---\n")
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, errors.Wrap(err, "encoding yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding yaml")
	}
	if d.frontMatter {
		buf.WriteString("---\n")
		buf.WriteString(d.body)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return errors.Wrap(ioutil.WriteFile(path, data, 0644), "writing syllabus")
}
