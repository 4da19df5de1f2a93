package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TagListKey is the top-level key holding the tag list in the data file.
const TagListKey = "fakeWaterBlocks"

// YAMLFile stores tags as a string list under TagListKey. Other top-level
// keys in the file are preserved on save.
type YAMLFile struct {
	path string
	log  *zap.Logger
}

func NewYAMLFile(path string, log *zap.Logger) *YAMLFile {
	return &YAMLFile{path: path, log: log}
}

func (f *YAMLFile) Name() string { return "yaml:" + f.path }

func (f *YAMLFile) LoadEntries(_ context.Context) ([]string, error) {
	doc, err := f.readDoc()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		f.log.Info("data file not found, starting empty", zap.String("path", f.path))
		return []string{}, nil
	}

	list := mappingValue(doc.Content[0], TagListKey)
	if list == nil {
		return []string{}, nil
	}
	if list.Kind != yaml.SequenceNode {
		f.log.Warn("ignoring non-list tag section", zap.String("path", f.path), zap.String("key", TagListKey))
		return []string{}, nil
	}

	out := make([]string, 0, len(list.Content))
	for _, item := range list.Content {
		if item.Kind != yaml.ScalarNode {
			f.log.Warn("skipping non-scalar tag entry", zap.String("path", f.path), zap.Int("line", item.Line))
			continue
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// SaveEntries writes to a temp file in the same directory and renames it over
// the target, so a crash leaves either the old or the complete new file.
func (f *YAMLFile) SaveEntries(_ context.Context, entries []string) error {
	doc, err := f.readDoc()
	if err != nil {
		// An unreadable old file is replaced rather than blocking saves.
		f.log.Warn("rewriting unreadable data file", zap.String("path", f.path), zap.Error(err))
		doc = nil
	}
	if doc == nil {
		doc = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, e := range entries {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e})
	}
	setMappingValue(doc.Content[0], TagListKey, seq)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	return writeFileAtomic(f.path, data)
}

// readDoc returns nil, nil when the file does not exist.
func (f *YAMLFile) readDoc() (*yaml.Node, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		// empty file
		return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}, nil
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: top level is not a mapping", f.path)
	}
	return &doc, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, v *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = v
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
