package document

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/jimlawless/whereami"
)

// FileStore хранит документ в JSON-файле на локальном диске.
// Все операции внутри процесса сериализуются мьютексом.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger logger.Logger
}

func NewFileStore(path string, logger logger.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(context.Context) (*converter.DocumentModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *FileStore) Save(_ context.Context, doc *converter.DocumentModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(doc)
}

func (s *FileStore) Update(_ context.Context, fn func(doc *converter.DocumentModel) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.write(doc)
}

// load читает документ. Отсутствующий или пустой файл заменяется документом по умолчанию.
func (s *FileStore) load() (*converter.DocumentModel, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(data) == 0 {
		doc := converter.NewDocument()
		if err := s.write(doc); err != nil {
			return nil, err
		}

		s.logger.Infof("created store document at %s", s.path)
		return doc, nil
	}

	var doc converter.DocumentModel
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	doc.Normalize()

	return &doc, nil
}

// write записывает документ во временный файл и переименовывает его поверх основного.
func (s *FileStore) write(doc *converter.DocumentModel) error {
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := tmp.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
