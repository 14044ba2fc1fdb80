package store

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/coder/hnsw"

	apperrors "github.com/docdex/docdex/internal/errors"
)

const (
	graphFileName   = "index.hnsw"
	mappingFileName = "mapping.gob"
	currentFileName = "current"
	genPrefix       = "gen-"

	// hnswM is the graph connectivity parameter (coder/hnsw recommendation).
	hnswM = 16
	// hnswEfSearch controls search-time candidate list size.
	hnswEfSearch = 40
)

// MappingEntry ties a vector slot back to the chunk it was built from.
// The metadata is denormalized so search can render results without
// touching the SQLite store.
type MappingEntry struct {
	ChunkID    int64
	DocumentID int64
	Filename   string
	ChunkIndex int
	Snippet    string
}

// SlotMatch is a raw nearest-neighbor hit: a slot into the mapping and
// its similarity score.
type SlotMatch struct {
	Slot  uint64
	Score float32
}

// ProjectIndex is an immutable, loaded vector index for one project.
// Vectors are unit-normalized at build time, so cosine distance equals
// 1 minus the inner product and scores come out in [-1, 1].
type ProjectIndex struct {
	graph   *hnsw.Graph[uint64]
	mapping []MappingEntry
}

// Len returns the number of indexed vectors.
func (p *ProjectIndex) Len() int {
	return len(p.mapping)
}

// Search returns up to k nearest slots to the query vector, best first.
func (p *ProjectIndex) Search(query []float32, k int) []SlotMatch {
	if p.graph.Len() == 0 || k < 1 {
		return nil
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeInPlace(normalized)

	nodes := p.graph.Search(normalized, k)
	matches := make([]SlotMatch, 0, len(nodes))
	for _, node := range nodes {
		distance := p.graph.Distance(normalized, node.Value)
		matches = append(matches, SlotMatch{
			Slot:  node.Key,
			Score: 1.0 - distance,
		})
	}
	return matches
}

// Entry resolves a slot to its mapping entry.
// Reports false for slots outside the mapping.
func (p *ProjectIndex) Entry(slot uint64) (MappingEntry, bool) {
	if slot >= uint64(len(p.mapping)) {
		return MappingEntry{}, false
	}
	return p.mapping[slot], true
}

// IndexStore manages persisted per-project vector indexes under a root
// directory. Each project owns a subdirectory with a graph artifact and
// a gob-encoded slot mapping.
type IndexStore struct {
	root string
}

// NewIndexStore creates an IndexStore rooted at dir, creating it if needed.
func NewIndexStore(dir string) (*IndexStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeIndexIO,
			fmt.Sprintf("failed to create index root %s", dir), err)
	}
	return &IndexStore{root: dir}, nil
}

func (s *IndexStore) projectDir(projectID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(projectID, 10))
}

// LockPath returns the path of the advisory lock file guarding the
// project's index. It lives beside the project directory so clearing
// the index never removes a held lock.
func (s *IndexStore) LockPath(projectID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(projectID, 10)+".lock")
}

func newGraph() *hnsw.Graph[uint64] {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = hnswM
	graph.EfSearch = hnswEfSearch
	graph.Ml = 0.25
	return graph
}

// Write builds and persists a fresh index from vectors and their mapping
// entries, replacing any previous index for the project. Vectors are
// normalized to unit length before insertion; slot i holds entries[i].
// Both artifacts land in a new generation directory that becomes
// visible through a single atomic pointer swap, so a reader never sees
// a graph paired with a mapping from a different build.
func (s *IndexStore) Write(projectID int64, vectors [][]float32, entries []MappingEntry) error {
	if len(vectors) != len(entries) {
		return apperrors.New(apperrors.ErrCodeInternal,
			fmt.Sprintf("vectors and entries length mismatch: %d vs %d", len(vectors), len(entries)), nil)
	}

	graph := newGraph()
	for i, v := range vectors {
		vec := make([]float32, len(v))
		copy(vec, v)
		normalizeInPlace(vec)
		graph.Add(hnsw.MakeNode(uint64(i), vec))
	}

	dir := s.projectDir(projectID)
	gen := genPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
	genDir := filepath.Join(dir, gen)
	if err := os.MkdirAll(genDir, 0755); err != nil {
		return apperrors.New(apperrors.ErrCodeIndexIO,
			fmt.Sprintf("failed to create index directory %s", genDir), err)
	}

	if err := writeFile(filepath.Join(genDir, graphFileName), func(f *os.File) error {
		return graph.Export(f)
	}); err != nil {
		_ = os.RemoveAll(genDir)
		return apperrors.New(apperrors.ErrCodeIndexIO, "failed to write vector graph", err)
	}

	if err := writeFile(filepath.Join(genDir, mappingFileName), func(f *os.File) error {
		return gob.NewEncoder(f).Encode(entries)
	}); err != nil {
		_ = os.RemoveAll(genDir)
		return apperrors.New(apperrors.ErrCodeIndexIO, "failed to write slot mapping", err)
	}

	if err := atomicWrite(filepath.Join(dir, currentFileName), func(f *os.File) error {
		_, err := f.WriteString(gen)
		return err
	}); err != nil {
		_ = os.RemoveAll(genDir)
		return apperrors.New(apperrors.ErrCodeIndexIO, "failed to publish index generation", err)
	}

	s.pruneGenerations(dir, gen)
	return nil
}

// pruneGenerations removes superseded generation directories.
// Best effort: a reader that already opened the old generation keeps
// its file handles, and leftovers are retried on the next Write.
func (s *IndexStore) pruneGenerations(dir, keep string) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, ent := range dirents {
		name := ent.Name()
		if ent.IsDir() && strings.HasPrefix(name, genPrefix) && name != keep {
			_ = os.RemoveAll(filepath.Join(dir, name))
		}
	}
}

// writeFile creates path and hands it to write. Used for files inside
// a not-yet-published generation directory, where no rename is needed.
func writeFile(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// atomicWrite writes via a temp file in the same directory and renames
// into place.
func atomicWrite(path string, write func(*os.File) error) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Read loads a project's index from disk. The second return value is
// false when no index exists, which is a normal state, not an error.
// A published generation missing its artifacts, or a graph whose node
// count disagrees with the mapping, is reported as a corrupt index.
func (s *IndexStore) Read(projectID int64) (*ProjectIndex, bool, error) {
	dir := s.projectDir(projectID)

	pointer, err := os.ReadFile(filepath.Join(dir, currentFileName))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.New(apperrors.ErrCodeIndexIO, "failed to read index pointer", err)
	}

	genDir := filepath.Join(dir, strings.TrimSpace(string(pointer)))

	graphFile, err := os.Open(filepath.Join(genDir, graphFileName))
	if os.IsNotExist(err) {
		return nil, false, apperrors.New(apperrors.ErrCodeCorruptIndex, "vector graph missing", err)
	}
	if err != nil {
		return nil, false, apperrors.New(apperrors.ErrCodeIndexIO, "failed to open vector graph", err)
	}
	defer graphFile.Close()

	graph := newGraph()
	// coder/hnsw Import requires an io.ByteReader.
	if err := graph.Import(bufio.NewReader(graphFile)); err != nil {
		return nil, false, apperrors.New(apperrors.ErrCodeCorruptIndex, "failed to import vector graph", err)
	}

	mappingFile, err := os.Open(filepath.Join(genDir, mappingFileName))
	if os.IsNotExist(err) {
		return nil, false, apperrors.New(apperrors.ErrCodeCorruptIndex, "slot mapping missing", err)
	}
	if err != nil {
		return nil, false, apperrors.New(apperrors.ErrCodeIndexIO, "failed to open slot mapping", err)
	}
	defer mappingFile.Close()

	var entries []MappingEntry
	if err := gob.NewDecoder(mappingFile).Decode(&entries); err != nil {
		return nil, false, apperrors.New(apperrors.ErrCodeCorruptIndex, "failed to decode slot mapping", err)
	}

	if graph.Len() != len(entries) {
		return nil, false, apperrors.New(apperrors.ErrCodeCorruptIndex,
			fmt.Sprintf("graph has %d vectors but mapping has %d entries", graph.Len(), len(entries)), nil)
	}

	return &ProjectIndex{graph: graph, mapping: entries}, true, nil
}

// Clear removes a project's index directory. Clearing an absent index
// is a no-op.
func (s *IndexStore) Clear(projectID int64) error {
	if err := os.RemoveAll(s.projectDir(projectID)); err != nil {
		return apperrors.New(apperrors.ErrCodeIndexIO, "failed to remove index directory", err)
	}
	return nil
}

// normalizeInPlace scales a vector to unit length. Zero vectors are
// left untouched.
func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	invMagnitude := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= invMagnitude
	}
}
