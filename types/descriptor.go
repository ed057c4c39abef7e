package types

import (
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// DescriptorPool is an append-only collection of structural type
// descriptions. It wraps a protoregistry file set; the catalog references
// pools by identity (pointer), which is what the serialization bookkeeping
// keys on, so a pool must not be copied once handed to a catalog.
type DescriptorPool struct {
	files *protoregistry.Files
}

// NewDescriptorPool returns an empty pool.
func NewDescriptorPool() *DescriptorPool {
	return &DescriptorPool{files: new(protoregistry.Files)}
}

// NewPoolFromFiles wraps an existing registry, e.g. protoregistry.GlobalFiles.
func NewPoolFromFiles(files *protoregistry.Files) *DescriptorPool {
	return &DescriptorPool{files: files}
}

// NewPoolFromFileDescriptorSet rehydrates a pool from a serialized
// descriptor set. The set must be self-contained (all imports included).
func NewPoolFromFileDescriptorSet(fdset *descriptorpb.FileDescriptorSet) (*DescriptorPool, error) {
	files, err := protodesc.NewFiles(fdset)
	if err != nil {
		return nil, ErrInvalidRecord.New(err)
	}
	return &DescriptorPool{files: files}, nil
}

// AddFile registers one more file description. Pools only ever grow.
func (p *DescriptorPool) AddFile(fd protoreflect.FileDescriptor) error {
	return p.files.RegisterFile(fd)
}

// NumFiles returns the number of registered file descriptions.
func (p *DescriptorPool) NumFiles() int {
	return p.files.NumFiles()
}

// FindMessage looks up a message description by exact (case-sensitive)
// full name.
func (p *DescriptorPool) FindMessage(fullName string) (protoreflect.MessageDescriptor, error) {
	desc, err := p.files.FindDescriptorByName(protoreflect.FullName(fullName))
	if err != nil {
		return nil, ErrNotFound.New("message", fullName)
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, ErrNotFound.New("message", fullName)
	}
	return md, nil
}

// FindEnum looks up an enum description by exact (case-sensitive) full name.
func (p *DescriptorPool) FindEnum(fullName string) (protoreflect.EnumDescriptor, error) {
	desc, err := p.files.FindDescriptorByName(protoreflect.FullName(fullName))
	if err != nil {
		return nil, ErrNotFound.New("enum", fullName)
	}
	ed, ok := desc.(protoreflect.EnumDescriptor)
	if !ok {
		return nil, ErrNotFound.New("enum", fullName)
	}
	return ed, nil
}

// FileDescriptorSetMap accumulates, across a whole serialization pass, the
// file descriptions backing every structural type written out. Pools are
// assigned dense indexes in first-use order; each file is written once per
// pool, dependencies first, so repeated types across many serialized
// objects do not bloat the output. Deserialization must be handed the
// pools (or the rehydrated sets) in the same order.
type FileDescriptorSetMap struct {
	indexes map[*DescriptorPool]int
	sets    []*descriptorpb.FileDescriptorSet
	seen    []map[string]bool // file path -> already written, per pool index
}

func NewFileDescriptorSetMap() *FileDescriptorSetMap {
	return &FileDescriptorSetMap{indexes: make(map[*DescriptorPool]int)}
}

// PoolIndex returns the dense index for pool, assigning the next one on
// first use.
func (m *FileDescriptorSetMap) PoolIndex(pool *DescriptorPool) int {
	if idx, ok := m.indexes[pool]; ok {
		return idx
	}
	idx := len(m.sets)
	m.indexes[pool] = idx
	m.sets = append(m.sets, &descriptorpb.FileDescriptorSet{})
	m.seen = append(m.seen, make(map[string]bool))
	return idx
}

// AddFile records fd (and, transitively, its imports) under pool's set and
// returns the pool index.
func (m *FileDescriptorSetMap) AddFile(pool *DescriptorPool, fd protoreflect.FileDescriptor) int {
	idx := m.PoolIndex(pool)
	m.addFileLocked(idx, fd)
	return idx
}

func (m *FileDescriptorSetMap) addFileLocked(idx int, fd protoreflect.FileDescriptor) {
	path := fd.Path()
	if m.seen[idx][path] {
		return
	}
	m.seen[idx][path] = true
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		m.addFileLocked(idx, imports.Get(i).FileDescriptor)
	}
	m.sets[idx].File = append(m.sets[idx].File, protodesc.ToFileDescriptorProto(fd))
}

// FileDescriptorSets returns the accumulated sets in pool-index order.
func (m *FileDescriptorSetMap) FileDescriptorSets() []*descriptorpb.FileDescriptorSet {
	return m.sets
}

func (m *FileDescriptorSetMap) Len() int {
	return len(m.sets)
}
